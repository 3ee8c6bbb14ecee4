package module

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmap/internal/convert"
	"fieldmap/internal/mapping"
	"fieldmap/internal/session"
)

func testSpec() *mapping.Specification {
	return &mapping.Specification{
		Constants: []mapping.Constant{
			{Name: "currency", Value: "EUR"},
			{Name: "limit", Value: "10", Type: convert.TypeInteger},
			{Name: "broken", Value: "ten", Type: convert.TypeInteger},
		},
		Properties: []mapping.Property{
			{Name: "region", Value: "eu"},
			{Name: "retries", Value: "3", Type: convert.TypeLong},
			{Name: "home", Value: "declared", Scope: ScopeEnvironment},
		},
	}
}

func configured(t *testing.T, m Module, docID string) Module {
	t.Helper()
	require.NoError(t, m.Configure(Config{DocID: docID, Spec: testSpec()}))

	return m
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "json", Scheme("JSON:in.json"))
	assert.Equal(t, "yaml", Scheme(" yaml :x"))
	assert.Equal(t, "", Scheme("in.json"))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry().Register("Const", NewConstants)

	assert.True(t, r.Claims("const:anything"))
	assert.False(t, r.Claims("json:a.json"))
	assert.Equal(t, []string{"const"}, r.Schemes())

	m, err := r.New(Config{DocID: "c", URI: "const:"})
	require.NoError(t, err)
	assert.Equal(t, "c", m.Config().DocID)
	assert.NotNil(t, m.Config().Logger)
	assert.NotNil(t, m.Config().Conversion)

	_, err = r.New(Config{DocID: "x", URI: "json:a.json"})
	assert.ErrorIs(t, err, ErrNoModule)
}

func TestConstants(t *testing.T) {
	fields := mapping.Fields{
		{Kind: mapping.FieldConstant, Name: "currency"},
		{Kind: mapping.FieldConstant, Name: "limit"},
		{Kind: mapping.FieldConstant, Value: []any{1, 2}},
		{Kind: mapping.FieldConstant, Name: "missing"},
		{Kind: mapping.FieldConstant, Name: "broken"},
		{Kind: mapping.FieldSimple, DocID: "src"},
	}

	s := session.New(nil, fields)
	h := s.NewHead(&mapping.Entry{ID: "m"}, nil)
	m := configured(t, NewConstants(), mapping.ConstantsDocID)

	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 0))
	assert.Equal(t, "EUR", s.Field(0).Value)

	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 1))
	assert.Equal(t, 10, s.Field(1).Value)

	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 2))
	assert.Equal(t, []any{1, 2}, s.Field(2).Value)

	n, err := m.CollectionSize(s, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = m.CollectionSize(s, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Error(t, m.ProcessSourceFieldMapping(s, h, 3))
	assert.Error(t, m.ProcessSourceFieldMapping(s, h, 4))
	assert.ErrorIs(t, m.ProcessSourceFieldMapping(s, h, 5), ErrUnsupportedField)
	assert.ErrorIs(t, m.ProcessTargetFieldMapping(s, h, 0), ErrReadOnly)
}

func TestProperties_ResolutionOrder(t *testing.T) {
	t.Setenv("FIELDMAP_TEST_TOKEN", "from-env")
	t.Setenv("region", "env-region")

	fields := mapping.Fields{
		{Kind: mapping.FieldProperty, Name: "region"},
		{Kind: mapping.FieldProperty, Name: "retries"},
		{Kind: mapping.FieldProperty, Name: "fieldmap.test-token"},
		{Kind: mapping.FieldProperty, Name: "sessionId"},
		{Kind: mapping.FieldProperty, Name: "region", Scope: "env"},
		{Kind: mapping.FieldProperty, Name: "nothing.here"},
		{Kind: mapping.FieldProperty, Name: "region", Scope: "galaxy"},
		{Kind: mapping.FieldProperty, Name: "date"},
	}

	s := session.New(nil, fields)
	h := s.NewHead(&mapping.Entry{ID: "m"}, nil)

	p := NewProperties().(*Properties)
	p.clock = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	m := configured(t, p, mapping.PropertiesDocID)

	// the specification wins over the environment
	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 0))
	assert.Equal(t, "eu", s.Field(0).Value)

	// the session wins over everything
	s.SetProperty("region", "us")
	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 0))
	assert.Equal(t, "us", s.Field(0).Value)

	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 1))
	assert.Equal(t, int64(3), s.Field(1).Value)

	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 2))
	assert.Equal(t, "from-env", s.Field(2).Value)

	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 3))
	assert.Equal(t, s.ID(), s.Field(3).Value)

	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 4))
	assert.Equal(t, "env-region", s.Field(4).Value)

	assert.Error(t, m.ProcessSourceFieldMapping(s, h, 5))
	assert.Error(t, m.ProcessSourceFieldMapping(s, h, 6))

	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 7))
	assert.Equal(t, "2024-05-06", s.Field(7).Value)

	assert.ErrorIs(t, m.ProcessTargetFieldMapping(s, h, 0), ErrReadOnly)
}

func TestProperties_DeclaredScope(t *testing.T) {
	t.Setenv("home", "/home/ada")

	s := session.New(nil, mapping.Fields{{Kind: mapping.FieldProperty, Name: "home"}})
	h := s.NewHead(&mapping.Entry{ID: "m"}, nil)
	m := configured(t, NewProperties(), mapping.PropertiesDocID)

	require.NoError(t, m.ProcessSourceFieldMapping(s, h, 0))
	assert.Equal(t, "/home/ada", s.Field(0).Value)
}

package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmap/internal/convert"
)

func TestRegister_RejectsNonActions(t *testing.T) {
	type params struct {
		N int `mapstructure:"n"`
	}

	tests := []struct {
		name   string
		action string
		fn     any
		err    error
	}{
		{"not a function", "X", 42, ErrNotAFunction},
		{"nil", "X", nil, ErrNotAFunction},
		{"empty name", " ", func(string) string { return "" }, ErrEmptyName},
		{"no inputs", "X", func() string { return "" }, ErrNotAnAction},
		{"three inputs", "X", func(params, string, string) string { return "" }, ErrNotAnAction},
		{"no outputs", "X", func(string) {}, ErrNotAnAction},
		{"second output not error", "X", func(string) (string, int) { return "", 0 }, ErrNotAnAction},
		{"params not a struct", "X", func(int, string) string { return "" }, ErrNotAnAction},
		{"variadic", "X", func(...string) string { return "" }, ErrNotAnAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder().Register(tt.action, tt.fn).Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRegister_Introspection(t *testing.T) {
	type params struct {
		Count  int     `mapstructure:"count"`
		Label  *string `mapstructure:"label"`
		Hidden string  `mapstructure:"-"`
		plain  bool
	}

	r, err := NewBuilder().
		Register("Repeat", func(p params, s string) ([]string, error) { return nil, nil }).
		Register("Sum", func(v []float64) float64 { return 0 }).
		Build()
	require.NoError(t, err)

	d, ok := r.Find("Repeat", "")
	require.True(t, ok)
	assert.Equal(t, convert.TypeString, d.InputType)
	assert.Equal(t, ArityOne, d.InputArity)
	assert.Equal(t, convert.TypeString, d.OutputType)
	assert.Equal(t, ArityMany, d.OutputArity)
	assert.Equal(t, []Parameter{
		{Name: "count", Type: convert.TypeInteger},
		{Name: "label", Type: convert.TypeString},
	}, d.Parameters)

	d, ok = r.Find("Sum", "")
	require.True(t, ok)
	assert.Equal(t, convert.TypeDouble, d.InputType)
	assert.Equal(t, ArityMany, d.InputArity)
	assert.Equal(t, ArityOne, d.OutputArity)
	assert.Empty(t, d.Parameters)
}

func TestDefaults(t *testing.T) {
	r := NewDefaultRegistry()

	names := r.Names()
	assert.IsNonDecreasing(t, names)

	for _, name := range []string{
		"Trim", "Uppercase", "Length", "PadStringLeft", "SubString", "Absolute", "Average",
		"Concatenate", "ItemAt", "AddDays", "FormatDate", "Equals", "GenerateUUID", CopyToAction,
	} {
		assert.True(t, r.Has(name), name)
	}

	assert.False(t, r.Has("Uppercse"))

	typ, ok := r.OutputType("Length", convert.TypeString)
	require.True(t, ok)
	assert.Equal(t, convert.TypeInteger, typ)

	_, ok = r.OutputType("Nope", convert.TypeString)
	assert.False(t, ok)

	// overloads are listed side by side
	var absolute int
	for _, d := range r.Details() {
		if d.Name == "Absolute" {
			absolute++
		}
	}

	assert.Equal(t, 2, absolute)
}

func TestFind_Overloads(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		hint convert.FieldType
		want convert.FieldType
	}{
		{convert.TypeLong, convert.TypeLong},
		{convert.TypeDouble, convert.TypeDouble},
		{convert.TypeInteger, convert.TypeLong},
		{convert.TypeShort, convert.TypeLong},
		{convert.TypeFloat, convert.TypeDouble},
		{convert.TypeDecimal, convert.TypeDouble},
		{convert.TypeString, convert.TypeLong},
		{convert.TypeAny, convert.TypeLong},
		{"", convert.TypeLong},
	}

	for _, tt := range tests {
		t.Run(string(tt.hint), func(t *testing.T) {
			d, ok := r.Find("Absolute", tt.hint)
			require.True(t, ok)
			assert.Equal(t, tt.want, d.InputType)
		})
	}
}

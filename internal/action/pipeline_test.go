package action

import (
	"errors"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmap/internal/convert"
	"fieldmap/internal/mapping"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(NewDefaultRegistry(), nil)
}

func chain(names ...string) []mapping.Action {
	out := make([]mapping.Action, len(names))
	for i, name := range names {
		out[i] = mapping.Action{Name: name}
	}

	return out
}

func withParams(name string, params map[string]any) mapping.Action {
	return mapping.Action{Name: name, Parameters: params}
}

func TestApply_TrimUppercaseLength(t *testing.T) {
	p := newTestPipeline()

	for _, declared := range []convert.FieldType{convert.TypeString, "", convert.TypeAny, convert.TypeLong} {
		t.Run(string(declared), func(t *testing.T) {
			got, typ, err := p.Apply(chain("Trim", "Uppercase", "Length"), " hi ", declared)
			require.NoError(t, err)
			assert.Equal(t, 2, got)
			assert.Equal(t, convert.TypeInteger, typ)
		})
	}
}

func TestApply_EmptyChainKeepsValue(t *testing.T) {
	got, typ, err := newTestPipeline().Apply(nil, "x", convert.TypeString)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Equal(t, convert.TypeString, typ)

	got, typ, err = newTestPipeline().Apply(nil, 3.5, "")
	require.NoError(t, err)
	assert.Equal(t, 3.5, got)
	assert.Equal(t, convert.TypeDouble, typ)
}

func TestApply_Overloads(t *testing.T) {
	p := newTestPipeline()

	got, typ, err := p.Apply(chain("Absolute"), -4, convert.TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)
	assert.Equal(t, convert.TypeLong, typ)

	got, typ, err = p.Apply(chain("Absolute"), -3.5, convert.TypeDouble)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got)
	assert.Equal(t, convert.TypeDouble, typ)

	got, typ, err = p.Apply(chain("Round"), "2.5", convert.TypeString)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
	assert.Equal(t, convert.TypeLong, typ)
}

func TestApply_Parameters(t *testing.T) {
	p := newTestPipeline()

	tests := []struct {
		name   string
		action mapping.Action
		value  any
		want   any
	}{
		{"append", withParams("Append", map[string]any{"string": "!"}), "hi", "hi!"},
		{"prepend", withParams("Prepend", map[string]any{"string": "> "}), "hi", "> hi"},
		{
			"pad with weakly typed count",
			withParams("PadStringLeft", map[string]any{"padCharacter": "0", "padCount": "3"}),
			"7", "0007",
		},
		{"pad right", withParams("PadStringRight", map[string]any{"padCharacter": ".", "padCount": 2}), "a", "a.."},
		{"substring", withParams("SubString", map[string]any{"startIndex": 1, "endIndex": 3}), "hello", "el"},
		{"substring open end", withParams("SubString", map[string]any{"startIndex": 2}), "hello", "llo"},
		{"after", withParams("SubStringAfter", map[string]any{"match": "@"}), "me@example.org", "example.org"},
		{"before", withParams("SubStringBefore", map[string]any{"match": "@"}), "me@example.org", "me"},
		{"before missing match", withParams("SubStringBefore", map[string]any{"match": "#"}), "abc", ""},
		{"replace all", withParams("ReplaceAll", map[string]any{"match": "a", "newString": "o"}), "banana", "bonono"},
		{"replace first", withParams("ReplaceFirst", map[string]any{"match": "a", "newString": "o"}), "banana", "bonana"},
		{"contains", withParams("Contains", map[string]any{"string": "nan"}), "banana", true},
		{"starts with", withParams("StartsWith", map[string]any{"string": "x"}), "banana", false},
		{"ends with", withParams("EndsWith", map[string]any{"string": "na"}), "banana", true},
		{"index of", withParams("IndexOf", map[string]any{"string": "n"}), "banana", 2},
		{"index of missing", withParams("IndexOf", map[string]any{"string": "z"}), "banana", -1},
		{"equals loosely", withParams("Equals", map[string]any{"value": "1"}), 1, true},
		{"capitalize", mapping.Action{Name: "Capitalize"}, "élan", "Élan"},
		{"normalize", mapping.Action{Name: "Normalize"}, "  a \t b  ", "a b"},
		{"separate by dash", mapping.Action{Name: "SeparateByDash"}, "a b_c", "a-b-c"},
		{"trim left", mapping.Action{Name: "TrimLeft"}, "  a  ", "a  "},
		{"trim right", mapping.Action{Name: "TrimRight"}, "  a  ", "  a"},
		{"copy to is identity", withParams(CopyToAction, map[string]any{"index": 2}), "x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := p.Apply([]mapping.Action{tt.action}, tt.value, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_Collections(t *testing.T) {
	p := newTestPipeline()

	got, typ, err := p.Apply(chain("Trim"), []any{" a ", "b "}, "")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)
	assert.Equal(t, convert.TypeString, typ)

	got, typ, err = p.Apply(chain("Count"), []any{1, 2, 3}, "")
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, convert.TypeInteger, typ)

	got, _, err = p.Apply(chain("Add"), []any{1, 2.5, "3"}, "")
	require.NoError(t, err)
	assert.InDelta(t, 6.5, got, 1e-9)

	got, _, err = p.Apply(chain("Average"), []any{2, 4}, "")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-9)

	// a scalar becomes a one-item collection
	got, _, err = p.Apply(chain("Maximum"), 5, convert.TypeInteger)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-9)

	got, typ, err = p.Apply(
		[]mapping.Action{withParams("Concatenate", map[string]any{"delimiter": "-"})},
		[]any{"a", 1, nil, true}, "",
	)
	require.NoError(t, err)
	assert.Equal(t, "a-1-true", got)
	assert.Equal(t, convert.TypeString, typ)

	got, _, err = p.Apply([]mapping.Action{withParams("ItemAt", map[string]any{"index": 1})}, []any{"x", "y"}, "")
	require.NoError(t, err)
	assert.Equal(t, "y", got)

	got, _, err = p.Apply([]mapping.Action{withParams("ContainsItem", map[string]any{"value": 2})}, []any{"1", "2"}, "")
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestApply_Dates(t *testing.T) {
	p := newTestPipeline()
	day := time.Date(2024, time.January, 30, 15, 4, 5, 0, time.UTC)

	got, typ, err := p.Apply([]mapping.Action{
		withParams("AddDays", map[string]any{"days": 2}),
		withParams("FormatDate", map[string]any{"format": "2006-01-02"}),
	}, day, convert.TypeDateTime)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", got)
	assert.Equal(t, convert.TypeString, typ)

	got, typ, err = p.Apply(chain("DayOfYear"), "2024-02-01", convert.TypeString)
	require.NoError(t, err)
	assert.Equal(t, 32, got)
	assert.Equal(t, convert.TypeInteger, typ)

	got, _, err = p.Apply(chain("DayOfWeek"), day, "")
	require.NoError(t, err)
	assert.Equal(t, int(time.Tuesday), got)

	restore := now
	now = func() time.Time { return day }
	t.Cleanup(func() { now = restore })

	got, typ, err = p.Apply(chain("CurrentDate"), nil, "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, convert.TypeDateTime, typ)
}

func TestApply_Nil(t *testing.T) {
	p := newTestPipeline()

	got, _, err := p.Apply(chain("Uppercase"), nil, convert.TypeString)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, typ, err := p.Apply(chain("IsNull"), nil, convert.TypeString)
	require.NoError(t, err)
	assert.Equal(t, true, got)
	assert.Equal(t, convert.TypeBoolean, typ)

	got, _, err = p.Apply(chain("GenerateUUID"), nil, "")
	require.NoError(t, err)
	assert.Len(t, got, 36)
}

func TestApply_ResolutionError(t *testing.T) {
	_, _, err := newTestPipeline().Apply(chain("Trim", "Uppercse"), " x ", convert.TypeString)
	require.Error(t, err)

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr), spew.Sdump(err))
	assert.Equal(t, "Uppercse", resErr.Name)
	assert.Equal(t, convert.TypeString, resErr.Hint)
	assert.Contains(t, resErr.Suggestions, "Uppercase")
	assert.Contains(t, err.Error(), "did you mean")
}

func TestApply_InvocationErrors(t *testing.T) {
	p := newTestPipeline()

	tests := []struct {
		name  string
		chain []mapping.Action
		value any
		typ   convert.FieldType
	}{
		{"transform fails", []mapping.Action{withParams("SubString", map[string]any{"endIndex": 10})}, "abc", ""},
		{"unknown parameter", []mapping.Action{withParams("Append", map[string]any{"bogus": 1})}, "abc", ""},
		{"bad parameter type", []mapping.Action{withParams("PadStringLeft", map[string]any{"padCount": "many"})}, "abc", ""},
		{"value cannot be coerced", chain("DayOfWeek"), "not a date", convert.TypeString},
		{"division by zero", chain("Divide"), []any{1, 0}, ""},
		{"no operands", chain("Add"), []any{}, ""},
		{"item out of range", []mapping.Action{withParams("ItemAt", map[string]any{"index": 3})}, []any{1}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.Apply(tt.chain, tt.value, tt.typ)
			require.Error(t, err)

			var invErr *InvocationError
			assert.True(t, errors.As(err, &invErr), spew.Sdump(err))
		})
	}
}

func TestApplyTo(t *testing.T) {
	p := newTestPipeline()

	got, typ, err := p.ApplyTo(nil, "42", convert.TypeString, convert.TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, convert.TypeInteger, typ)

	got, typ, err = p.ApplyTo(chain("Length"), "abc", convert.TypeString, convert.TypeString)
	require.NoError(t, err)
	assert.Equal(t, "3", got)
	assert.Equal(t, convert.TypeString, typ)

	got, typ, err = p.ApplyTo(nil, []any{"1", "2"}, "", convert.TypeLong)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, got)
	assert.Equal(t, convert.TypeLong, typ)

	_, _, err = p.ApplyTo(nil, "abc", convert.TypeString, convert.TypeInteger)
	assert.Error(t, err)
}

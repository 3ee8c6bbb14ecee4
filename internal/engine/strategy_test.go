package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmap/internal/mapping"
)

func TestResolveDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", " "},
		{"Comma", ","},
		{"SEMICOLON", ";"},
		{"MultiSpace", " "},
		{"BackSlash", `\`},
		{" | ", " | "},
		{"--", "--"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDelimiter(tt.in))
		})
	}
}

func TestCombineJoin_OrdersByIndex(t *testing.T) {
	got, err := combineJoin(map[int]string{2: "c", 0: "a", 7: "z"}, &mapping.Entry{Delimiter: "Dash"})
	require.NoError(t, err)
	assert.Equal(t, "a-c-z", got)

	got, err = combineJoin(nil, &mapping.Entry{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCombineTemplate(t *testing.T) {
	parts := map[int]string{0: "Ada", 1: "Lovelace"}

	got, err := combineTemplate(parts, &mapping.Entry{Template: "$2, $1 $3$0"})
	require.NoError(t, err)
	assert.Equal(t, "Lovelace, Ada $0", got)

	_, err = combineTemplate(parts, &mapping.Entry{})
	assert.Error(t, err)
}

func TestSeparateSplit(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		entry mapping.Entry
		want  []string
	}{
		{"whitespace runs", "  a \t b\nc ", mapping.Entry{}, []string{"a", "b", "c"}},
		{"blank", "   ", mapping.Entry{}, nil},
		{"named", "a,,b", mapping.Entry{Delimiter: "comma"}, []string{"a", "", "b"}},
		{"literal", "a::b", mapping.Entry{Delimiter: "::"}, []string{"a", "b"}},
		{"limit", "a b c d", mapping.Entry{Limit: 2}, []string{"a", "b c d"}},
		{"limited delimiter", "1|2|3", mapping.Entry{Delimiter: "Pipe", Limit: 2}, []string{"1", "2|3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, separateSplit(tt.text, &tt.entry))
		})
	}
}

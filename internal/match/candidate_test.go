package match

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var actionNames = []string{
	"Trim", "TrimLeft", "TrimRight", "Uppercase", "Lowercase",
	"SubString", "SubStringAfter", "SubStringBefore", "Length", "Average",
}

func TestRankCandidates(t *testing.T) {
	ranked := RankCandidates("upercase", actionNames)
	require.Len(t, ranked, len(actionNames))

	assert.Equal(t, "Uppercase", ranked[0].Name)
	assert.Equal(t, "uppercase", ranked[0].Normalized)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRankCandidates_Determinism(t *testing.T) {
	first := RankCandidates("trim", actionNames)
	for range 10 {
		assert.Equal(t, first, RankCandidates("trim", actionNames))
	}
}

func TestCandidateList_Top(t *testing.T) {
	list := CandidateList{{Name: "a", Score: 0.9}, {Name: "b", Score: 0.8}, {Name: "c", Score: 0.1}}

	assert.Len(t, list.Top(2), 2)
	assert.Len(t, list.Top(10), 3)
	assert.Len(t, list.AboveThreshold(0.5), 2)
	assert.Empty(t, CandidateList{}.AboveThreshold(0))
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"typo", "Uppercse", []string{"Uppercase", "Lowercase"}},
		{"case and separators", "sub_string", []string{"SubString", "SubStringAfter", "SubStringBefore"}},
		{"prefix family", "Trim", []string{"Trim", "TrimLeft", "TrimRight"}},
		{"nothing close", "GenerateUUID", []string{}},
		{"reordered words", "LeftPad", []string{"PadStringLeft"}},
	}

	names := append(slices.Clone(actionNames), "PadStringLeft", "PadStringRight")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.target, names)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}

			assert.Equal(t, tt.want[0], got[0])
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

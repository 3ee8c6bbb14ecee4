package match

import (
	"slices"
	"sort"
	"strings"
)

// Candidate is a known name scored against a requested one.
type Candidate struct {
	Name string

	// Score is the normalized Levenshtein similarity (0-1), boosted when
	// one normalized name contains the other or holds all of its tokens.
	Score float64

	Normalized string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Thresholds used by Suggest.
const (
	// DefaultMinScore is the minimum score for a name to be suggested.
	DefaultMinScore = 0.5
	// DefaultSuggestions is the number of names Suggest returns.
	DefaultSuggestions = 3
	// containsBoost is the score floor for names that contain each other.
	containsBoost = 0.75
)

// RankCandidates scores every known name against target.
// Returns candidates sorted by score (descending), then by name.
func RankCandidates(target string, names []string) CandidateList {
	targetNorm := NormalizeIdent(target)
	targetTokens := TokenizeIdent(target)
	candidates := make(CandidateList, 0, len(names))

	for _, name := range names {
		norm := NormalizeIdent(name)
		score := NormalizedLevenshteinScore(name, target)

		if targetNorm != "" && norm != targetNorm &&
			(strings.Contains(norm, targetNorm) || strings.Contains(targetNorm, norm)) {
			score = max(score, containsBoost)
		}

		if coversTokens(TokenizeIdent(name), targetTokens) {
			score = max(score, containsBoost)
		}

		candidates = append(candidates, Candidate{
			Name:       name,
			Score:      score,
			Normalized: norm,
		})
	}

	sort.Sort(candidates)

	return candidates
}

// coversTokens reports whether every token of a multi-token target appears
// in name, in any order ("LeftPad" against "PadStringLeft").
func coversTokens(name, target []string) bool {
	if len(target) < 2 {
		return false
	}

	for _, t := range target {
		if !slices.Contains(name, t) {
			return false
		}
	}

	return true
}

// Suggest returns up to DefaultSuggestions known names close to target.
func Suggest(target string, names []string) []string {
	ranked := RankCandidates(target, names).AboveThreshold(DefaultMinScore).Top(DefaultSuggestions)

	out := make([]string, 0, len(ranked))
	seen := make(map[string]struct{}, len(ranked))

	for _, c := range ranked {
		if _, ok := seen[c.Name]; ok {
			continue
		}

		seen[c.Name] = struct{}{}
		out = append(out, c.Name)
	}

	return out
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns candidates with a score of at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// Package match provides name normalization, Levenshtein distance and
// candidate ranking used to suggest known names for misspelled ones
// (unknown actions, lookup tables, constants).
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates: ranks known names against a requested one
//   - Suggest: the short list shown in diagnostics
package match

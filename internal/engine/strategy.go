package engine

import (
	"errors"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"fieldmap/internal/mapping"
)

// DefaultSeparateLimit caps the number of separated values.
const DefaultSeparateLimit = 512

// CombineStrategy reduces indexed values to one string.
type CombineStrategy func(parts map[int]string, e *mapping.Entry) (string, error)

// SeparateStrategy splits a string into ordered values.
type SeparateStrategy func(text string, e *mapping.Entry) []string

var combineStrategies = map[string]CombineStrategy{
	"":         combineJoin,
	"default":  combineJoin,
	"template": combineTemplate,
}

var separateStrategies = map[string]SeparateStrategy{
	"":        separateSplit,
	"default": separateSplit,
}

// namedDelimiters lets mapping files spell delimiters by name.
var namedDelimiters = map[string]string{
	"space":      " ",
	"comma":      ",",
	"colon":      ":",
	"semicolon":  ";",
	"dash":       "-",
	"pipe":       "|",
	"period":     ".",
	"slash":      "/",
	"underscore": "_",
	"ampersand":  "&",
	"atsign":     "@",
	"backslash":  `\`,
	"equal":      "=",
	"hash":       "#",
	"plus":       "+",
}

const multiSpace = "multispace"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	placeholder   = regexp.MustCompile(`\$(\d+)`)
)

// ResolveDelimiter returns the literal delimiter for a named or literal
// one. An empty delimiter is a single space.
func ResolveDelimiter(d string) string {
	if d == "" {
		return " "
	}

	if strings.EqualFold(d, multiSpace) {
		return " "
	}

	if lit, ok := namedDelimiters[strings.ToLower(d)]; ok {
		return lit
	}

	return d
}

func combineJoin(parts map[int]string, e *mapping.Entry) (string, error) {
	keys := slices.Sorted(maps.Keys(parts))
	values := make([]string, len(keys))

	for i, k := range keys {
		values[i] = parts[k]
	}

	return strings.Join(values, ResolveDelimiter(e.Delimiter)), nil
}

// combineTemplate replaces "$n" with the value of index n-1. Placeholders
// without a value become empty.
func combineTemplate(parts map[int]string, e *mapping.Entry) (string, error) {
	if e.Template == "" {
		return "", errors.New("template strategy requires a template")
	}

	return placeholder.ReplaceAllStringFunc(e.Template, func(token string) string {
		n, err := strconv.Atoi(token[1:])
		if err != nil || n < 1 {
			return token
		}

		return parts[n-1]
	}), nil
}

// separateSplit splits on runs of whitespace, or on the entry delimiter
// when one is set.
func separateSplit(text string, e *mapping.Entry) []string {
	limit := e.Limit
	if limit <= 0 {
		limit = DefaultSeparateLimit
	}

	if e.Delimiter == "" || strings.EqualFold(e.Delimiter, multiSpace) {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}

		return whitespaceRun.Split(text, limit)
	}

	return strings.SplitN(text, ResolveDelimiter(e.Delimiter), limit)
}

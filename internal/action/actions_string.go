package action

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StringParams carries a single string operand.
type StringParams struct {
	String string `mapstructure:"string"`
}

// PadParams configures PadStringLeft and PadStringRight.
type PadParams struct {
	PadCharacter string `mapstructure:"padCharacter"`
	PadCount     int    `mapstructure:"padCount"`
}

// SubStringParams configures SubString. A nil EndIndex means the end of
// the input.
type SubStringParams struct {
	StartIndex int  `mapstructure:"startIndex"`
	EndIndex   *int `mapstructure:"endIndex"`
}

// MatchParams configures SubStringAfter and SubStringBefore.
type MatchParams struct {
	Match      string `mapstructure:"match"`
	StartIndex int    `mapstructure:"startIndex"`
	EndIndex   *int   `mapstructure:"endIndex"`
}

// ReplaceParams configures ReplaceAll and ReplaceFirst.
type ReplaceParams struct {
	Match     string `mapstructure:"match"`
	NewString string `mapstructure:"newString"`
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	dashSeparated = regexp.MustCompile(`[\s_:=+.]+`)
)

func registerStringActions(b *Builder) {
	b.Register("Trim", strings.TrimSpace)
	b.Register("TrimLeft", func(s string) string { return strings.TrimLeftFunc(s, unicode.IsSpace) })
	b.Register("TrimRight", func(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) })
	b.Register("Uppercase", strings.ToUpper)
	b.Register("Lowercase", strings.ToLower)
	b.Register("Capitalize", capitalize)
	b.Register("SeparateByDash", func(s string) string { return dashSeparated.ReplaceAllString(s, "-") })
	b.Register("Normalize", func(s string) string {
		return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	})
	b.Register("Length", func(s string) int { return utf8.RuneCountInString(s) })
	b.Register("Append", func(p StringParams, s string) string { return s + p.String })
	b.Register("Prepend", func(p StringParams, s string) string { return p.String + s })
	b.Register("PadStringLeft", func(p PadParams, s string) string {
		return strings.Repeat(p.PadCharacter, max(p.PadCount, 0)) + s
	})
	b.Register("PadStringRight", func(p PadParams, s string) string {
		return s + strings.Repeat(p.PadCharacter, max(p.PadCount, 0))
	})
	b.Register("SubString", func(p SubStringParams, s string) (string, error) {
		return substring(s, p.StartIndex, p.EndIndex)
	})
	b.Register("SubStringAfter", subStringAfter)
	b.Register("SubStringBefore", subStringBefore)
	b.Register("ReplaceAll", func(p ReplaceParams, s string) (string, error) {
		if p.Match == "" {
			return "", errors.New("match must not be empty")
		}

		return strings.ReplaceAll(s, p.Match, p.NewString), nil
	})
	b.Register("ReplaceFirst", func(p ReplaceParams, s string) (string, error) {
		if p.Match == "" {
			return "", errors.New("match must not be empty")
		}

		return strings.Replace(s, p.Match, p.NewString, 1), nil
	})
	b.Register("Contains", func(p StringParams, s string) bool { return strings.Contains(s, p.String) })
	b.Register("StartsWith", func(p StringParams, s string) bool { return strings.HasPrefix(s, p.String) })
	b.Register("EndsWith", func(p StringParams, s string) bool { return strings.HasSuffix(s, p.String) })
	b.Register("IndexOf", func(p StringParams, s string) int {
		i := strings.Index(s, p.String)
		if i < 0 {
			return -1
		}

		return utf8.RuneCountInString(s[:i])
	})
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// substring slices s by rune positions; end is exclusive.
func substring(s string, start int, end *int) (string, error) {
	runes := []rune(s)

	stop := len(runes)
	if end != nil {
		stop = *end
	}

	if start < 0 || stop > len(runes) || start > stop {
		return "", fmt.Errorf("indexes [%d:%d] out of range for length %d", start, stop, len(runes))
	}

	return string(runes[start:stop]), nil
}

func subStringAfter(p MatchParams, s string) (string, error) {
	if p.Match == "" {
		return "", errors.New("match must not be empty")
	}

	i := strings.Index(s, p.Match)
	if i < 0 {
		return "", nil
	}

	return substring(s[i+len(p.Match):], p.StartIndex, p.EndIndex)
}

func subStringBefore(p MatchParams, s string) (string, error) {
	if p.Match == "" {
		return "", errors.New("match must not be empty")
	}

	i := strings.Index(s, p.Match)
	if i < 0 {
		return "", nil
	}

	return substring(s[:i], p.StartIndex, p.EndIndex)
}

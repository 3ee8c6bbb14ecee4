package action

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// DelimiterParams configures Concatenate.
type DelimiterParams struct {
	Delimiter string `mapstructure:"delimiter"`
}

// IndexParams selects one item by zero-based position.
type IndexParams struct {
	Index int `mapstructure:"index"`
}

// ValueParams carries a value to compare against.
type ValueParams struct {
	Value any `mapstructure:"value"`
}

func registerCollectionActions(b *Builder) {
	b.Register("Concatenate", func(p DelimiterParams, items []any) (string, error) {
		parts := make([]string, 0, len(items))

		for _, item := range items {
			if item == nil {
				continue
			}

			s, err := cast.ToStringE(item)
			if err != nil {
				return "", err
			}

			parts = append(parts, s)
		}

		return strings.Join(parts, p.Delimiter), nil
	})
	b.Register("Count", func(items []any) int { return len(items) })
	b.Register("ItemAt", func(p IndexParams, items []any) (any, error) {
		if p.Index < 0 || p.Index >= len(items) {
			return nil, fmt.Errorf("index %d out of range for %d items", p.Index, len(items))
		}

		return items[p.Index], nil
	})
	b.Register("ContainsItem", func(p ValueParams, items []any) bool {
		for _, item := range items {
			if looselyEqual(item, p.Value) {
				return true
			}
		}

		return false
	})
}

// looselyEqual compares values by content, falling back to their string
// forms so that 1 and "1" match.
func looselyEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	as, aerr := cast.ToStringE(a)
	bs, berr := cast.ToStringE(b)

	return aerr == nil && berr == nil && as == bs
}

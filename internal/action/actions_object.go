package action

import (
	"github.com/google/uuid"
)

// CopyToAction is the name of the action whose index parameter redirects
// a field's output item. The action itself leaves the value unchanged.
const CopyToAction = "CopyTo"

// CopyToParams configures CopyTo. Index is one-based.
type CopyToParams struct {
	Index int `mapstructure:"index"`
}

func registerObjectActions(b *Builder) {
	b.Register("IsNull", func(v any) bool { return v == nil })
	b.Register("Equals", func(p ValueParams, v any) bool { return looselyEqual(v, p.Value) })
	b.Register("GenerateUUID", func(any) string { return uuid.NewString() })
	b.Register(CopyToAction, func(_ CopyToParams, v any) any { return v })
}

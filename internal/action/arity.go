package action

//go:generate go tool stringer -type=Arity -trimprefix=Arity -output=arity_string.go

// Arity tells whether an action input or output is a single value or a
// collection.
type Arity int

const (
	ArityOne Arity = iota
	ArityMany
)

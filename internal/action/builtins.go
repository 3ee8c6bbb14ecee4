package action

// Defaults returns a Builder holding the built-in action catalogue.
func Defaults() *Builder {
	b := NewBuilder()

	registerStringActions(b)
	registerNumberActions(b)
	registerCollectionActions(b)
	registerDateActions(b)
	registerObjectActions(b)

	return b
}

// NewDefaultRegistry builds the built-in catalogue.
func NewDefaultRegistry() *Registry {
	return Defaults().MustBuild()
}

// Package action implements the field action pipeline: a closed registry
// of transform functions and the dispatcher that runs an action chain over
// a field value.
//
// Actions are plain Go functions registered once through a Builder:
//
//	func(T) U
//	func(T) (U, error)
//	func(P, T) U
//	func(P, T) (U, error)
//
// T and U are mapped onto declared field types; a slice means the action
// consumes or produces a collection. P is a struct whose mapstructure tags
// name the action parameters. Several functions may share a name and are
// then told apart by their input type.
//
// Build freezes the table into a Registry that is safe for concurrent
// reads. A Pipeline pairs a Registry with a conversion service and applies
// chains, coercing values between actions as needed.
package action

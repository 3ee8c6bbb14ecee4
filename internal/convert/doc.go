// Package convert is the type-conversion service consumed by the action
// pipeline, the validator and the execution engine.
//
// It has three parts:
//
//   - FieldType, the declared type vocabulary shared by mapping files and
//     action signatures, with predicates for numeric and date families
//   - a conversion matrix answering "is there a converter from A to B and
//     what concern does it carry" (none, range-lossy, format-sensitive,
//     unsupported)
//   - Default, a Service implementation that performs the conversions
//     on plain Go values
//
// The engine depends only on the Service interface so callers can install
// their own conversion rules.
package convert

// Package path implements the field address grammar shared by every
// document format.
//
// An address is a list of segments separated by "/":
//
//	/order/ns:contacts<>/phones[1]/@type
//
// Each segment is "[@][ns:]name[bracket]" where the optional bracket marks
// a collection:
//
//   - "[idx]" array
//   - "<idx>" list
//   - "{}"    map
//
// The index is optional for arrays and lists; an absent index is a wildcard
// that addresses every item of the collection. A leading "@" marks an
// attribute and a "ns:" prefix a namespace-qualified name.
//
// Parsing is best effort. Malformed brackets leave the segment as a plain,
// non-collection name and nothing is ever rejected. Paths are immutable:
// every operation that rewrites indexes returns a new Path.
package path

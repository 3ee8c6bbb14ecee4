// Package tree implements the module for hierarchical documents held in
// memory as map[string]any and []any values, the shape produced by
// decoding JSON or YAML.
//
// A path segment selects an object key; the key is the segment text
// without its collection bracket, so "@id" and "ns:name" are literal keys.
// Array and list segments index into a []any. Reading an unindexed
// segment collects the value of every item; writing one distributes a
// collection value over the items, or writes a scalar to item 0. Missing
// keys read as nil and are created on write.
package tree

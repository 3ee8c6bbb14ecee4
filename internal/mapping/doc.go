// Package mapping provides the field and mapping model, the YAML mapping
// file format, and the structural validator.
//
// # Schema Overview
//
// A mapping file has the following structure:
//
//	version: "1"
//	name: contacts
//	dataSources:
//	  - id: src
//	    uri: json:source
//	    role: source
//	  - id: tgt
//	    uri: json:target
//	    role: target
//	lookupTables:
//	  - name: states
//	    entries:
//	      - {source: NY, target: New York}
//	constants:
//	  - {name: currency, value: EUR, type: STRING}
//	mappings:
//	  # map (default kind): one input, one output
//	  - inputs: {field: "src:/name", actions: [Trim, Uppercase]}
//	    outputs: "tgt:/name"
//	  # combine: indexed inputs joined into one output
//	  - kind: combine
//	    delimiter: Comma
//	    inputs:
//	      - {field: "src:/last", index: 0}
//	      - {field: "src:/first", index: 1}
//	    outputs: "tgt:/fullName"
//	  # separate: one input split into indexed outputs
//	  - kind: separate
//	    inputs: "src:/fullName"
//	    outputs:
//	      - {field: "tgt:/first", index: 0}
//	      - {field: "tgt:/last", index: 1}
//	  # lookup: value translated through a lookup table
//	  - kind: lookup
//	    lookupTable: states
//	    inputs: "src:/state"
//	    outputs: "tgt:/stateName"
//	  # collection: templates expanded once per source item
//	  - kind: collection
//	    mappings:
//	      - inputs: "src:/contacts[]/name"
//	        outputs: "tgt:/people<>/fullName"
//
// # Field references
//
// A field is written as "doc:/path" or as a map with explicit keys. When
// the document id is omitted and the file declares exactly one source (for
// inputs) or one target (for outputs), that data source is used. Constants
// and properties are referenced with {constant: name} and
// {property: name}; {value: literal} declares an inline constant.
//
// # Arena
//
// Compile moves every field into Specification.Fields and entries refer to
// them by FieldID. A Specification is never mutated after Compile; the
// engine copies the arena into each session and appends fan-out clones to
// the copy.
package mapping

package mapping

// File is the root of a YAML mapping definition file.
type File struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`

	// DataSources declares every source and target document, in order.
	DataSources []DataSource `yaml:"dataSources"`

	// Mappings is the ordered list of mapping entries.
	Mappings []EntryDef `yaml:"mappings"`

	LookupTables []LookupTable `yaml:"lookupTables,omitempty"`
	Constants    []Constant    `yaml:"constants,omitempty"`
	Properties   []Property    `yaml:"properties,omitempty"`
}

// EntryDef is the YAML form of a mapping entry.
//
//	- kind: combine
//	  delimiter: Comma
//	  inputs:
//	    - {field: "src:/firstName", index: 1}
//	    - {field: "src:/lastName", index: 0}
//	  outputs: "tgt:/fullName"
type EntryDef struct {
	ID   string `yaml:"id,omitempty"`
	Kind Kind   `yaml:"kind,omitempty"`

	Inputs  FieldDefs `yaml:"inputs,omitempty"`
	Outputs FieldDefs `yaml:"outputs,omitempty"`

	Delimiter   string `yaml:"delimiter,omitempty"`
	Strategy    string `yaml:"strategy,omitempty"`
	Template    string `yaml:"template,omitempty"`
	Limit       int    `yaml:"limit,omitempty"`
	LookupTable string `yaml:"lookupTable,omitempty"`

	// Mappings are the templates of a collection entry.
	Mappings []EntryDef `yaml:"mappings,omitempty"`
}

// FieldDef is the YAML form of a field. It accepts either the shorthand
// "doc:/path" or a mapping with explicit keys:
//
//	- "src:/contacts[]/firstName"
//	- {field: "src:/age", type: INTEGER, actions: [Trim]}
//	- {doc: src, path: /age, index: 0}
//	- {constant: currency}
//	- {property: region, scope: env}
//	- {value: 42, type: INTEGER}
type FieldDef struct {
	Ref      string     `yaml:"field,omitempty"`
	Doc      string     `yaml:"doc,omitempty"`
	Path     string     `yaml:"path,omitempty"`
	Type     string     `yaml:"type,omitempty"`
	Format   string     `yaml:"format,omitempty"`
	Index    *int       `yaml:"index,omitempty"`
	Actions  ActionDefs `yaml:"actions,omitempty"`
	Constant string     `yaml:"constant,omitempty"`
	Property string     `yaml:"property,omitempty"`
	Scope    string     `yaml:"scope,omitempty"`
	Value    any        `yaml:"value,omitempty"`
}

// FieldDefs is a list of fields that can be unmarshaled from a single
// field or a sequence of fields.
type FieldDefs []FieldDef

// ActionDefs is an action chain. Items are an action name, a single-key
// map {Name: {param: value}}, or {name: Name, parameters: {...}}.
type ActionDefs []Action

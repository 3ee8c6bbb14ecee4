package mapping

import (
	"fmt"
	"slices"

	"github.com/mohae/deepcopy"

	"fieldmap/internal/convert"
	"fieldmap/internal/path"
)

// Reserved document ids for constant and property fields.
const (
	ConstantsDocID  = "DOC.Constants"
	PropertiesDocID = "DOC.Properties"
)

// Specification is a compiled mapping definition. It is read-only once
// compiled; sessions copy the field arena before mutating values.
type Specification struct {
	Name        string
	Description string
	DataSources []DataSource
	Entries     []Entry
	Lookups     []LookupTable
	Constants   []Constant
	Properties  []Property

	// Fields is the arena referenced by every Entry.
	Fields Fields
}

// DataSource returns the data source declared with id.
func (s *Specification) DataSource(id string) (DataSource, bool) {
	for _, ds := range s.DataSources {
		if ds.ID == id {
			return ds, true
		}
	}

	return DataSource{}, false
}

// LookupTable returns the named lookup table.
func (s *Specification) LookupTable(name string) (*LookupTable, bool) {
	for i := range s.Lookups {
		if s.Lookups[i].Name == name {
			return &s.Lookups[i], true
		}
	}

	return nil, false
}

// Constant returns the named constant.
func (s *Specification) Constant(name string) (Constant, bool) {
	for _, c := range s.Constants {
		if c.Name == name {
			return c, true
		}
	}

	return Constant{}, false
}

// Property returns the named property.
func (s *Specification) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}

	return Property{}, false
}

// Kind is the mapping type of an Entry.
type Kind string

const (
	KindMap        Kind = "map"
	KindCombine    Kind = "combine"
	KindSeparate   Kind = "separate"
	KindLookup     Kind = "lookup"
	KindCollection Kind = "collection"
)

// IsValid returns true if the kind is a recognized value.
func (k Kind) IsValid() bool {
	switch k {
	case KindMap, KindCombine, KindSeparate, KindLookup, KindCollection:
		return true
	default:
		return false
	}
}

// Entry is one mapping rule. Fields are referenced by id into the arena
// that owns the entry (the Specification, or a session copy of it).
type Entry struct {
	ID      string
	Kind    Kind
	Inputs  []FieldID
	Outputs []FieldID

	// Delimiter is a literal or a named delimiter for combine and separate.
	Delimiter string
	// Strategy selects the combine or separate strategy; empty is default.
	Strategy string
	// Template is the placeholder text used by the template strategy.
	Template string
	// Limit caps the number of separated pieces; zero uses the default.
	Limit int
	// LookupTable names the table used by lookup entries.
	LookupTable string

	// Entries are the templates expanded by a collection entry.
	Entries []Entry
}

// FieldKind distinguishes document fields from constants and properties.
type FieldKind string

const (
	FieldSimple   FieldKind = "simple"
	FieldConstant FieldKind = "constant"
	FieldProperty FieldKind = "property"
)

// FieldID addresses a Field in a Fields arena.
type FieldID int

// Field is one addressed, typed value slot.
type Field struct {
	Kind   FieldKind
	DocID  string
	Path   path.Path
	Type   convert.FieldType
	Format string

	// Index is the position of the field within a combine or separate entry.
	Index *int

	Actions []Action

	// Name and Scope identify constant and property fields.
	Name  string
	Scope string

	// Value is the runtime value slot. For inline constants it holds the
	// literal from the mapping file.
	Value any
}

// String renders the field as "doc:/path", or by name for constants and
// properties.
func (f *Field) String() string {
	switch f.Kind {
	case FieldConstant:
		if f.Name != "" {
			return "constant:" + f.Name
		}

		return fmt.Sprintf("constant:%v", f.Value)
	case FieldProperty:
		if f.Scope != "" {
			return "property:" + f.Scope + "." + f.Name
		}

		return "property:" + f.Name
	default:
		return f.DocID + ":" + f.Path.String()
	}
}

// FindAction returns the first action of the chain with the given name.
func (f *Field) FindAction(name string) (Action, bool) {
	for _, a := range f.Actions {
		if a.Name == name {
			return a, true
		}
	}

	return Action{}, false
}

// Fields is a flat arena of fields addressed by FieldID.
type Fields []Field

// Get returns the field addressed by id.
func (fs Fields) Get(id FieldID) *Field {
	return &fs[id]
}

// Add appends f and returns its id.
func (fs *Fields) Add(f Field) FieldID {
	*fs = append(*fs, f)
	return FieldID(len(*fs) - 1)
}

// Copy returns an independent copy of the arena. Field values are deep
// copied so literal maps and lists are never shared between copies.
func (fs Fields) Copy() Fields {
	out := slices.Clone(fs)
	for i := range out {
		out[i].Value = deepcopy.Copy(out[i].Value)
	}

	return out
}

// Clone appends a copy of the field addressed by id and returns the id of
// the copy. Paths are immutable; the action chain, index and value are
// copied so the clone can be edited freely.
func (fs *Fields) Clone(id FieldID) FieldID {
	f := (*fs)[id]

	if f.Index != nil {
		idx := *f.Index
		f.Index = &idx
	}

	f.Actions = append([]Action(nil), f.Actions...)
	f.Value = deepcopy.Copy(f.Value)

	return fs.Add(f)
}

// Action is one named, parameterized step of a field's chain.
type Action struct {
	Name       string         `yaml:"name" json:"name"`
	Parameters map[string]any `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Role tells whether a data source is read or written.
type Role string

const (
	RoleSource Role = "source"
	RoleTarget Role = "target"
)

// IsValid returns true if the role is a recognized value.
func (r Role) IsValid() bool {
	return r == RoleSource || r == RoleTarget
}

// DataSource declares one document taking part in the mapping.
type DataSource struct {
	ID          string `yaml:"id" json:"id"`
	URI         string `yaml:"uri" json:"uri"`
	Role        Role   `yaml:"role,omitempty" json:"role,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// LookupTable is a named ordered list of value pairs.
type LookupTable struct {
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Entries     []LookupEntry `yaml:"entries" json:"entries"`
}

// LookupEntry pairs a source value with the target value it maps to.
type LookupEntry struct {
	SourceValue string            `yaml:"source" json:"source"`
	SourceType  convert.FieldType `yaml:"sourceType,omitempty" json:"sourceType,omitempty"`
	TargetValue string            `yaml:"target" json:"target"`
	TargetType  convert.FieldType `yaml:"targetType,omitempty" json:"targetType,omitempty"`
}

// Find returns the first entry accepted by match.
func (t *LookupTable) Find(match func(LookupEntry) bool) (LookupEntry, bool) {
	for _, e := range t.Entries {
		if match(e) {
			return e, true
		}
	}

	return LookupEntry{}, false
}

// Constant is a named literal.
type Constant struct {
	Name  string            `yaml:"name" json:"name"`
	Value string            `yaml:"value" json:"value"`
	Type  convert.FieldType `yaml:"type,omitempty" json:"type,omitempty"`
}

// Property is a named value that may be overridden per session, by the
// environment or by system values.
type Property struct {
	Name  string            `yaml:"name" json:"name"`
	Value string            `yaml:"value" json:"value"`
	Type  convert.FieldType `yaml:"type,omitempty" json:"type,omitempty"`
	Scope string            `yaml:"scope,omitempty" json:"scope,omitempty"`
}

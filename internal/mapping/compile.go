package mapping

import (
	"strings"

	"fieldmap/internal/convert"
	"fieldmap/internal/path"
)

// Compile turns a parsed File into a Specification, moving every field
// into the arena. It never fails: structural problems are left for the
// Validator to report.
func Compile(file *File) *Specification {
	spec := &Specification{
		Name:        file.Name,
		Description: file.Description,
		DataSources: append([]DataSource(nil), file.DataSources...),
		Lookups:     append([]LookupTable(nil), file.LookupTables...),
		Constants:   append([]Constant(nil), file.Constants...),
		Properties:  append([]Property(nil), file.Properties...),
	}

	c := compiler{
		spec:          spec,
		defaultSource: soleDataSource(file.DataSources, RoleSource),
		defaultTarget: soleDataSource(file.DataSources, RoleTarget),
	}

	spec.Entries = c.entries(file.Mappings)

	return spec
}

type compiler struct {
	spec          *Specification
	defaultSource string
	defaultTarget string
}

func (c *compiler) entries(defs []EntryDef) []Entry {
	if len(defs) == 0 {
		return nil
	}

	out := make([]Entry, 0, len(defs))

	for _, def := range defs {
		entry := Entry{
			ID:          def.ID,
			Kind:        Kind(strings.ToLower(string(def.Kind))),
			Delimiter:   def.Delimiter,
			Strategy:    def.Strategy,
			Template:    def.Template,
			Limit:       def.Limit,
			LookupTable: def.LookupTable,
		}

		for _, fd := range def.Inputs {
			entry.Inputs = append(entry.Inputs, c.spec.Fields.Add(c.field(fd, c.defaultSource)))
		}

		for _, fd := range def.Outputs {
			entry.Outputs = append(entry.Outputs, c.spec.Fields.Add(c.field(fd, c.defaultTarget)))
		}

		entry.Entries = c.entries(def.Mappings)
		out = append(out, entry)
	}

	return out
}

func (c *compiler) field(def FieldDef, defaultDoc string) Field {
	f := Field{
		Kind:    FieldSimple,
		Format:  def.Format,
		Index:   def.Index,
		Actions: append([]Action(nil), def.Actions...),
	}

	if def.Type != "" {
		f.Type = convert.ParseFieldType(def.Type)
	}

	switch {
	case def.Constant != "":
		f.Kind = FieldConstant
		f.DocID = ConstantsDocID
		f.Name = def.Constant
		f.Path = path.Parse(def.Constant)

		if cst, ok := c.spec.Constant(def.Constant); ok && f.Type == "" {
			f.Type = cst.Type
		}

	case def.Property != "":
		f.Kind = FieldProperty
		f.DocID = PropertiesDocID
		f.Name = def.Property
		f.Scope = def.Scope
		f.Path = path.Parse(def.Property)

		if prop, ok := c.spec.Property(def.Property); ok && f.Type == "" {
			f.Type = prop.Type
		}

	case def.Ref == "" && def.Path == "" && def.Value != nil:
		f.Kind = FieldConstant
		f.DocID = ConstantsDocID
		f.Value = def.Value

		if f.Type == "" {
			f.Type = convert.FieldTypeFromValue(def.Value)
		}

	default:
		doc, p := def.DocAndPath()
		if doc == "" {
			doc = defaultDoc
		}

		f.DocID = doc
		f.Path = path.Parse(p)
	}

	return f
}

// soleDataSource returns the id of the only data source with role, or ""
// when there is none or more than one.
func soleDataSource(sources []DataSource, role Role) string {
	id := ""

	for _, ds := range sources {
		if ds.Role != role {
			continue
		}

		if id != "" {
			return ""
		}

		id = ds.ID
	}

	return id
}

package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmap/internal/convert"
)

const contactsYAML = `
name: contacts
dataSources:
  - id: src
    uri: json:source
  - id: tgt
    uri: json:target
    role: target
lookupTables:
  - name: states
    entries:
      - {source: NY, target: New York}
      - {source: CA, target: California, targetType: STRING}
constants:
  - {name: currency, value: EUR, type: STRING}
mappings:
  - inputs: {field: "src:/name", actions: [Trim, Uppercase]}
    outputs: "tgt:/name"
  - id: full-name
    kind: combine
    delimiter: Comma
    inputs:
      - {field: "src:/last", index: 0}
      - {field: "src:/first", index: 1}
    outputs: {path: /fullName, type: STRING}
  - kind: lookup
    lookupTable: states
    inputs: "/state"
    outputs: "tgt:/stateName"
  - inputs: {constant: currency}
    outputs: "tgt:/currency"
  - inputs: {value: 42}
    outputs: "tgt:/answer"
  - mappings:
      - inputs: "src:/contacts[]/name"
        outputs:
          - field: "tgt:/people<>/fullName"
            actions:
              - {SubString: {startIndex: 0, endIndex: 3}}
              - {name: Append, parameters: {string: "!"}}
`

func TestParse(t *testing.T) {
	spec, err := Parse([]byte(contactsYAML))
	require.NoError(t, err)
	require.NotNil(t, spec)

	assert.Equal(t, "contacts", spec.Name)
	require.Len(t, spec.DataSources, 2)
	assert.Equal(t, RoleSource, spec.DataSources[0].Role) // default role
	assert.Equal(t, RoleTarget, spec.DataSources[1].Role)

	require.Len(t, spec.Entries, 6)

	// map with action chain
	m := spec.Entries[0]
	assert.Equal(t, "mapping-1", m.ID)
	assert.Equal(t, KindMap, m.Kind)
	require.Len(t, m.Inputs, 1)

	in := spec.Fields.Get(m.Inputs[0])
	assert.Equal(t, "src", in.DocID)
	assert.Equal(t, "/name", in.Path.String())
	assert.Equal(t, []Action{{Name: "Trim"}, {Name: "Uppercase"}}, in.Actions)

	// combine with indexes, output defaults to the sole target
	c := spec.Entries[1]
	assert.Equal(t, "full-name", c.ID)
	assert.Equal(t, KindCombine, c.Kind)
	assert.Equal(t, "Comma", c.Delimiter)
	require.Len(t, c.Inputs, 2)
	require.NotNil(t, spec.Fields.Get(c.Inputs[1]).Index)
	assert.Equal(t, 1, *spec.Fields.Get(c.Inputs[1]).Index)

	out := spec.Fields.Get(c.Outputs[0])
	assert.Equal(t, "tgt", out.DocID)
	assert.Equal(t, convert.TypeString, out.Type)

	// lookup input defaults to the sole source
	l := spec.Entries[2]
	assert.Equal(t, KindLookup, l.Kind)
	assert.Equal(t, "states", l.LookupTable)
	assert.Equal(t, "src", spec.Fields.Get(l.Inputs[0]).DocID)

	table, ok := spec.LookupTable("states")
	require.True(t, ok)
	entry, ok := table.Find(func(e LookupEntry) bool { return e.SourceValue == "CA" })
	require.True(t, ok)
	assert.Equal(t, "California", entry.TargetValue)

	// named and inline constants
	named := spec.Fields.Get(spec.Entries[3].Inputs[0])
	assert.Equal(t, FieldConstant, named.Kind)
	assert.Equal(t, ConstantsDocID, named.DocID)
	assert.Equal(t, "currency", named.Name)
	assert.Equal(t, convert.TypeString, named.Type)

	inline := spec.Fields.Get(spec.Entries[4].Inputs[0])
	assert.Equal(t, FieldConstant, inline.Kind)
	assert.Equal(t, 42, inline.Value)
	assert.Equal(t, convert.TypeInteger, inline.Type)

	// collection with nested template
	coll := spec.Entries[5]
	assert.Equal(t, KindCollection, coll.Kind)
	require.Len(t, coll.Entries, 1)
	assert.Equal(t, "mapping-6.1", coll.Entries[0].ID)

	tmplOut := spec.Fields.Get(coll.Entries[0].Outputs[0])
	assert.Equal(t, "/people<>/fullName", tmplOut.Path.String())
	require.Len(t, tmplOut.Actions, 2)
	assert.Equal(t, "SubString", tmplOut.Actions[0].Name)
	assert.Equal(t, map[string]any{"startIndex": 0, "endIndex": 3}, tmplOut.Actions[0].Parameters)
	assert.Equal(t, Action{Name: "Append", Parameters: map[string]any{"string": "!"}}, tmplOut.Actions[1])
}

func TestParseMinimal(t *testing.T) {
	spec, err := Parse([]byte(`
dataSources:
  - {id: a, uri: "json:a"}
mappings: []
`))
	require.NoError(t, err)
	assert.Empty(t, spec.Entries)
	assert.Empty(t, spec.Fields)

	file, err := ParseFile([]byte(`mappings: []`))
	require.NoError(t, err)
	assert.Equal(t, "1", file.Version)
}

func TestParseFieldDefs(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected FieldDefs
	}{
		{
			name:     "single string",
			yaml:     `inputs: "src:/a"`,
			expected: FieldDefs{{Ref: "src:/a"}},
		},
		{
			name:     "empty string",
			yaml:     `inputs: ""`,
			expected: FieldDefs{},
		},
		{
			name:     "single map",
			yaml:     `inputs: {doc: src, path: /a, type: LONG}`,
			expected: FieldDefs{{Doc: "src", Path: "/a", Type: "LONG"}},
		},
		{
			name:     "mixed list",
			yaml:     `inputs: ["src:/a", {field: "src:/b", index: 2}]`,
			expected: FieldDefs{{Ref: "src:/a"}, {Ref: "src:/b", Index: intPtr(2)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseFile([]byte("mappings:\n  - " + tt.yaml + "\n"))
			require.NoError(t, err)
			require.Len(t, file.Mappings, 1)
			assert.Equal(t, tt.expected, file.Mappings[0].Inputs)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "mappings: [\n"},
		{"inputs as number list of lists", "mappings:\n  - inputs: [[1]]\n"},
		{"action params not a map", "mappings:\n  - inputs: {field: a, actions: [{Trim: 3}]}\n"},
		{"action multi key map", "mappings:\n  - inputs: {field: a, actions: [{Trim: {}, Uppercase: {}}]}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSplitRef(t *testing.T) {
	tests := []struct {
		ref, doc, path string
	}{
		{"src:/a/b", "src", "/a/b"},
		{"/a/ns:b", "", "/a/ns:b"},
		{"a/ns:b", "", "a/ns:b"},
		{"doc:/ns:a/@b", "doc", "/ns:a/@b"},
	}

	for _, tt := range tests {
		doc, p := splitRef(tt.ref)
		assert.Equal(t, tt.doc, doc, tt.ref)
		assert.Equal(t, tt.path, p, tt.ref)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "mapping.yaml")
	require.NoError(t, os.WriteFile(file, []byte(contactsYAML), 0o644))

	spec, err := LoadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "contacts", spec.Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFieldsClone(t *testing.T) {
	var fields Fields

	id := fields.Add(Field{Kind: FieldSimple, DocID: "src", Index: intPtr(1), Actions: []Action{{Name: "Trim"}}})
	clone := fields.Clone(id)

	assert.NotEqual(t, id, clone)
	*fields.Get(clone).Index = 7
	fields.Get(clone).Actions[0].Name = "Uppercase"

	assert.Equal(t, 1, *fields.Get(id).Index)
	assert.Equal(t, "Trim", fields.Get(id).Actions[0].Name)
}

func TestFieldsCopy(t *testing.T) {
	fields := Fields{
		{Kind: FieldSimple, Value: map[string]any{"kind": "person"}},
		{Kind: FieldSimple, Value: []any{"a"}},
	}

	cp := fields.Copy()
	cp.Get(0).Value.(map[string]any)["name"] = "Ada"
	cp.Get(1).Value.([]any)[0] = "b"
	cp.Add(Field{Kind: FieldSimple})

	assert.Equal(t, map[string]any{"kind": "person"}, fields[0].Value)
	assert.Equal(t, []any{"a"}, fields[1].Value)
	assert.Len(t, fields, 2)

	clone := fields.Clone(0)
	fields.Get(clone).Value.(map[string]any)["name"] = "Bob"
	assert.Equal(t, map[string]any{"kind": "person"}, fields[0].Value)
}

func intPtr(i int) *int {
	return &i
}

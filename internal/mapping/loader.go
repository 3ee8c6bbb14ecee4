package mapping

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadFile loads, parses and compiles a YAML mapping file.
func LoadFile(path string) (*Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data and compiles it into a Specification.
func Parse(data []byte) (*Specification, error) {
	file, err := ParseFile(data)
	if err != nil {
		return nil, err
	}

	return Compile(file), nil
}

// ParseFile parses YAML data into a File with defaults applied.
func ParseFile(data []byte) (*File, error) {
	var file File

	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&file)

	return &file, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(file *File) {
	if file.Version == "" {
		file.Version = "1"
	}

	for i := range file.DataSources {
		ds := &file.DataSources[i]
		if ds.Role == "" {
			ds.Role = RoleSource
		}
	}

	applyEntryDefaults(file.Mappings, "mapping-")
}

func applyEntryDefaults(entries []EntryDef, prefix string) {
	for i := range entries {
		e := &entries[i]

		if e.ID == "" {
			e.ID = prefix + strconv.Itoa(i+1)
		}

		if e.Kind == "" {
			e.Kind = KindMap
			if len(e.Mappings) > 0 {
				e.Kind = KindCollection
			}
		}

		applyEntryDefaults(e.Mappings, e.ID+".")
	}
}

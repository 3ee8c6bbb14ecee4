package mapping

import (
	"fmt"

	"fieldmap/internal/convert"
	"fieldmap/internal/diagnostic"
)

// ModuleClaimer reports whether a registered module serves a data source URI.
type ModuleClaimer interface {
	Claims(uri string) bool
}

// ActionCatalog is the read-only view of the action registry used during
// validation.
type ActionCatalog interface {
	Has(name string) bool
	Names() []string
	OutputType(name string, hint convert.FieldType) (convert.FieldType, bool)
}

// Validator checks a Specification for structural and type-compatibility
// problems. A nil Modules or Actions skips the checks that need them.
type Validator struct {
	Conversion convert.Service
	Modules    ModuleClaimer
	Actions    ActionCatalog
}

// Validate returns the validation findings for spec. It is a pure function
// of the specification.
func (v Validator) Validate(spec *Specification) diagnostic.Diagnostics {
	var res diagnostic.Diagnostics
	if spec == nil {
		res.AddError("mapping_is_nil", "mapping specification is nil", "", "")
		return res
	}

	if v.Conversion == nil {
		v.Conversion = convert.NewDefault()
	}

	v.validateDataSources(&res, spec)
	v.validateLookupTables(&res, spec)

	seen := map[string]struct{}{}
	for i := range spec.Entries {
		v.validateEntry(&res, spec, &spec.Entries[i], seen)
	}

	return res
}

func (v Validator) validateDataSources(res *diagnostic.Diagnostics, spec *Specification) {
	seen := map[string]struct{}{}

	for _, ds := range spec.DataSources {
		if ds.ID == "" {
			res.AddError("missing_data_source_id", "data source must declare an id", "", ds.URI)
			continue
		}

		if _, ok := seen[ds.ID]; ok {
			res.AddError("duplicate_data_source", fmt.Sprintf("duplicate data source %q", ds.ID), ds.ID, "")
			continue
		}

		seen[ds.ID] = struct{}{}

		if !ds.Role.IsValid() {
			res.AddError("invalid_role",
				fmt.Sprintf("data source role %q is not one of source, target", ds.Role), ds.ID, "")
		}

		if v.Modules != nil && !v.Modules.Claims(ds.URI) {
			res.AddError("no_module_for_data_source",
				fmt.Sprintf("no module found for data source %q with uri %q", ds.ID, ds.URI), ds.ID, "")
		}
	}
}

func (v Validator) validateLookupTables(res *diagnostic.Diagnostics, spec *Specification) {
	seen := map[string]struct{}{}

	for _, lt := range spec.Lookups {
		if _, ok := seen[lt.Name]; ok {
			res.AddWarning("duplicate_lookup_table",
				fmt.Sprintf("duplicate lookup table %q, the first one is used", lt.Name), lt.Name, "")
		}

		seen[lt.Name] = struct{}{}

		for _, e := range lt.Entries {
			for _, t := range []convert.FieldType{e.SourceType, e.TargetType} {
				if !t.IsValid() {
					res.AddError("unknown_type", fmt.Sprintf("unknown type %q", t), lt.Name, e.SourceValue)
				}
			}
		}
	}
}

func (v Validator) validateEntry(
	res *diagnostic.Diagnostics,
	spec *Specification,
	entry *Entry,
	seen map[string]struct{},
) {
	if _, ok := seen[entry.ID]; ok {
		res.AddWarning("duplicate_mapping_id", fmt.Sprintf("duplicate mapping id %q", entry.ID), entry.ID, "")
	}

	seen[entry.ID] = struct{}{}

	if !entry.Kind.IsValid() {
		res.AddError("unknown_mapping_kind", fmt.Sprintf("unknown mapping kind %q", entry.Kind), entry.ID, "")
		return
	}

	for _, id := range entry.Inputs {
		v.validateField(res, spec, entry, spec.Fields.Get(id), RoleSource)
	}

	for _, id := range entry.Outputs {
		v.validateField(res, spec, entry, spec.Fields.Get(id), RoleTarget)
	}

	switch entry.Kind {
	case KindMap:
		v.validateTypePairs(res, spec, entry)
	case KindCombine:
		validateCombine(res, spec, entry)
		v.validateTypePairs(res, spec, entry)
	case KindSeparate:
		validateSeparate(res, spec, entry)
		v.validateTypePairs(res, spec, entry)
	case KindLookup:
		validateLookup(res, spec, entry)
	case KindCollection:
		if len(entry.Entries) == 0 {
			res.AddWarning("empty_collection", "collection mapping has no template mappings", entry.ID, "")
		}

		for i := range entry.Entries {
			v.validateEntry(res, spec, &entry.Entries[i], seen)
		}
	}
}

package mapping

import (
	"fmt"

	"fieldmap/internal/convert"
	"fieldmap/internal/diagnostic"
	"fieldmap/internal/match"
)

// validateField checks the references held by a single field.
func (v Validator) validateField(
	res *diagnostic.Diagnostics,
	spec *Specification,
	entry *Entry,
	f *Field,
	role Role,
) {
	where := f.String()

	if !f.Type.IsValid() {
		res.AddError("unknown_type", fmt.Sprintf("unknown field type %q", f.Type), entry.ID, where)
	}

	switch f.Kind {
	case FieldConstant:
		if role == RoleTarget {
			res.AddError("constant_as_output", "constants can only be used as inputs", entry.ID, where)
		}

		if f.Name != "" {
			if _, ok := spec.Constant(f.Name); !ok {
				res.AddError("unknown_constant", fmt.Sprintf("constant %q is not declared", f.Name), entry.ID, where)
			}
		}

	case FieldProperty:
		if role == RoleTarget {
			res.AddError("property_as_output", "properties can only be used as inputs", entry.ID, where)
		}

	default:
		ds, ok := spec.DataSource(f.DocID)
		if !ok {
			res.AddError("unknown_document",
				fmt.Sprintf("field references undeclared data source %q", f.DocID), entry.ID, where)
		} else if ds.Role.IsValid() && ds.Role != role {
			res.AddError("field_role_mismatch",
				fmt.Sprintf("%s field references %s data source %q", role, ds.Role, ds.ID), entry.ID, where)
		}
	}

	if v.Actions == nil {
		return
	}

	for _, a := range f.Actions {
		if v.Actions.Has(a.Name) {
			continue
		}

		res.Add(diagnostic.Diagnostic{
			Status:      diagnostic.StatusError,
			Code:        "unknown_action",
			Message:     fmt.Sprintf("action %q is not registered", a.Name),
			Scope:       entry.ID,
			Path:        where,
			Suggestions: match.Suggest(a.Name, v.Actions.Names()),
		})
	}
}

// validateCombine requires an index on every input and a STRING output.
// An output without a concrete type is accepted; the runtime converts.
func validateCombine(res *diagnostic.Diagnostics, spec *Specification, entry *Entry) {
	for _, id := range entry.Inputs {
		f := spec.Fields.Get(id)
		if f.Index == nil || *f.Index < 0 {
			res.AddError("combine_missing_index",
				"combine input must declare a non-negative index", entry.ID, f.String())
		}
	}

	for _, id := range entry.Outputs {
		f := spec.Fields.Get(id)
		if !f.Type.IsWildcard() && f.Type != convert.TypeString {
			res.AddError("combine_output_not_string",
				fmt.Sprintf("combine output must be STRING, got %s", f.Type), entry.ID, f.String())
		}
	}
}

// validateSeparate requires a STRING input.
func validateSeparate(res *diagnostic.Diagnostics, spec *Specification, entry *Entry) {
	if len(entry.Inputs) > 1 {
		res.AddWarning("separate_multiple_inputs",
			"separate uses only its first input", entry.ID, "")
	}

	for _, id := range entry.Inputs {
		f := spec.Fields.Get(id)
		if !f.Type.IsWildcard() && f.Type != convert.TypeString {
			res.AddError("separate_input_not_string",
				fmt.Sprintf("separate input must be STRING, got %s", f.Type), entry.ID, f.String())
		}
	}
}

// validateLookup requires the referenced table to exist.
func validateLookup(res *diagnostic.Diagnostics, spec *Specification, entry *Entry) {
	if entry.LookupTable == "" {
		res.AddError("missing_lookup_table", "lookup mapping must name a lookup table", entry.ID, "")
		return
	}

	if _, ok := spec.LookupTable(entry.LookupTable); ok {
		return
	}

	names := make([]string, 0, len(spec.Lookups))
	for _, lt := range spec.Lookups {
		names = append(names, lt.Name)
	}

	res.Add(diagnostic.Diagnostic{
		Status:      diagnostic.StatusError,
		Code:        "unknown_lookup_table",
		Message:     fmt.Sprintf("lookup table %q is not declared", entry.LookupTable),
		Scope:       entry.ID,
		Suggestions: match.Suggest(entry.LookupTable, names),
	})
}

// validateTypePairs consults the conversion matrix for every input/output
// pair whose types differ.
func (v Validator) validateTypePairs(res *diagnostic.Diagnostics, spec *Specification, entry *Entry) {
	for _, in := range entry.Inputs {
		src := spec.Fields.Get(in)
		srcType := v.effectiveType(src)

		for _, out := range entry.Outputs {
			dst := spec.Fields.Get(out)
			if srcType.IsWildcard() || dst.Type.IsWildcard() || srcType == dst.Type {
				continue
			}

			if !srcType.IsValid() || !dst.Type.IsValid() {
				continue
			}

			where := src.String() + " -> " + dst.String()

			conv, ok := v.Conversion.FindMatchingConverter(srcType, dst.Type)
			if !ok {
				res.AddWarning("conversion_unavailable",
					fmt.Sprintf("conversion from %s to %s is required but unavailable", srcType, dst.Type),
					entry.ID, where)

				continue
			}

			switch conv.Concern {
			case convert.ConcernNone:
				res.AddInfo("conversion_required",
					fmt.Sprintf("conversion from %s to %s is required", srcType, dst.Type), entry.ID, where)
			case convert.ConcernRange:
				res.AddWarning("conversion_range",
					fmt.Sprintf("conversion from %s to %s may overflow or lose precision", srcType, dst.Type),
					entry.ID, where)
			case convert.ConcernFormat:
				res.AddWarning("conversion_format",
					fmt.Sprintf("conversion from %s to %s depends on the input format", srcType, dst.Type),
					entry.ID, where)
			case convert.ConcernUnsupported:
				res.AddError("conversion_unsupported",
					fmt.Sprintf("conversion from %s to %s is not supported", srcType, dst.Type), entry.ID, where)
			}
		}
	}
}

// effectiveType is the field type after its action chain, when the
// catalog knows the chain's output types.
func (v Validator) effectiveType(f *Field) convert.FieldType {
	t := f.Type
	if v.Actions == nil {
		return t
	}

	for _, a := range f.Actions {
		out, ok := v.Actions.OutputType(a.Name, t)
		if !ok {
			return t
		}

		t = out
	}

	return t
}

package module

import (
	"fmt"

	"fieldmap/internal/convert"
	"fieldmap/internal/mapping"
	"fieldmap/internal/session"
)

// Constants serves the reserved constants document: named constants of the
// specification and inline literals.
type Constants struct {
	Base
}

// NewConstants returns the constants module.
func NewConstants() Module {
	return &Constants{}
}

func (m *Constants) IsSupportedField(f *mapping.Field) bool {
	return f.Kind == mapping.FieldConstant
}

func (m *Constants) ProcessSourceFieldMapping(s *session.Session, _ *session.Head, id mapping.FieldID) error {
	f := s.Field(id)
	if !m.IsSupportedField(f) {
		return fmt.Errorf("%w: %s", ErrUnsupportedField, f)
	}

	// inline literals already sit in the slot
	if f.Name == "" {
		return nil
	}

	if m.cfg.Spec == nil {
		return fmt.Errorf("constant %q: no specification configured", f.Name)
	}

	c, ok := m.cfg.Spec.Constant(f.Name)
	if !ok {
		return fmt.Errorf("constant %q is not declared", f.Name)
	}

	value, err := typed(m.cfg.Conversion, c.Value, c.Type)
	if err != nil {
		return fmt.Errorf("constant %q: %w", f.Name, err)
	}

	f.Value = value

	return nil
}

func (m *Constants) ProcessTargetFieldMapping(s *session.Session, _ *session.Head, id mapping.FieldID) error {
	return fmt.Errorf("%w: %s", ErrReadOnly, s.Field(id))
}

// CollectionSize counts the items of a collection literal; any other value
// is a single item.
func (m *Constants) CollectionSize(s *session.Session, id mapping.FieldID) (int, error) {
	if items, ok := s.Field(id).Value.([]any); ok {
		return len(items), nil
	}

	return 1, nil
}

// typed converts a declared text value to its declared type.
func typed(conversion convert.Service, value string, typ convert.FieldType) (any, error) {
	if typ.IsWildcard() || typ == convert.TypeString {
		return value, nil
	}

	return conversion.ConvertType(value, "", typ, "")
}

package action

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"fieldmap/internal/convert"
)

var (
	ErrNotAFunction = errors.New("provided action is not a function")
	ErrNotAnAction  = errors.New("provided function is not a recognizable action")
	ErrEmptyName    = errors.New("action name is empty")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Parameter describes one named action parameter.
type Parameter struct {
	Name string            `json:"name"`
	Type convert.FieldType `json:"type"`
}

// Detail is the immutable description of one registered action.
type Detail struct {
	Name        string            `json:"name"`
	InputType   convert.FieldType `json:"inputType"`
	OutputType  convert.FieldType `json:"outputType"`
	InputArity  Arity             `json:"inputArity"`
	OutputArity Arity             `json:"outputArity"`
	Parameters  []Parameter       `json:"parameters,omitempty"`

	fn        reflect.Value
	valueType reflect.Type
	paramType reflect.Type
	hasErr    bool
}

// Builder collects actions before they are frozen into a Registry.
type Builder struct {
	details []Detail
	errs    []error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Register inspects fn and adds it under name. Registration errors are
// reported by Build.
//
// Supports signatures:
//   - func(value T) U
//   - func(value T) (U, error)
//   - func(params P, value T) U
//   - func(params P, value T) (U, error)
func (b *Builder) Register(name string, fn any) *Builder {
	d, err := introspect(name, fn)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("action %q: %w", name, err))
		return b
	}

	b.details = append(b.details, d)

	return b
}

// Build freezes the registered actions into a Registry.
func (b *Builder) Build() (*Registry, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}

	r := &Registry{byName: make(map[string][]Detail)}

	for _, d := range b.details {
		if _, ok := r.byName[d.Name]; !ok {
			r.names = append(r.names, d.Name)
		}

		r.byName[d.Name] = append(r.byName[d.Name], d)
	}

	slices.Sort(r.names)

	return r, nil
}

// MustBuild is like Build but panics on registration errors.
func (b *Builder) MustBuild() *Registry {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}

	return r
}

func introspect(name string, fn any) (Detail, error) {
	if strings.TrimSpace(name) == "" {
		return Detail{}, ErrEmptyName
	}

	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return Detail{}, ErrNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.IsVariadic() || fnType.NumIn() == 0 || fnType.NumIn() > 2 {
		return Detail{}, ErrNotAnAction
	}

	d := Detail{Name: name, fn: fnVal}

	switch fnType.NumOut() {
	default:
		return Detail{}, ErrNotAnAction
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return Detail{}, ErrNotAnAction
		}

		d.hasErr = true
	}

	if fnType.NumIn() == 2 {
		params := fnType.In(0)
		if params.Kind() != reflect.Struct {
			return Detail{}, fmt.Errorf("%w: parameters must be a struct, got %s", ErrNotAnAction, params)
		}

		d.paramType = params
		d.Parameters = describeParameters(params)
	}

	d.valueType = fnType.In(fnType.NumIn() - 1)
	d.InputType, d.InputArity = describeType(d.valueType)
	d.OutputType, d.OutputArity = describeType(fnType.Out(0))

	return d, nil
}

// describeType maps a Go type onto a declared type and arity.
func describeType(t reflect.Type) (convert.FieldType, Arity) {
	if t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8 {
		return convert.FromReflectType(t.Elem()), ArityMany
	}

	return convert.FromReflectType(t), ArityOne
}

func describeParameters(t reflect.Type) []Parameter {
	params := make([]Parameter, 0, t.NumField())

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}

		if name == "" {
			name = field.Name
		}

		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		params = append(params, Parameter{Name: name, Type: convert.FromReflectType(ft)})
	}

	return params
}

// Registry is the closed, read-only table of actions.
type Registry struct {
	byName map[string][]Detail
	names  []string
}

// Find resolves an action by name. Among overloads it prefers the one whose
// input type equals hint, then one of the same numeric family, then the
// first registered.
func (r *Registry) Find(name string, hint convert.FieldType) (Detail, bool) {
	overloads := r.byName[name]
	if len(overloads) == 0 {
		return Detail{}, false
	}

	if hint.IsWildcard() || len(overloads) == 1 {
		return overloads[0], true
	}

	for _, d := range overloads {
		if d.InputType == hint {
			return d, true
		}
	}

	for _, d := range overloads {
		if (d.InputType.IsFloat() && hint.IsFloat()) || (d.InputType.IsInteger() && hint.IsInteger()) {
			return d, true
		}
	}

	return overloads[0], true
}

// Has reports whether any action is registered under name.
func (r *Registry) Has(name string) bool {
	return len(r.byName[name]) > 0
}

// Names returns the sorted action names.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Details returns every registered action, sorted by name and then in
// registration order.
func (r *Registry) Details() []Detail {
	var out []Detail
	for _, name := range r.names {
		out = append(out, r.byName[name]...)
	}

	return out
}

// OutputType returns the declared output type of the overload Find would
// pick for hint.
func (r *Registry) OutputType(name string, hint convert.FieldType) (convert.FieldType, bool) {
	d, ok := r.Find(name, hint)
	if !ok {
		return "", false
	}

	return d.OutputType, true
}

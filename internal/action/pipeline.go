package action

import (
	"reflect"

	"fieldmap/internal/convert"
	"fieldmap/internal/mapping"
	"fieldmap/internal/match"
)

// Pipeline applies action chains using a Registry and a conversion service.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	registry   *Registry
	conversion convert.Service
}

// NewPipeline returns a Pipeline over registry. A nil conversion uses
// convert.Default.
func NewPipeline(registry *Registry, conversion convert.Service) *Pipeline {
	if conversion == nil {
		conversion = convert.NewDefault()
	}

	return &Pipeline{registry: registry, conversion: conversion}
}

// Registry returns the action table used by the pipeline.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// Apply runs chain over value in order and returns the final value and its
// declared type. typ is the declared type of value; when it is unset the
// type is inferred from the value.
func (p *Pipeline) Apply(chain []mapping.Action, value any, typ convert.FieldType) (any, convert.FieldType, error) {
	current := typ
	if current.IsWildcard() || current == convert.TypeNone {
		current = p.conversion.FieldTypeFromValue(value)
	}

	for _, a := range chain {
		d, ok := p.registry.Find(a.Name, current)
		if !ok {
			return nil, current, &ResolutionError{
				Name:        a.Name,
				Hint:        current,
				Suggestions: match.Suggest(a.Name, p.registry.Names()),
			}
		}

		out, err := p.invoke(d, a.Parameters, value, current)
		if err != nil {
			return nil, current, &InvocationError{Name: a.Name, Err: err}
		}

		value = out
		current = d.OutputType

		if current.IsWildcard() || current == convert.TypeAnyDate {
			current = p.conversion.FieldTypeFromValue(value)
			if items, ok := value.([]any); ok && len(items) > 0 {
				current = p.conversion.FieldTypeFromValue(items[0])
			}
		}
	}

	return value, current, nil
}

// ApplyTo runs Apply and then converts the result once more to required
// when the chain left it with a different type.
func (p *Pipeline) ApplyTo(
	chain []mapping.Action,
	value any,
	typ convert.FieldType,
	required convert.FieldType,
) (any, convert.FieldType, error) {
	value, current, err := p.Apply(chain, value, typ)
	if err != nil {
		return nil, current, err
	}

	if required.IsWildcard() || required == current {
		return value, current, nil
	}

	value, err = p.Convert(value, required)
	if err != nil {
		return nil, current, err
	}

	return value, required, nil
}

// Convert converts value to typ, item by item for collections.
func (p *Pipeline) Convert(value any, typ convert.FieldType) (any, error) {
	items, ok := value.([]any)
	if !ok || typ == convert.TypeComplex {
		return p.conversion.ConvertType(value, "", typ, "")
	}

	out := make([]any, len(items))

	for i, item := range items {
		v, err := p.conversion.ConvertType(item, "", typ, "")
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

// invoke dispatches on arity: scalar actions are mapped over collections
// and collection actions receive a single value as a one-item collection.
func (p *Pipeline) invoke(d Detail, params map[string]any, value any, current convert.FieldType) (any, error) {
	items, isCollection := asCollection(value)

	switch {
	case d.InputArity == ArityOne && isCollection:
		out := make([]any, len(items))

		for i, item := range items {
			v, err := p.invokeOne(d, params, item, itemType(p.conversion, current, item))
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil

	case d.InputArity == ArityMany:
		if !isCollection {
			items = []any{}
			if value != nil {
				items = []any{value}
			}
		}

		coerced := make([]any, len(items))

		for i, item := range items {
			v, err := p.coerce(d, item, itemType(p.conversion, current, item))
			if err != nil {
				return nil, err
			}

			coerced[i] = v
		}

		return d.Invoke(params, coerced)

	default:
		return p.invokeOne(d, params, value, current)
	}
}

func (p *Pipeline) invokeOne(d Detail, params map[string]any, value any, current convert.FieldType) (any, error) {
	if value == nil && d.InputType != convert.TypeAny {
		return nil, nil
	}

	v, err := p.coerce(d, value, current)
	if err != nil {
		return nil, err
	}

	return d.Invoke(params, v)
}

// coerce converts value to the action's declared input type unless both
// the current type and the runtime type of value are already accepted.
func (p *Pipeline) coerce(d Detail, value any, current convert.FieldType) (any, error) {
	if value == nil || d.InputType.IsWildcard() {
		return value, nil
	}

	if d.InputType.Accepts(current) && d.InputType.Accepts(p.conversion.FieldTypeFromValue(value)) {
		return value, nil
	}

	return p.conversion.ConvertType(value, "", d.InputType, "")
}

func itemType(conversion convert.Service, current convert.FieldType, item any) convert.FieldType {
	if current.IsWildcard() || current == convert.TypeComplex || current == convert.TypeNone {
		return conversion.FieldTypeFromValue(item)
	}

	return current
}

// asCollection reports whether value is a collection and returns its items.
func asCollection(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil, string, []byte:
		return nil, false
	case []any:
		return v, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	items := make([]any, rv.Len())
	for i := range rv.Len() {
		items[i] = rv.Index(i).Interface()
	}

	return items, true
}

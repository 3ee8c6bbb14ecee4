package action

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Invoke runs the action with decoded parameters on value. value must
// already be coercible to the declared input; numeric widths are adapted.
func (d Detail) Invoke(params map[string]any, value any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	args := make([]reflect.Value, 0, 2)

	if d.paramType != nil {
		p, err := d.decodeParameters(params)
		if err != nil {
			return nil, err
		}

		args = append(args, p)
	}

	v, err := adapt(value, d.valueType)
	if err != nil {
		return nil, err
	}

	out := d.fn.Call(append(args, v))

	if d.hasErr && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}

	return normalize(out[0]), nil
}

func (d Detail) decodeParameters(params map[string]any) (reflect.Value, error) {
	target := reflect.New(d.paramType)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target.Interface(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return reflect.Value{}, err
	}

	if err := decoder.Decode(params); err != nil {
		return reflect.Value{}, fmt.Errorf("invalid parameters: %w", err)
	}

	return target.Elem(), nil
}

// adapt turns value into a reflect.Value assignable to t.
func adapt(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}

	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		return v.Convert(t), nil
	}

	if t.Kind() == reflect.Slice && v.Kind() == reflect.Slice {
		out := reflect.MakeSlice(t, v.Len(), v.Len())

		for i := range v.Len() {
			item, err := adapt(v.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("item %d: %w", i, err)
			}

			out.Index(i).Set(item)
		}

		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", value, t)
}

// normalize returns action results as plain values, with every slice
// except []byte turned into []any.
func normalize(v reflect.Value) any {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Slice || v.Type().Elem().Kind() == reflect.Uint8 {
		return v.Interface()
	}

	if items, ok := v.Interface().([]any); ok {
		return items
	}

	out := make([]any, v.Len())
	for i := range v.Len() {
		out[i] = v.Index(i).Interface()
	}

	return out
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

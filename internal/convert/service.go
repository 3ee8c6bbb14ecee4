package convert

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// ErrNoConverter is returned when no converter exists between two types.
var ErrNoConverter = errors.New("no converter")

// Service is the conversion contract used by the runtime.
type Service interface {
	// ConvertType converts value to target. sourceFormat and targetFormat
	// are optional layouts used by date conversions.
	ConvertType(value any, sourceFormat string, target FieldType, targetFormat string) (any, error)
	// FieldTypeFromValue infers the declared type of a runtime value.
	FieldTypeFromValue(value any) FieldType
	// FindMatchingConverter looks up the converter between two declared types.
	FindMatchingConverter(source, target FieldType) (Converter, bool)
}

// ConversionError wraps a failed conversion with its input.
type ConversionError struct {
	Value  any
	Target FieldType
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v (%T) to %s: %v", e.Value, e.Value, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Default layouts used when a date conversion has no explicit format.
const (
	LayoutDate     = "2006-01-02"
	LayoutTime     = "15:04:05"
	LayoutDateTime = time.RFC3339Nano
)

// Default is the built-in conversion service.
type Default struct{}

var _ Service = Default{}

// NewDefault returns the built-in conversion service.
func NewDefault() Default {
	return Default{}
}

// FieldTypeFromValue implements Service.
func (Default) FieldTypeFromValue(value any) FieldType {
	return FieldTypeFromValue(value)
}

// FindMatchingConverter implements Service.
func (Default) FindMatchingConverter(source, target FieldType) (Converter, bool) {
	return FindMatchingConverter(source, target)
}

// ConvertType implements Service.
func (Default) ConvertType(value any, sourceFormat string, target FieldType, targetFormat string) (any, error) {
	if value == nil || target.IsWildcard() {
		return value, nil
	}

	out, err := convertValue(value, sourceFormat, target, targetFormat)
	if err != nil {
		return nil, &ConversionError{Value: value, Target: target, Err: err}
	}

	return out, nil
}

func convertValue(value any, sourceFormat string, target FieldType, targetFormat string) (any, error) {
	switch target {
	case TypeString:
		return toString(value, targetFormat)
	case TypeChar:
		return toChar(value)
	case TypeBoolean:
		return toBool(value)
	case TypeByte:
		n, err := toInteger(value, target)
		return int8(n), err
	case TypeShort:
		n, err := toInteger(value, target)
		return int16(n), err
	case TypeInteger:
		n, err := toInteger(value, target)
		return int(n), err
	case TypeLong:
		if t, ok := value.(time.Time); ok {
			return t.UnixMilli(), nil
		}

		return toInteger(value, target)
	case TypeFloat:
		f, err := toFloat(value)
		if err == nil && math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
			return nil, fmt.Errorf("%v overflows FLOAT", f)
		}

		return float32(f), err
	case TypeDouble, TypeDecimal, TypeNumber:
		return toFloat(value)
	case TypeDate, TypeDateTime, TypeDateTimeTZ, TypeTime, TypeAnyDate:
		return toTime(value, sourceFormat, target)
	case TypeComplex:
		switch value.(type) {
		case map[string]any, []any:
			return value, nil
		}

		return nil, ErrNoConverter
	default:
		return nil, fmt.Errorf("%w: unknown target type %q", ErrNoConverter, target)
	}
}

func toString(value any, layout string) (string, error) {
	switch v := value.(type) {
	case time.Time:
		if layout == "" {
			layout = LayoutDateTime
		}

		return v.Format(layout), nil
	case map[string]any, []any:
		return "", ErrNoConverter
	}

	return cast.ToStringE(value)
}

func toChar(value any) (string, error) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", errors.New("empty string has no character")
		}

		r, _ := utf8.DecodeRuneInString(v)

		return string(r), nil
	case bool, map[string]any, []any:
		return "", ErrNoConverter
	}

	n, err := cast.ToInt32E(value)
	if err != nil {
		return "", err
	}

	return string(rune(n)), nil
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "y", "t", "1":
			return true, nil
		case "false", "no", "off", "n", "f", "0", "":
			return false, nil
		}

		return false, fmt.Errorf("%q is not a boolean", v)
	case bool:
		return v, nil
	}

	n, err := cast.ToFloat64E(value)
	if err != nil {
		return false, err
	}

	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}

	return false, fmt.Errorf("only numbers 0 and 1 are allowed for bool, got: %v", n)
}

func toInteger(value any, target FieldType) (int64, error) {
	var (
		n   int64
		err error
	)

	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)

		n, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return 0, err
			}

			n, err = floatToInt(f)
		}
	case float64:
		n, err = floatToInt(v)
	case float32:
		n, err = floatToInt(float64(v))
	case time.Time:
		n = v.UnixMilli()
	default:
		n, err = cast.ToInt64E(value)
	}

	if err != nil {
		return 0, err
	}

	lo, hi := rangeOf(target)
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d is out of range for %s", n, target)
	}

	return n, nil
}

func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%v is out of range for LONG", f)
	}

	return int64(f), nil
}

func toFloat(value any) (float64, error) {
	if t, ok := value.(time.Time); ok {
		return float64(t.UnixMilli()), nil
	}

	if s, ok := value.(string); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}

	return cast.ToFloat64E(value)
}

func toTime(value any, layout string, target FieldType) (time.Time, error) {
	var (
		t   time.Time
		err error
	)

	switch v := value.(type) {
	case time.Time:
		t = v
	case string:
		if layout != "" {
			t, err = time.Parse(layout, strings.TrimSpace(v))
		} else {
			t, err = parseTime(strings.TrimSpace(v), target)
		}
	case bool, map[string]any, []any:
		return time.Time{}, ErrNoConverter
	default:
		var ms int64

		ms, err = cast.ToInt64E(value)
		t = time.UnixMilli(ms).UTC()
	}

	if err != nil {
		return time.Time{}, err
	}

	if target == TypeDate {
		y, m, d := t.Date()
		t = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}

	return t, nil
}

func parseTime(s string, target FieldType) (time.Time, error) {
	switch target {
	case TypeDate:
		if t, err := time.Parse(LayoutDate, s); err == nil {
			return t, nil
		}
	case TypeTime:
		if t, err := time.Parse(LayoutTime, s); err == nil {
			return t, nil
		}
	}

	return cast.ToTimeE(s)
}

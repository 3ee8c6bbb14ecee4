package convert

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"time"
)

// FieldType is the declared type of a field or of an action input/output.
type FieldType string

const (
	TypeAny         FieldType = "ANY"
	TypeAnyDate     FieldType = "ANY_DATE"
	TypeBoolean     FieldType = "BOOLEAN"
	TypeByte        FieldType = "BYTE"
	TypeChar        FieldType = "CHAR"
	TypeComplex     FieldType = "COMPLEX"
	TypeDate        FieldType = "DATE"
	TypeDateTime    FieldType = "DATE_TIME"
	TypeDateTimeTZ  FieldType = "DATE_TIME_TZ"
	TypeDecimal     FieldType = "DECIMAL"
	TypeDouble      FieldType = "DOUBLE"
	TypeFloat       FieldType = "FLOAT"
	TypeInteger     FieldType = "INTEGER"
	TypeLong        FieldType = "LONG"
	TypeNone        FieldType = "NONE"
	TypeNumber      FieldType = "NUMBER"
	TypeShort       FieldType = "SHORT"
	TypeString      FieldType = "STRING"
	TypeTime        FieldType = "TIME"
	TypeUnsupported FieldType = "UNSUPPORTED"
)

// AllTypes lists every known field type.
var AllTypes = []FieldType{
	TypeAny, TypeAnyDate, TypeBoolean, TypeByte, TypeChar, TypeComplex,
	TypeDate, TypeDateTime, TypeDateTimeTZ, TypeDecimal, TypeDouble,
	TypeFloat, TypeInteger, TypeLong, TypeNone, TypeNumber, TypeShort,
	TypeString, TypeTime, TypeUnsupported,
}

// ParseFieldType normalizes a user supplied type name ("string",
// "date-time", "DATE_TIME") into a FieldType. Unknown names are returned
// upper-cased so the validator can report them.
func ParseFieldType(s string) FieldType {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")

	return FieldType(s)
}

// IsValid returns true if the type is a recognized value or unset.
func (t FieldType) IsValid() bool {
	if t == "" {
		return true
	}

	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}

	return false
}

// IsWildcard returns true for ANY and for an unset type.
func (t FieldType) IsWildcard() bool {
	return t == "" || t == TypeAny
}

func (t FieldType) IsNumber() bool {
	switch t {
	default:
		return false
	case TypeByte, TypeShort, TypeInteger, TypeLong,
		TypeFloat, TypeDouble, TypeDecimal, TypeNumber:
		return true
	}
}

func (t FieldType) IsInteger() bool {
	switch t {
	default:
		return false
	case TypeByte, TypeShort, TypeInteger, TypeLong:
		return true
	}
}

func (t FieldType) IsFloat() bool {
	return t.IsNumber() && !t.IsInteger()
}

// IsDate returns true for the date/time family, ANY_DATE included.
func (t FieldType) IsDate() bool {
	switch t {
	default:
		return false
	case TypeDate, TypeDateTime, TypeDateTimeTZ, TypeTime, TypeAnyDate:
		return true
	}
}

// Bits returns the storage width used for range checks.
func (t FieldType) Bits() int {
	switch t {
	default:
		panic("only numeric types have a meaningful width, but requested for: " + string(t))
	case TypeByte:
		return 8
	case TypeShort:
		return 16
	case TypeInteger, TypeFloat:
		return 32
	case TypeLong, TypeDouble:
		return 64
	case TypeDecimal, TypeNumber:
		return 128
	}
}

// Accepts reports whether a value of type actual may be passed where t is
// declared. ANY accepts everything and ANY_DATE accepts the date family.
func (t FieldType) Accepts(actual FieldType) bool {
	switch {
	case t.IsWildcard():
		return true
	case t == TypeAnyDate:
		return actual.IsDate()
	default:
		return t == actual
	}
}

// FromReflectType maps a Go type onto a FieldType. Slices report their
// element type; use reflect.Kind to detect the collection shape.
func FromReflectType(rtype reflect.Type) FieldType {
	if rtype == nil {
		return TypeAny
	}

	switch rtype {
	case reflect.TypeOf(time.Time{}):
		return TypeAnyDate
	case reflect.TypeOf(json.Number("")):
		return TypeNumber
	}

	switch rtype.Kind() {
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int8:
		return TypeByte
	case reflect.Int16, reflect.Uint8:
		return TypeShort
	case reflect.Int, reflect.Int32, reflect.Uint16:
		return TypeInteger
	case reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return TypeLong
	case reflect.Float32:
		return TypeFloat
	case reflect.Float64:
		return TypeDouble
	case reflect.String:
		return TypeString
	case reflect.Slice, reflect.Array:
		return FromReflectType(rtype.Elem())
	case reflect.Map, reflect.Struct:
		return TypeComplex
	default:
		return TypeAny
	}
}

// FieldTypeFromValue infers the FieldType of a runtime value.
func FieldTypeFromValue(value any) FieldType {
	switch v := value.(type) {
	case nil:
		return TypeNone
	case time.Time:
		return TypeDateTime
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return TypeLong
		}

		return TypeDouble
	case float64:
		return TypeDouble
	case []any, map[string]any:
		return TypeComplex
	}

	rtype := reflect.TypeOf(value)
	if rtype.Kind() == reflect.Slice || rtype.Kind() == reflect.Array {
		return TypeComplex
	}

	return FromReflectType(rtype)
}

// rangeOf returns the inclusive bounds of an integer type.
func rangeOf(t FieldType) (int64, int64) {
	switch t {
	case TypeByte:
		return math.MinInt8, math.MaxInt8
	case TypeShort:
		return math.MinInt16, math.MaxInt16
	case TypeInteger:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

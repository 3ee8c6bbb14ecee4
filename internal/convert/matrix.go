package convert

// Concern annotates a converter with the way it may lose information.
type Concern string

const (
	// ConcernNone is a lossless conversion.
	ConcernNone Concern = "NONE"
	// ConcernRange may overflow or truncate (narrowing numbers, dropping time).
	ConcernRange Concern = "RANGE"
	// ConcernFormat depends on the textual format of the input.
	ConcernFormat Concern = "FORMAT"
	// ConcernUnsupported is declared but cannot be performed.
	ConcernUnsupported Concern = "UNSUPPORTED"
)

// Converter describes one entry of the conversion matrix.
type Converter struct {
	Source  FieldType
	Target  FieldType
	Concern Concern
}

type conversionPair struct {
	From, To FieldType
}

var matrix map[conversionPair]Concern

var (
	integerTypes = []FieldType{TypeByte, TypeShort, TypeInteger, TypeLong}
	numberTypes  = []FieldType{TypeByte, TypeShort, TypeInteger, TypeLong, TypeFloat, TypeDouble, TypeDecimal, TypeNumber}
	dateTypes    = []FieldType{TypeDate, TypeDateTime, TypeDateTimeTZ, TypeTime}
	scalarTypes  = append(append([]FieldType{TypeBoolean, TypeChar, TypeString}, numberTypes...), dateTypes...)
)

func init() {
	matrix = make(map[conversionPair]Concern)

	// numbers: widening is lossless, everything else may overflow or truncate
	for _, from := range numberTypes {
		for _, to := range numberTypes {
			if from == to {
				continue
			}

			concern := ConcernRange
			if safeNumber(from, to) {
				concern = ConcernNone
			}

			matrix[conversionPair{from, to}] = concern
		}
	}

	// text <-> number, text <-> bool, text <-> char
	for _, n := range numberTypes {
		matrix[conversionPair{n, TypeString}] = ConcernNone
		matrix[conversionPair{TypeString, n}] = ConcernFormat
	}

	matrix[conversionPair{TypeBoolean, TypeString}] = ConcernNone
	matrix[conversionPair{TypeString, TypeBoolean}] = ConcernFormat
	matrix[conversionPair{TypeChar, TypeString}] = ConcernNone
	matrix[conversionPair{TypeString, TypeChar}] = ConcernRange

	// 0/1 numeric booleans, char code points
	for _, n := range integerTypes {
		matrix[conversionPair{TypeBoolean, n}] = ConcernNone
		matrix[conversionPair{n, TypeBoolean}] = ConcernRange
		matrix[conversionPair{TypeChar, n}] = ConcernNone
		matrix[conversionPair{n, TypeChar}] = ConcernRange
	}

	// dates: textual forms, unix milliseconds, and within the family
	for _, d := range dateTypes {
		matrix[conversionPair{d, TypeString}] = ConcernNone
		matrix[conversionPair{TypeString, d}] = ConcernFormat
		matrix[conversionPair{d, TypeLong}] = ConcernNone
		matrix[conversionPair{TypeLong, d}] = ConcernNone

		for _, other := range dateTypes {
			if d == other {
				continue
			}

			concern := ConcernRange
			if other == TypeDateTime || other == TypeDateTimeTZ {
				concern = ConcernNone
			}

			matrix[conversionPair{d, other}] = concern
		}
	}

	// complex values never convert to scalars
	for _, s := range scalarTypes {
		matrix[conversionPair{TypeComplex, s}] = ConcernUnsupported
		matrix[conversionPair{s, TypeComplex}] = ConcernUnsupported
	}
}

// safeNumber reports whether every value of from fits in to.
func safeNumber(from, to FieldType) bool {
	switch to {
	case TypeDecimal, TypeNumber:
		return true
	case TypeDouble:
		return (from.IsInteger() && from != TypeLong) || from == TypeFloat
	case TypeFloat:
		return from == TypeByte || from == TypeShort
	}

	if from.IsInteger() && to.IsInteger() {
		return from.Bits() <= to.Bits()
	}

	return false
}

// FindMatchingConverter looks up the converter from source to target.
// Identical types and wildcards always match without concern.
func FindMatchingConverter(source, target FieldType) (Converter, bool) {
	if source == target || source.IsWildcard() || target.IsWildcard() {
		return Converter{Source: source, Target: target, Concern: ConcernNone}, true
	}

	if (target == TypeAnyDate && source.IsDate()) || (source == TypeAnyDate && target.IsDate()) {
		return Converter{Source: source, Target: target, Concern: ConcernNone}, true
	}

	concern, ok := matrix[conversionPair{concrete(source), concrete(target)}]
	if !ok {
		return Converter{}, false
	}

	return Converter{Source: source, Target: target, Concern: concern}, true
}

// concrete stands DATE_TIME in for ANY_DATE when consulting the matrix.
func concrete(t FieldType) FieldType {
	if t == TypeAnyDate {
		return TypeDateTime
	}

	return t
}

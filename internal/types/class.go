package types

// ScalarClass is a coarse classification of a concrete type, used to decide
// operator applicability independent of exact width.
type ScalarClass int

const (
	ClassVoid ScalarClass = iota
	ClassBoolean
	ClassIntegralSigned
	ClassIntegralUnsigned
	ClassIntegralAny
	ClassFractional
	ClassComplex
	ClassUndefined
)

// String returns the user-facing rendering of the scalar class
func (c ScalarClass) String() string {
	switch c {
	case ClassVoid:
		return "(any zero-sized type)"
	case ClassBoolean:
		return "(any bool type)"
	case ClassIntegralSigned:
		return "(any signed integer type)"
	case ClassIntegralUnsigned:
		return "(any unsigned integer type)"
	case ClassIntegralAny:
		return "(any integer type)"
	case ClassFractional:
		return "(any floating point type)"
	case ClassComplex:
		return "(any complex type)"
	case ClassUndefined:
		return "(any non-scalar type)"
	default:
		return "(invalid scalar class)"
	}
}

// IsIntegral reports whether the class is any of the integral classes
func (c ScalarClass) IsIntegral() bool {
	switch c {
	case ClassIntegralSigned, ClassIntegralUnsigned, ClassIntegralAny:
		return true
	default:
		return false
	}
}

// ClassOf classifies a concrete type into its scalar class. Aggregates,
// functions, unions and conflicts are all non-scalar.
func ClassOf(t Type) ScalarClass {
	switch tt := t.(type) {
	case Boolean:
		return ClassBoolean
	case Number:
		switch tt.Kind {
		case U8, U16, U32, U64:
			return ClassIntegralUnsigned
		case I8, I16, I32, I64:
			return ClassIntegralSigned
		case F32, F64:
			return ClassFractional
		}
		return ClassUndefined
	case Tuple:
		if len(tt.Fields) == 0 {
			return ClassVoid
		}
		return ClassUndefined
	default:
		return ClassUndefined
	}
}

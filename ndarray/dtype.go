package ndarray

import (
	"fmt"
)

// DType identifies the element type of an [Array].
type DType uint8

const (
	// Int8 to Int64 are the signed integer element types.
	Int8 DType = iota + 1
	Int16
	Int32
	Int64
	// Float32 and Float64 are the IEEE-754 element types.
	Float32
	Float64
)

// String returns the canonical name of the dtype.
func (dt DType) String() string {
	switch dt {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("DType(%d)", uint8(dt))
	}
}

// IsFloat reports whether the dtype is a floating point type.
func (dt DType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// Bits returns the width of the dtype in bits.
func (dt DType) Bits() int {
	switch dt {
	case Int8:
		return 8
	case Int16:
		return 16
	case Int32:
		return 32
	case Int64, Float64:
		return 64
	case Float32:
		return 32
	default:
		panic(fmt.Errorf("invalid dtype: %s", dt))
	}
}

// Promote returns the smallest dtype that preserves the values of both
// operands: the wider of two integer types, the wider of two float types,
// and Float64 for any integer/float mix (a float32 cannot represent every
// int32 or int64 value).
func Promote(a, b DType) DType {
	if a == b {
		return a
	}
	if a.IsFloat() == b.IsFloat() {
		if a.Bits() >= b.Bits() {
			return a
		}
		return b
	}
	return Float64
}

// PromoteAll folds [Promote] over the given dtypes.
// Calling it without arguments returns Float64.
func PromoteAll(dtypes ...DType) DType {
	if len(dtypes) == 0 {
		return Float64
	}
	common := dtypes[0]
	for _, dt := range dtypes[1:] {
		common = Promote(common, dt)
	}
	return common
}

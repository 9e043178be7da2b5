package ndarray

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShape is the category of all shape related failures: mismatched
// dimensions, invalid axes, incompatible buffers.
var ErrShape = errors.New("shape mismatch")

// ErrDType is the category of element type failures: values that cannot be
// converted to a common numeric type.
var ErrDType = errors.New("invalid dtype")

// ErrBroadcast is a sub-category of [ErrShape] raised when two shapes cannot
// be unified under the broadcasting rule. errors.Is(err, ErrShape) also
// holds for broadcast failures.
var ErrBroadcast = fmt.Errorf("%w: operands could not be broadcast together", ErrShape)

// Shape is the list of dimensions of an [Array]. The empty shape denotes a
// scalar of size one.
type Shape []int

// Size returns the number of elements an array of that shape holds.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s {
		size *= dim
	}
	return size
}

// Equal reports whether both shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	return append(Shape(nil), s...)
}

// Strides returns the row-major strides of the shape.
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

func (s Shape) String() string {
	dims := make([]string, len(s))
	for i, dim := range s {
		dims[i] = fmt.Sprintf("%d", dim)
	}
	return "(" + strings.Join(dims, ", ") + ")"
}

// BroadcastShapes returns the common broadcast shape of the inputs: shapes
// are aligned at the trailing dimension and each dimension pair must be
// equal or contain a one. Returns [ErrBroadcast] if any pair is
// incompatible. With no arguments it returns the scalar shape.
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	ndim := 0
	for _, s := range shapes {
		if len(s) > ndim {
			ndim = len(s)
		}
	}
	common := make(Shape, ndim)
	for i := range common {
		common[i] = 1
	}
	for _, s := range shapes {
		offset := ndim - len(s)
		for i, dim := range s {
			if dim < 0 {
				return nil, fmt.Errorf("%w: negative dimension in %v", ErrShape, s)
			}
			j := offset + i
			switch {
			case common[j] == 1:
				common[j] = dim
			case dim == 1 || dim == common[j]:
			default:
				return nil, fmt.Errorf("%w: %v and %v", ErrBroadcast, s, common)
			}
		}
	}
	return common, nil
}

// broadcastStrides returns the strides mapping positions of the out shape
// back into an array of shape in, with stride zero on broadcast dimensions.
// The shapes are assumed compatible.
func broadcastStrides(in, out Shape) []int {
	strides := make([]int, len(out))
	orig := in.Strides()
	offset := len(out) - len(in)
	for i := range out {
		j := i - offset
		switch {
		case j < 0:
			strides[i] = 0
		case in[j] == 1 && out[i] != 1:
			strides[i] = 0
		default:
			strides[i] = orig[j]
		}
	}
	return strides
}

// flatIndex maps a flat position of the output shape to the flat position
// of a broadcast input, given the output strides and the broadcast-adjusted
// input strides.
func flatIndex(flat int, outStrides, inStrides []int) int {
	idx := 0
	for i := range outStrides {
		coord := flat / outStrides[i]
		flat %= outStrides[i]
		idx += coord * inStrides[i]
	}
	return idx
}

package ndarray

import (
	"fmt"
	"math"
)

// Mask is a boolean array used as the where argument of elementwise
// operations. Positions where the mask is false keep the destination value.
type Mask struct {
	shape Shape
	data  []bool
}

// NewMask returns a mask of the given shape backed by a copy of data.
func NewMask(shape Shape, data []bool) (*Mask, error) {
	if len(data) != shape.Size() {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShape, len(data), shape)
	}
	buf := make([]bool, len(data))
	copy(buf, data)
	return &Mask{shape: shape.Clone(), data: buf}, nil
}

// Shape returns a copy of the mask shape.
func (m *Mask) Shape() Shape { return m.shape.Clone() }

// opcode of an elementwise kernel.
type opcode uint8

const (
	opAdd opcode = iota + 1
	opSub
	opMul
	opNeg
	opCeil
)

func binKernel[T Number](op opcode, x, y T) T {
	switch op {
	case opAdd:
		return x + y
	case opSub:
		return x - y
	case opMul:
		return x * y
	default:
		panic(fmt.Errorf("invalid binary opcode: %d", op))
	}
}

// Add computes the elementwise sum of x1 and x2.
// The inputs are broadcast to a common shape and promoted to a common
// dtype. If out is non-nil the result is written into it (its shape and
// dtype must match the broadcast result) and out is returned; otherwise a
// fresh array is returned. Positions where the mask is false keep the
// destination value.
func Add(x1, x2, out *Array, where *Mask) (*Array, error) {
	return binaryOp(opAdd, x1, x2, out, where)
}

// Sub computes the elementwise difference of x1 and x2.
// See [Add] for the out and where semantics.
func Sub(x1, x2, out *Array, where *Mask) (*Array, error) {
	return binaryOp(opSub, x1, x2, out, where)
}

// Mul computes the elementwise product of x1 and x2.
// See [Add] for the out and where semantics.
func Mul(x1, x2, out *Array, where *Mask) (*Array, error) {
	return binaryOp(opMul, x1, x2, out, where)
}

// Neg returns the elementwise negation of x.
// See [Add] for the out and where semantics.
func Neg(x, out *Array, where *Mask) (*Array, error) {
	return unaryOp(opNeg, x, out, where)
}

// Ceil returns the elementwise ceiling of x. Integer arrays are returned
// unchanged and keep their integer dtype; there is no float promotion, which
// diverges from numpy's ceil returning floats. See [Add] for the out and
// where semantics.
func Ceil(x, out *Array, where *Mask) (*Array, error) {
	return unaryOp(opCeil, x, out, where)
}

func binaryOp(op opcode, x1, x2, out *Array, where *Mask) (*Array, error) {
	shape, err := BroadcastShapes(x1.shape, x2.shape)
	if err != nil {
		return nil, err
	}
	dtype := Promote(x1.dtype, x2.dtype)
	if out, err = prepareOut(out, shape, dtype); err != nil {
		return nil, err
	}
	mask, err := prepareMask(where, shape)
	if err != nil {
		return nil, err
	}

	a := x1.AsType(dtype)
	b := x2.AsType(dtype)
	s1 := broadcastStrides(a.shape, shape)
	s2 := broadcastStrides(b.shape, shape)

	switch dtype {
	case Int8:
		binaryApply[int8](op, a, b, out, mask, s1, s2)
	case Int16:
		binaryApply[int16](op, a, b, out, mask, s1, s2)
	case Int32:
		binaryApply[int32](op, a, b, out, mask, s1, s2)
	case Int64:
		binaryApply[int64](op, a, b, out, mask, s1, s2)
	case Float32:
		binaryApply[float32](op, a, b, out, mask, s1, s2)
	case Float64:
		binaryApply[float64](op, a, b, out, mask, s1, s2)
	}
	return out, nil
}

func unaryOp(op opcode, x, out *Array, where *Mask) (*Array, error) {
	shape := x.Shape()
	var err error
	if out, err = prepareOut(out, shape, x.dtype); err != nil {
		return nil, err
	}
	mask, err := prepareMask(where, shape)
	if err != nil {
		return nil, err
	}
	strides := x.shape.Strides()
	switch x.dtype {
	case Int8:
		unaryApply[int8](op, x, out, mask, strides)
	case Int16:
		unaryApply[int16](op, x, out, mask, strides)
	case Int32:
		unaryApply[int32](op, x, out, mask, strides)
	case Int64:
		unaryApply[int64](op, x, out, mask, strides)
	case Float32:
		unaryApply[float32](op, x, out, mask, strides)
	case Float64:
		unaryApply[float64](op, x, out, mask, strides)
	}
	return out, nil
}

func prepareOut(out *Array, shape Shape, dtype DType) (*Array, error) {
	if out == nil {
		return Zeros(shape, dtype), nil
	}
	if !out.shape.Equal(shape) {
		return nil, fmt.Errorf("%w: output shape %v, expected %v", ErrShape, out.shape, shape)
	}
	if out.dtype != dtype {
		return nil, fmt.Errorf("%w: output dtype %s, expected %s", ErrDType, out.dtype, dtype)
	}
	return out, nil
}

// prepareMask returns the broadcast strides of the mask against shape, or
// nil when no mask is given.
func prepareMask(where *Mask, shape Shape) (*maskView, error) {
	if where == nil {
		return nil, nil
	}
	common, err := BroadcastShapes(where.shape, shape)
	if err != nil || !common.Equal(shape) {
		return nil, fmt.Errorf("%w: where mask %v against %v", ErrBroadcast, where.shape, shape)
	}
	return &maskView{data: where.data, strides: broadcastStrides(where.shape, shape)}, nil
}

type maskView struct {
	data    []bool
	strides []int
}

func (m *maskView) at(flat int, outStrides []int) bool {
	if m == nil {
		return true
	}
	return m.data[flatIndex(flat, outStrides, m.strides)]
}

func binaryApply[T Number](op opcode, x1, x2, out *Array, mask *maskView, s1, s2 []int) {
	a := x1.data.([]T)
	b := x2.data.([]T)
	dst := out.data.([]T)
	outStrides := out.shape.Strides()
	for i := range dst {
		if !mask.at(i, outStrides) {
			continue
		}
		dst[i] = binKernel(op, a[flatIndex(i, outStrides, s1)], b[flatIndex(i, outStrides, s2)])
	}
}

func unaryApply[T Number](op opcode, x, out *Array, mask *maskView, strides []int) {
	src := x.data.([]T)
	dst := out.data.([]T)
	outStrides := out.shape.Strides()
	isFloat := x.dtype.IsFloat()
	for i := range dst {
		if !mask.at(i, outStrides) {
			continue
		}
		v := src[flatIndex(i, outStrides, strides)]
		switch op {
		case opNeg:
			dst[i] = -v
		case opCeil:
			if isFloat {
				dst[i] = T(math.Ceil(float64(v)))
			} else {
				dst[i] = v
			}
		default:
			panic(fmt.Errorf("invalid unary opcode: %d", op))
		}
	}
}

// Package ndarray implements dense numeric arrays with numpy-style
// broadcasting, value-preserving dtype promotion and elementwise kernels.
// It is the numeric substrate of the ndpoly polynomial arrays: every
// polynomial coefficient is an [Array].
package ndarray

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the set of Go types an [Array] can hold.
type Number interface {
	constraints.Integer | constraints.Float
}

// Array is a dense numeric array with a dtype tag and a row-major buffer.
// Arrays are immutable by convention: every operation allocates a fresh
// output unless the caller explicitly supplies one.
type Array struct {
	dtype DType
	shape Shape
	data  any // one of []int8, []int16, []int32, []int64, []float32, []float64
}

// dtypeOf returns the DType tag of the Go type T.
func dtypeOf[T Number]() DType {
	var z T
	switch any(z).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic(fmt.Errorf("unsupported element type %T", z))
	}
}

// New returns an array of the given shape backed by a copy of data.
// The dtype is inferred from T. Fails with [ErrShape] if the buffer length
// does not match the shape size.
func New[T Number](shape Shape, data []T) (*Array, error) {
	if len(data) != shape.Size() {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShape, len(data), shape)
	}
	buf := make([]T, len(data))
	copy(buf, data)
	return &Array{dtype: dtypeOf[T](), shape: shape.Clone(), data: buf}, nil
}

// Scalar returns a zero-dimensional array holding v.
// v must be a Go integer or float; untyped int literals carry Int64,
// untyped float literals Float64.
func Scalar(v any) (*Array, error) {
	switch v := v.(type) {
	case int:
		return New(Shape{}, []int64{int64(v)})
	case int8:
		return New(Shape{}, []int8{v})
	case int16:
		return New(Shape{}, []int16{v})
	case int32:
		return New(Shape{}, []int32{v})
	case int64:
		return New(Shape{}, []int64{v})
	case float32:
		return New(Shape{}, []float32{v})
	case float64:
		return New(Shape{}, []float64{v})
	default:
		return nil, fmt.Errorf("%w: cannot convert %T to a numeric array", ErrDType, v)
	}
}

// Zeros returns an all-zero array of the given shape and dtype.
func Zeros(shape Shape, dtype DType) *Array {
	return &Array{dtype: dtype, shape: shape.Clone(), data: alloc(dtype, shape.Size())}
}

// Ones returns an all-one array of the given shape and dtype.
func Ones(shape Shape, dtype DType) *Array {
	return Full(shape, dtype, 1)
}

// Full returns an array of the given shape and dtype with every element set
// to v. v is truncated to the dtype the way a Go conversion would.
func Full(shape Shape, dtype DType, v float64) *Array {
	a := Zeros(shape, dtype)
	switch buf := a.data.(type) {
	case []int8:
		fill(buf, int8(v))
	case []int16:
		fill(buf, int16(v))
	case []int32:
		fill(buf, int32(v))
	case []int64:
		fill(buf, int64(v))
	case []float32:
		fill(buf, float32(v))
	case []float64:
		fill(buf, v)
	}
	return a
}

func alloc(dtype DType, size int) any {
	switch dtype {
	case Int8:
		return make([]int8, size)
	case Int16:
		return make([]int16, size)
	case Int32:
		return make([]int32, size)
	case Int64:
		return make([]int64, size)
	case Float32:
		return make([]float32, size)
	case Float64:
		return make([]float64, size)
	default:
		panic(fmt.Errorf("invalid dtype: %s", dtype))
	}
}

func fill[T Number](buf []T, v T) {
	for i := range buf {
		buf[i] = v
	}
}

// DType returns the element type of the array.
func (a *Array) DType() DType { return a.dtype }

// Shape returns a copy of the array shape.
func (a *Array) Shape() Shape { return a.shape.Clone() }

// Size returns the number of elements.
func (a *Array) Size() int { return a.shape.Size() }

// NDim returns the number of dimensions.
func (a *Array) NDim() int { return len(a.shape) }

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	out := Zeros(a.shape, a.dtype)
	copyBuf(out.data, a.data)
	return out
}

func copyBuf(dst, src any) {
	switch src := src.(type) {
	case []int8:
		copy(dst.([]int8), src)
	case []int16:
		copy(dst.([]int16), src)
	case []int32:
		copy(dst.([]int32), src)
	case []int64:
		copy(dst.([]int64), src)
	case []float32:
		copy(dst.([]float32), src)
	case []float64:
		copy(dst.([]float64), src)
	}
}

// Equal reports whether both arrays have identical dtype, shape and
// elements.
func (a *Array) Equal(other *Array) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.dtype != other.dtype || !a.shape.Equal(other.shape) {
		return false
	}
	for i, n := 0, a.Size(); i < n; i++ {
		if a.Float64(i) != other.Float64(i) {
			return false
		}
	}
	return true
}

// convertTo returns the elements of a as a freshly allocated []T.
func convertTo[T Number](a *Array) []T {
	out := make([]T, a.Size())
	switch src := a.data.(type) {
	case []int8:
		for i, v := range src {
			out[i] = T(v)
		}
	case []int16:
		for i, v := range src {
			out[i] = T(v)
		}
	case []int32:
		for i, v := range src {
			out[i] = T(v)
		}
	case []int64:
		for i, v := range src {
			out[i] = T(v)
		}
	case []float32:
		for i, v := range src {
			out[i] = T(v)
		}
	case []float64:
		for i, v := range src {
			out[i] = T(v)
		}
	}
	return out
}

// AsType returns a copy of the array with elements converted to dtype.
func (a *Array) AsType(dtype DType) *Array {
	out := &Array{dtype: dtype, shape: a.shape.Clone()}
	switch dtype {
	case Int8:
		out.data = convertTo[int8](a)
	case Int16:
		out.data = convertTo[int16](a)
	case Int32:
		out.data = convertTo[int32](a)
	case Int64:
		out.data = convertTo[int64](a)
	case Float32:
		out.data = convertTo[float32](a)
	case Float64:
		out.data = convertTo[float64](a)
	default:
		panic(fmt.Errorf("invalid dtype: %s", dtype))
	}
	return out
}

// Float64 returns the element at flat index i converted to float64.
// Panics if i is out of range.
func (a *Array) Float64(i int) float64 {
	switch buf := a.data.(type) {
	case []int8:
		return float64(buf[i])
	case []int16:
		return float64(buf[i])
	case []int32:
		return float64(buf[i])
	case []int64:
		return float64(buf[i])
	case []float32:
		return float64(buf[i])
	case []float64:
		return buf[i]
	default:
		panic(fmt.Errorf("invalid dtype: %s", a.dtype))
	}
}

// Int64 returns the element at flat index i converted to int64.
// Panics if i is out of range.
func (a *Array) Int64(i int) int64 {
	switch buf := a.data.(type) {
	case []int8:
		return int64(buf[i])
	case []int16:
		return int64(buf[i])
	case []int32:
		return int64(buf[i])
	case []int64:
		return buf[i]
	case []float32:
		return int64(buf[i])
	case []float64:
		return int64(buf[i])
	default:
		panic(fmt.Errorf("invalid dtype: %s", a.dtype))
	}
}

// Float64s returns all elements converted to float64, in row-major order.
func (a *Array) Float64s() []float64 {
	return convertTo[float64](a)
}

// IsZero reports whether every element of the array is zero.
func (a *Array) IsZero() bool {
	for i, n := 0, a.Size(); i < n; i++ {
		if a.Float64(i) != 0 {
			return false
		}
	}
	return true
}

// Reshape returns a copy of the array with the given shape.
// Fails with [ErrShape] if the sizes differ.
func (a *Array) Reshape(shape Shape) (*Array, error) {
	if shape.Size() != a.Size() {
		return nil, fmt.Errorf("%w: cannot reshape %v into %v", ErrShape, a.shape, shape)
	}
	out := a.Clone()
	out.shape = shape.Clone()
	return out, nil
}

// BroadcastTo materializes the array at the given shape, repeating elements
// along broadcast dimensions. Fails with [ErrBroadcast] if the array shape
// is not compatible with the target.
func (a *Array) BroadcastTo(shape Shape) (*Array, error) {
	common, err := BroadcastShapes(a.shape, shape)
	if err != nil {
		return nil, err
	}
	if !common.Equal(shape) {
		return nil, fmt.Errorf("%w: %v into %v", ErrBroadcast, a.shape, shape)
	}
	if a.shape.Equal(shape) {
		return a.Clone(), nil
	}
	out := Zeros(shape, a.dtype)
	gather(out, a, broadcastStrides(a.shape, shape))
	return out, nil
}

// gather copies src into dst position by position, mapping each dst
// position through the given broadcast strides.
func gather(dst, src *Array, srcStrides []int) {
	outStrides := dst.shape.Strides()
	switch buf := dst.data.(type) {
	case []int8:
		gatherBuf(buf, src.data.([]int8), outStrides, srcStrides)
	case []int16:
		gatherBuf(buf, src.data.([]int16), outStrides, srcStrides)
	case []int32:
		gatherBuf(buf, src.data.([]int32), outStrides, srcStrides)
	case []int64:
		gatherBuf(buf, src.data.([]int64), outStrides, srcStrides)
	case []float32:
		gatherBuf(buf, src.data.([]float32), outStrides, srcStrides)
	case []float64:
		gatherBuf(buf, src.data.([]float64), outStrides, srcStrides)
	}
}

func gatherBuf[T Number](dst, src []T, outStrides, srcStrides []int) {
	for i := range dst {
		dst[i] = src[flatIndex(i, outStrides, srcStrides)]
	}
}

func (a *Array) String() string {
	if a.NDim() == 0 {
		return formatElem(a, 0)
	}
	return formatSlice(a, 0, 0)
}

func formatElem(a *Array, i int) string {
	if a.dtype.IsFloat() {
		v := a.Float64(i)
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return fmt.Sprintf("%.1f", v)
		}
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("%d", a.Int64(i))
}

func formatSlice(a *Array, dim, offset int) string {
	strides := a.shape.Strides()
	if dim == len(a.shape)-1 {
		s := "["
		for i := 0; i < a.shape[dim]; i++ {
			if i > 0 {
				s += " "
			}
			s += formatElem(a, offset+i)
		}
		return s + "]"
	}
	s := "["
	for i := 0; i < a.shape[dim]; i++ {
		if i > 0 {
			s += " "
		}
		s += formatSlice(a, dim+1, offset+i*strides[dim])
	}
	return s + "]"
}

package ndarray

import (
	"fmt"
)

// Concatenate joins the arrays along the given axis. All arrays must share
// the same dtype and the same shape on every other axis.
func Concatenate(arrays []*Array, axis int) (*Array, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("%w: need at least one array to concatenate", ErrShape)
	}
	first := arrays[0]
	if axis < 0 {
		axis += first.NDim()
	}
	if axis < 0 || axis >= first.NDim() {
		return nil, fmt.Errorf("%w: axis %d out of bounds for %v", ErrShape, axis, first.shape)
	}

	outShape := first.Shape()
	for _, a := range arrays[1:] {
		if a.dtype != first.dtype {
			return nil, fmt.Errorf("%w: %s and %s", ErrDType, first.dtype, a.dtype)
		}
		if a.NDim() != first.NDim() {
			return nil, fmt.Errorf("%w: %v and %v", ErrShape, first.shape, a.shape)
		}
		for d := range a.shape {
			if d != axis && a.shape[d] != first.shape[d] {
				return nil, fmt.Errorf("%w: %v and %v along axis %d", ErrShape, first.shape, a.shape, axis)
			}
		}
		outShape[axis] += a.shape[axis]
	}

	out := Zeros(outShape, first.dtype)

	// Row-major layout: each array contributes contiguous inner blocks of
	// size shape[axis]*inner, repeated once per outer position.
	inner := 1
	for d := axis + 1; d < len(outShape); d++ {
		inner *= outShape[d]
	}
	outer := 1
	for d := 0; d < axis; d++ {
		outer *= outShape[d]
	}
	outBlock := outShape[axis] * inner

	offset := 0
	for _, a := range arrays {
		block := a.shape[axis] * inner
		for o := 0; o < outer; o++ {
			copyRange(out.data, a.data, o*outBlock+offset, o*block, block)
		}
		offset += block
	}
	return out, nil
}

func copyRange(dst, src any, dstOff, srcOff, n int) {
	switch src := src.(type) {
	case []int8:
		copy(dst.([]int8)[dstOff:dstOff+n], src[srcOff:srcOff+n])
	case []int16:
		copy(dst.([]int16)[dstOff:dstOff+n], src[srcOff:srcOff+n])
	case []int32:
		copy(dst.([]int32)[dstOff:dstOff+n], src[srcOff:srcOff+n])
	case []int64:
		copy(dst.([]int64)[dstOff:dstOff+n], src[srcOff:srcOff+n])
	case []float32:
		copy(dst.([]float32)[dstOff:dstOff+n], src[srcOff:srcOff+n])
	case []float64:
		copy(dst.([]float64)[dstOff:dstOff+n], src[srcOff:srcOff+n])
	}
}

// AtLeast2D returns the array reshaped to at least two dimensions: scalars
// become (1, 1), vectors of length N become (1, N).
func AtLeast2D(a *Array) *Array {
	switch a.NDim() {
	case 0:
		out, _ := a.Reshape(Shape{1, 1})
		return out
	case 1:
		out, _ := a.Reshape(Shape{1, a.shape[0]})
		return out
	default:
		return a.Clone()
	}
}

// Vstack stacks the arrays vertically: inputs are promoted to at least two
// dimensions and concatenated along the first axis. All arrays must share
// the same dtype.
func Vstack(arrays []*Array) (*Array, error) {
	promoted := make([]*Array, len(arrays))
	for i, a := range arrays {
		promoted[i] = AtLeast2D(a)
	}
	return Concatenate(promoted, 0)
}

// Tile repeats the array reps[d] times along each dimension d. If reps is
// longer than the array shape, leading dimensions of size one are added;
// if shorter, reps is padded with leading ones.
func Tile(a *Array, reps []int) (*Array, error) {
	for _, r := range reps {
		if r <= 0 {
			return nil, fmt.Errorf("%w: non-positive repetition in %v", ErrShape, reps)
		}
	}
	ndim := max(len(reps), a.NDim())

	inShape := make(Shape, ndim)
	for i := range inShape {
		inShape[i] = 1
	}
	copy(inShape[ndim-a.NDim():], a.shape)

	fullReps := make([]int, ndim)
	for i := range fullReps {
		fullReps[i] = 1
	}
	copy(fullReps[ndim-len(reps):], reps)

	outShape := make(Shape, ndim)
	for i := range outShape {
		outShape[i] = inShape[i] * fullReps[i]
	}

	src, err := a.Reshape(inShape)
	if err != nil {
		return nil, err
	}
	out := Zeros(outShape, a.dtype)
	tileGather(out, src)
	return out, nil
}

// tileGather fills dst by wrapping every dst coordinate modulo the source
// dimension.
func tileGather(dst, src *Array) {
	outStrides := dst.shape.Strides()
	srcStrides := src.shape.Strides()
	n := dst.Size()
	for i := 0; i < n; i++ {
		flat := i
		j := 0
		for d := range outStrides {
			coord := flat / outStrides[d]
			flat %= outStrides[d]
			j += (coord % src.shape[d]) * srcStrides[d]
		}
		copyRange(dst.data, src.data, i, j, 1)
	}
}

// Split divides the array into n equal sections along the given axis.
// Fails with [ErrShape] if the axis length is not divisible by n.
func Split(a *Array, n, axis int) ([]*Array, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: number of sections must be positive, got %d", ErrShape, n)
	}
	if axis < 0 {
		axis += a.NDim()
	}
	if axis < 0 || axis >= a.NDim() {
		return nil, fmt.Errorf("%w: axis %d out of bounds for %v", ErrShape, axis, a.shape)
	}
	if a.shape[axis]%n != 0 {
		return nil, fmt.Errorf("%w: axis of length %d does not divide into %d equal sections", ErrShape, a.shape[axis], n)
	}

	secShape := a.Shape()
	secShape[axis] /= n

	inner := 1
	for d := axis + 1; d < len(a.shape); d++ {
		inner *= a.shape[d]
	}
	outer := 1
	for d := 0; d < axis; d++ {
		outer *= a.shape[d]
	}
	inBlock := a.shape[axis] * inner
	secBlock := secShape[axis] * inner

	sections := make([]*Array, n)
	for s := range sections {
		sec := Zeros(secShape, a.dtype)
		for o := 0; o < outer; o++ {
			copyRange(sec.data, a.data, o*secBlock, o*inBlock+s*secBlock, secBlock)
		}
		sections[s] = sec
	}
	return sections, nil
}

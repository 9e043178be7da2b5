package ndarray

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElementwise(t *testing.T) {
	t.Run("AddBroadcastScalar", func(t *testing.T) {
		a, err := New(Shape{2, 2}, []int64{1, 2, 3, 4})
		require.NoError(t, err)
		b, err := Scalar(10)
		require.NoError(t, err)

		sum, err := Add(a, b, nil, nil)
		require.NoError(t, err)
		require.Equal(t, Int64, sum.DType())
		require.Equal(t, []float64{11, 12, 13, 14}, sum.Float64s())
	})

	t.Run("AddPromotes", func(t *testing.T) {
		a, err := New(Shape{2}, []int32{1, 2})
		require.NoError(t, err)
		b, err := Scalar(0.5)
		require.NoError(t, err)

		sum, err := Add(a, b, nil, nil)
		require.NoError(t, err)
		require.Equal(t, Float64, sum.DType())
		require.Equal(t, []float64{1.5, 2.5}, sum.Float64s())
	})

	t.Run("SubMul", func(t *testing.T) {
		a, err := New(Shape{3}, []int64{5, 6, 7})
		require.NoError(t, err)
		b, err := New(Shape{3}, []int64{1, 2, 3})
		require.NoError(t, err)

		diff, err := Sub(a, b, nil, nil)
		require.NoError(t, err)
		require.Equal(t, []float64{4, 4, 4}, diff.Float64s())

		prod, err := Mul(a, b, nil, nil)
		require.NoError(t, err)
		require.Equal(t, []float64{5, 12, 21}, prod.Float64s())
	})

	t.Run("OutAndWhere", func(t *testing.T) {
		a, err := New(Shape{2, 2}, []int64{1, 2, 3, 4})
		require.NoError(t, err)
		b, err := Scalar(10)
		require.NoError(t, err)
		mask, err := NewMask(Shape{2, 2}, []bool{true, false, false, true})
		require.NoError(t, err)

		out := Zeros(Shape{2, 2}, Int64)
		res, err := Add(a, b, out, mask)
		require.NoError(t, err)
		require.Same(t, out, res)
		require.Equal(t, []float64{11, 0, 0, 14}, out.Float64s())
	})

	t.Run("OutMismatch", func(t *testing.T) {
		a, err := New(Shape{2}, []int64{1, 2})
		require.NoError(t, err)

		_, err = Add(a, a, Zeros(Shape{3}, Int64), nil)
		require.ErrorIs(t, err, ErrShape)

		_, err = Add(a, a, Zeros(Shape{2}, Float32), nil)
		require.ErrorIs(t, err, ErrDType)
	})

	t.Run("Neg", func(t *testing.T) {
		a, err := New(Shape{2}, []int64{1, -2})
		require.NoError(t, err)
		neg, err := Neg(a, nil, nil)
		require.NoError(t, err)
		require.Equal(t, []float64{-1, 2}, neg.Float64s())
	})

	t.Run("Ceil", func(t *testing.T) {
		a, err := New(Shape{2}, []float64{1.2, -1.2})
		require.NoError(t, err)
		c, err := Ceil(a, nil, nil)
		require.NoError(t, err)
		require.Equal(t, []float64{2, -1}, c.Float64s())

		// Integer arrays are their own ceiling and keep their dtype.
		b, err := New(Shape{2}, []int64{1, -2})
		require.NoError(t, err)
		c, err = Ceil(b, nil, nil)
		require.NoError(t, err)
		require.Equal(t, Int64, c.DType())
		require.Equal(t, []float64{1, -2}, c.Float64s())
	})
}

func TestManip(t *testing.T) {
	t.Run("ConcatenateAxis0", func(t *testing.T) {
		a, err := New(Shape{2, 2}, []int64{1, 2, 3, 4})
		require.NoError(t, err)
		b, err := New(Shape{1, 2}, []int64{5, 6})
		require.NoError(t, err)

		cat, err := Concatenate([]*Array{a, b}, 0)
		require.NoError(t, err)
		require.True(t, cat.Shape().Equal(Shape{3, 2}))
		require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, cat.Float64s())
	})

	t.Run("ConcatenateAxis1", func(t *testing.T) {
		a, err := New(Shape{2, 2}, []int64{1, 2, 3, 4})
		require.NoError(t, err)
		b, err := New(Shape{2, 1}, []int64{5, 6})
		require.NoError(t, err)

		cat, err := Concatenate([]*Array{a, b}, 1)
		require.NoError(t, err)
		require.True(t, cat.Shape().Equal(Shape{2, 3}))
		require.Equal(t, []float64{1, 2, 5, 3, 4, 6}, cat.Float64s())
	})

	t.Run("ConcatenateDTypeMismatch", func(t *testing.T) {
		a, err := New(Shape{2}, []int64{1, 2})
		require.NoError(t, err)
		b, err := New(Shape{2}, []float64{1, 2})
		require.NoError(t, err)
		_, err = Concatenate([]*Array{a, b}, 0)
		require.ErrorIs(t, err, ErrDType)
	})

	t.Run("Vstack", func(t *testing.T) {
		a, err := New(Shape{3}, []int64{1, 2, 3})
		require.NoError(t, err)
		b, err := New(Shape{3}, []int64{4, 5, 6})
		require.NoError(t, err)

		stacked, err := Vstack([]*Array{a, b})
		require.NoError(t, err)
		require.True(t, stacked.Shape().Equal(Shape{2, 3}))
		require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, stacked.Float64s())
	})

	t.Run("Tile", func(t *testing.T) {
		a, err := New(Shape{2}, []int64{1, 2})
		require.NoError(t, err)

		tiled, err := Tile(a, []int{2})
		require.NoError(t, err)
		require.Equal(t, []float64{1, 2, 1, 2}, tiled.Float64s())

		tiled, err = Tile(a, []int{2, 2})
		require.NoError(t, err)
		require.True(t, tiled.Shape().Equal(Shape{2, 4}))
		require.Equal(t, []float64{1, 2, 1, 2, 1, 2, 1, 2}, tiled.Float64s())
	})

	t.Run("Split", func(t *testing.T) {
		a, err := New(Shape{4, 2}, []int64{1, 2, 3, 4, 5, 6, 7, 8})
		require.NoError(t, err)

		parts, err := Split(a, 2, 0)
		require.NoError(t, err)
		require.Len(t, parts, 2)
		require.Equal(t, []float64{1, 2, 3, 4}, parts[0].Float64s())
		require.Equal(t, []float64{5, 6, 7, 8}, parts[1].Float64s())

		_, err = Split(a, 3, 0)
		require.ErrorIs(t, err, ErrShape)
	})

	t.Run("SplitAxis1", func(t *testing.T) {
		a, err := New(Shape{2, 4}, []int64{1, 2, 3, 4, 5, 6, 7, 8})
		require.NoError(t, err)

		parts, err := Split(a, 2, 1)
		require.NoError(t, err)
		require.Equal(t, []float64{1, 2, 5, 6}, parts[0].Float64s())
		require.Equal(t, []float64{3, 4, 7, 8}, parts[1].Float64s())
	})
}

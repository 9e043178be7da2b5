package ndpoly

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndpoly/ndpoly/ndarray"
)

// row stacks the given polynomials into a one-dimensional array.
func row(t *testing.T, polys ...*PolyArray) *PolyArray {
	t.Helper()
	parts := make([]*PolyArray, len(polys))
	for i, p := range polys {
		part, err := p.Reshape(ndarray.Shape{1})
		require.NoError(t, err)
		parts[i] = part
	}
	stacked, err := Concatenate(parts, 0)
	require.NoError(t, err)
	return stacked
}

func TestAdd(t *testing.T) {
	t.Run("SymbolPlusScalar", func(t *testing.T) {
		sum, err := Add(Symbol("x"), 4, nil, nil)
		require.NoError(t, err)
		require.Equal(t, [][]int{{1}, {0}}, sum.Exponents())
		require.Equal(t, "4+x", sum.String())

		v, err := sum.Eval(map[string]float64{"x": 3})
		require.NoError(t, err)
		require.Equal(t, 7.0, v.Float64(0))
	})

	t.Run("MergesEqualTerms", func(t *testing.T) {
		x := Symbol("x")
		sum, err := Add(x, x, nil, nil)
		require.NoError(t, err)
		require.Equal(t, 1, sum.NumTerms())
		require.Equal(t, "2*x", sum.String())
	})

	t.Run("BroadcastsOverArray", func(t *testing.T) {
		xs := row(t, Symbol("x"), Symbol("y"))
		sum, err := Add(xs, 1, nil, nil)
		require.NoError(t, err)
		require.True(t, sum.Shape().Equal(ndarray.Shape{2}))
		require.Equal(t, "[1+x, 1+y]", sum.String())
	})

	t.Run("ZeroConstantPlusScalar", func(t *testing.T) {
		zero, err := Subtract(Symbol("x"), Symbol("x"), nil, nil)
		require.NoError(t, err)
		sum, err := Add(zero, 2, nil, nil)
		require.NoError(t, err)
		require.True(t, sum.IsConstant())
		require.Equal(t, "2", sum.String())
	})

	t.Run("PromotesDType", func(t *testing.T) {
		sum, err := Add(Symbol("x"), 0.5, nil, nil)
		require.NoError(t, err)
		require.Equal(t, ndarray.Float64, sum.DType())
	})
}

func TestSubtract(t *testing.T) {
	t.Run("CleansToZeroConstant", func(t *testing.T) {
		x := Symbol("x")
		diff, err := Subtract(x, x, nil, nil)
		require.NoError(t, err)
		require.Equal(t, 1, diff.NumTerms())
		require.Empty(t, diff.Names())
		require.True(t, diff.IsConstant())
		require.True(t, diff.Coefficients()[0].IsZero())
		require.Equal(t, "0", diff.String())
	})

	t.Run("ZeroConstantMinusScalar", func(t *testing.T) {
		zero, err := Subtract(Symbol("x"), Symbol("x"), nil, nil)
		require.NoError(t, err)
		diff, err := Subtract(zero, 2, nil, nil)
		require.NoError(t, err)
		require.True(t, diff.IsConstant())
		require.Equal(t, "-2", diff.String())
	})

	t.Run("OutPreservesZeroSlots", func(t *testing.T) {
		x := Symbol("x")
		out, err := NewPolyArray([]string{"x"}, [][]int{{1}}, ndarray.Shape{}, ndarray.Int64)
		require.NoError(t, err)

		res, err := Subtract(x, x, out, nil)
		require.NoError(t, err)
		require.Same(t, out, res)
		require.Equal(t, [][]int{{1}}, res.Exponents())
		require.True(t, res.Coefficients()[0].IsZero())
	})

	t.Run("OutSlotMismatch", func(t *testing.T) {
		x := Symbol("x")
		out, err := NewPolyArray([]string{"x"}, [][]int{{2}}, ndarray.Shape{}, ndarray.Int64)
		require.NoError(t, err)
		_, err = Subtract(x, x, out, nil)
		require.ErrorIs(t, err, ndarray.ErrShape)
	})
}

func TestWhere(t *testing.T) {
	xs := row(t, Symbol("x"), Symbol("x"))
	out, err := NewPolyArray([]string{"x"}, [][]int{{1}, {0}}, ndarray.Shape{2}, ndarray.Int64)
	require.NoError(t, err)
	mask, err := ndarray.NewMask(ndarray.Shape{2}, []bool{true, false})
	require.NoError(t, err)

	res, err := Add(xs, 1, out, mask)
	require.NoError(t, err)
	require.Same(t, out, res)

	coeffs := res.Coefficients()
	require.Equal(t, []float64{1, 0}, coeffs[0].Float64s())
	require.Equal(t, []float64{1, 0}, coeffs[1].Float64s())
}

func TestNegative(t *testing.T) {
	neg, err := Negative(Symbol("x"), nil, nil)
	require.NoError(t, err)
	require.Equal(t, "-x", neg.String())
}

func TestCeil(t *testing.T) {
	p, err := Add(Symbol("x"), 1.5, nil, nil)
	require.NoError(t, err)
	c, err := Ceil(p, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "2.0+x", c.String())
}

func TestMultiply(t *testing.T) {
	t.Run("CrossTermsCancel", func(t *testing.T) {
		x := Symbol("x")
		onePlus, err := Add(x, 1, nil, nil)
		require.NoError(t, err)
		oneMinus, err := Subtract(x, 1, nil, nil)
		require.NoError(t, err)

		prod, err := Multiply(onePlus, oneMinus, nil, nil)
		require.NoError(t, err)
		require.Equal(t, [][]int{{2}, {0}}, prod.Exponents())
		require.Equal(t, "-1+x**2", prod.String())

		v, err := prod.Eval(map[string]float64{"x": 3})
		require.NoError(t, err)
		require.Equal(t, 8.0, v.Float64(0))
	})

	t.Run("UnifiesIndeterminates", func(t *testing.T) {
		xy, err := Multiply(Symbol("x"), Symbol("y"), nil, nil)
		require.NoError(t, err)
		require.Equal(t, []string{"x", "y"}, xy.Names())
		require.Equal(t, [][]int{{1, 1}}, xy.Exponents())
		require.Equal(t, "x*y", xy.String())
	})

	t.Run("ScalarFactor", func(t *testing.T) {
		p, err := Multiply(3, Symbol("x"), nil, nil)
		require.NoError(t, err)
		require.Equal(t, "3*x", p.String())
	})

	t.Run("ZeroConstantFactor", func(t *testing.T) {
		zero, err := Subtract(Symbol("x"), Symbol("x"), nil, nil)
		require.NoError(t, err)
		prod, err := Multiply(zero, 2, nil, nil)
		require.NoError(t, err)
		require.True(t, prod.IsConstant())
		require.True(t, prod.Coefficients()[0].IsZero())
		require.Equal(t, "0", prod.String())
	})
}

func TestPow(t *testing.T) {
	t.Run("Monomial", func(t *testing.T) {
		p, err := Pow(Symbol("x"), 5)
		require.NoError(t, err)
		require.Equal(t, [][]int{{5}}, p.Exponents())
		require.Equal(t, "x**5", p.String())
	})

	t.Run("ZeroPower", func(t *testing.T) {
		p, err := Pow(Symbol("x"), 0)
		require.NoError(t, err)
		require.True(t, p.IsConstant())
		require.Equal(t, "1", p.String())
	})

	t.Run("Binomial", func(t *testing.T) {
		base, err := Add(Symbol("x"), 1, nil, nil)
		require.NoError(t, err)
		p, err := Pow(base, 2)
		require.NoError(t, err)

		v, err := p.Eval(map[string]float64{"x": 2})
		require.NoError(t, err)
		require.Equal(t, 9.0, v.Float64(0))
	})

	t.Run("NegativePower", func(t *testing.T) {
		_, err := Pow(Symbol("x"), -1)
		require.ErrorIs(t, err, ndarray.ErrShape)
	})
}

func TestUnknownUfunc(t *testing.T) {
	_, err := Elementwise("bogus", Symbol("x"), 1, nil, nil)
	require.Error(t, err)

	_, err = ElementwiseUnary("bogus", Symbol("x"), nil, nil)
	require.Error(t, err)
}

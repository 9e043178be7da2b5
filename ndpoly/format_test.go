package ndpoly

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	x, y := Symbol("x"), Symbol("y")

	t.Run("Symbol", func(t *testing.T) {
		require.Equal(t, "x", x.String())
	})

	t.Run("ConstantFirst", func(t *testing.T) {
		cube, err := Pow(y, 3)
		require.NoError(t, err)
		p, err := Subtract(cube, 1, nil, nil)
		require.NoError(t, err)
		require.Equal(t, "-1+y**3", p.String())
	})

	t.Run("NegativeCoefficient", func(t *testing.T) {
		p, err := Multiply(-3, x, nil, nil)
		require.NoError(t, err)
		require.Equal(t, "-3*x", p.String())
	})

	t.Run("FloatCoefficients", func(t *testing.T) {
		p, err := Add(x, 4.5, nil, nil)
		require.NoError(t, err)
		require.Equal(t, "4.5+x", p.String())
	})

	t.Run("MultivariateMonomial", func(t *testing.T) {
		sq, err := Pow(x, 2)
		require.NoError(t, err)
		p, err := Multiply(sq, y, nil, nil)
		require.NoError(t, err)
		require.Equal(t, "x**2*y", p.String())
	})

	t.Run("Zero", func(t *testing.T) {
		p, err := Subtract(x, x, nil, nil)
		require.NoError(t, err)
		require.Equal(t, "0", p.String())
	})

	t.Run("DisplayOrderIgnoresSlotOrder", func(t *testing.T) {
		// 4+x and x+4 store their term slots in different orders but
		// render identically.
		p, err := Add(x, 4, nil, nil)
		require.NoError(t, err)
		q, err := Add(4, x, nil, nil)
		require.NoError(t, err)
		require.Equal(t, p.String(), q.String())
		require.NotEqual(t, p.Exponents(), q.Exponents())
	})
}

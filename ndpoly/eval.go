package ndpoly

import (
	"fmt"

	"github.com/ndpoly/ndpoly/ndarray"
)

// Eval evaluates the polynomial array at the given indeterminate
// assignment and returns the resulting dense Float64 array of the same
// shape. Every name of the array must be assigned a value.
func (p *PolyArray) Eval(assignment map[string]float64) (*ndarray.Array, error) {
	point := make([]float64, len(p.names))
	for i, name := range p.names {
		v, ok := assignment[name]
		if !ok {
			return nil, fmt.Errorf("%w: no value for indeterminate %q", ndarray.ErrShape, name)
		}
		point[i] = v
	}

	result := ndarray.Zeros(p.Shape(), ndarray.Float64)
	for i, row := range p.exponents {
		factor := 1.0
		for k, e := range row {
			for ; e > 0; e-- {
				factor *= point[k]
			}
		}
		scaled, err := ndarray.Mul(p.coeffs[i].AsType(ndarray.Float64), ndarray.Full(ndarray.Shape{}, ndarray.Float64, factor), nil, nil)
		if err != nil {
			return nil, err
		}
		if result, err = ndarray.Add(result, scaled, nil, nil); err != nil {
			return nil, err
		}
	}
	return result, nil
}

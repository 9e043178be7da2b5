package ndpoly

import (
	"fmt"

	"github.com/ndpoly/ndpoly/ndarray"
)

// Concatenate joins the polynomial arrays along the given axis. Operands
// are aligned in indeterminates, exponents and dtype first; their shapes
// must match on every other axis.
func Concatenate(polys []*PolyArray, axis int) (*PolyArray, error) {
	aligned, err := alignForStacking(polys)
	if err != nil {
		return nil, err
	}
	return stackSlots(aligned, func(slot []*ndarray.Array) (*ndarray.Array, error) {
		return ndarray.Concatenate(slot, axis)
	})
}

// Vstack stacks the polynomial arrays vertically: operands are promoted to
// at least two dimensions and concatenated along the first axis.
func Vstack(polys []*PolyArray) (*PolyArray, error) {
	aligned, err := alignForStacking(polys)
	if err != nil {
		return nil, err
	}
	return stackSlots(aligned, ndarray.Vstack)
}

func alignForStacking(polys []*PolyArray) ([]*PolyArray, error) {
	if len(polys) == 0 {
		return nil, fmt.Errorf("%w: need at least one polynomial array", ndarray.ErrShape)
	}
	aligned, err := AlignExponents(polys...)
	if err != nil {
		return nil, err
	}
	return AlignDType(aligned...)
}

// stackSlots applies the dense stacking operation slot by slot and rebuilds
// a polynomial array over the first operand's term slots.
func stackSlots(aligned []*PolyArray, stack func([]*ndarray.Array) (*ndarray.Array, error)) (*PolyArray, error) {
	ref := aligned[0]
	coefSets := make([][]*ndarray.Array, len(aligned))
	for j, p := range aligned {
		coefSets[j] = p.Coefficients()
	}
	coeffs := make([]*ndarray.Array, ref.NumTerms())
	for i := range coeffs {
		slot := make([]*ndarray.Array, len(aligned))
		for j := range aligned {
			slot[j] = coefSets[j][i]
		}
		var err error
		if coeffs[i], err = stack(slot); err != nil {
			return nil, err
		}
	}
	return FromAttributes(ref.Exponents(), coeffs, ref.Names(), false)
}

// Tile repeats the polynomial array reps[d] times along each dimension d,
// with the same padding rules as the dense [ndarray.Tile].
func Tile(p *PolyArray, reps []int) (*PolyArray, error) {
	coeffs := p.Coefficients()
	for i, c := range coeffs {
		var err error
		if coeffs[i], err = ndarray.Tile(c, reps); err != nil {
			return nil, err
		}
	}
	return FromAttributes(p.Exponents(), coeffs, p.Names(), false)
}

// Split divides the polynomial array into n equal sections along the given
// axis. Every section keeps the term slots of the input.
func Split(p *PolyArray, n, axis int) ([]*PolyArray, error) {
	coeffs := p.Coefficients()
	sections := make([][]*ndarray.Array, n)
	for _, c := range coeffs {
		parts, err := ndarray.Split(c, n, axis)
		if err != nil {
			return nil, err
		}
		for s, part := range parts {
			sections[s] = append(sections[s], part)
		}
	}
	out := make([]*PolyArray, n)
	for s := range out {
		var err error
		if out[s], err = FromAttributes(p.Exponents(), sections[s], p.Names(), false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Decompose splits the polynomial array into one component per term slot,
// stacked along a new leading axis of length [PolyArray.NumTerms]. Array
// positions a component does not contribute to are zero, so summing the
// components along the first axis reproduces the input.
func Decompose(p *PolyArray) (*PolyArray, error) {
	shape := append(ndarray.Shape{1}, p.Shape()...)
	names := p.Names()
	exponents := p.Exponents()
	coeffs := p.Coefficients()

	components := make([]*PolyArray, len(exponents))
	for i := range exponents {
		component, err := FromAttributes([][]int{exponents[i]}, []*ndarray.Array{coeffs[i]}, names, false)
		if err != nil {
			return nil, err
		}
		if components[i], err = component.Reshape(shape); err != nil {
			return nil, err
		}
	}
	return Concatenate(components, 0)
}

package ndpoly

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/ndpoly/ndpoly/ndarray"
)

// Align makes the given polynomial arrays mutually compatible for
// elementwise operations by unifying, strictly in this order, their shape,
// indeterminates, exponents and dtype. The order matters: shapes must be
// unified before zero-fill coefficients are materialized, and the dtype
// cast happens last so it is paid exactly once.
//
// Alignment changes representation, never value: each output represents the
// same polynomial as the corresponding input.
func Align(polys ...*PolyArray) ([]*PolyArray, error) {
	polys, err := AlignShape(polys...)
	if err != nil {
		return nil, err
	}
	if polys, err = AlignIndeterminates(polys...); err != nil {
		return nil, err
	}
	if polys, err = AlignExponents(polys...); err != nil {
		return nil, err
	}
	return AlignDType(polys...)
}

// AlignShape broadcasts every coefficient array of every input to the
// common broadcast shape of all input shapes. Fails with
// [ndarray.ErrBroadcast] when the shapes are incompatible.
func AlignShape(polys ...*PolyArray) ([]*PolyArray, error) {
	shapes := make([]ndarray.Shape, len(polys))
	for i, p := range polys {
		shapes[i] = p.Shape()
	}
	common, err := ndarray.BroadcastShapes(shapes...)
	if err != nil {
		return nil, err
	}

	out := make([]*PolyArray, len(polys))
	for i, p := range polys {
		coeffs := make([]*ndarray.Array, len(p.coeffs))
		for j, c := range p.coeffs {
			if coeffs[j], err = c.BroadcastTo(common); err != nil {
				return nil, err
			}
		}
		if out[i], err = FromAttributes(p.exponents, coeffs, p.names, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AlignIndeterminates rebuilds every input over one common ordered name
// list: the union of the names of all non-constant inputs, sorted
// alphabetically so the result does not depend on argument order. Exponent
// columns for names an input never used are zero-filled. If every input is
// a nameless constant the inputs are returned unchanged; constants still
// carrying names are rebuilt over the empty name list so all outputs share
// one exponent arity.
func AlignIndeterminates(polys ...*PolyArray) ([]*PolyArray, error) {
	seen := map[string]struct{}{}
	for _, p := range polys {
		if p.IsConstant() {
			continue
		}
		for _, name := range p.names {
			seen[name] = struct{}{}
		}
	}
	if len(seen) == 0 {
		named := false
		for _, p := range polys {
			if len(p.names) > 0 {
				named = true
				break
			}
		}
		if !named {
			return polys, nil
		}
	}
	common := make([]string, 0, len(seen))
	for name := range seen {
		common = append(common, name)
	}
	slices.Sort(common)

	index := make(map[string]int, len(common))
	for i, name := range common {
		index[name] = i
	}

	out := make([]*PolyArray, len(polys))
	for i, p := range polys {
		exponents := make([][]int, len(p.exponents))
		for j, row := range p.exponents {
			padded := make([]int, len(common))
			for k, name := range p.names {
				if pos, ok := index[name]; ok {
					padded[pos] = row[k]
				}
			}
			exponents[j] = padded
		}
		var err error
		if out[i], err = FromAttributes(exponents, p.coeffs, common, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AlignExponents rebuilds every input over one common ordered term-slot
// list: the first input's rows in order, followed by each later input's
// rows not already present, in encounter order. The union order is
// positional on purpose: swapping arguments changes the term order of the
// output, never its value. Inputs with differing name lists are passed
// through [AlignIndeterminates] first. Slots an input lacks receive an
// all-zero coefficient of that input's own shape and dtype.
func AlignExponents(polys ...*PolyArray) ([]*PolyArray, error) {
	if len(polys) == 0 {
		return nil, fmt.Errorf("%w: no polynomial arrays to align", ndarray.ErrShape)
	}
	sameNames := true
	for _, p := range polys[1:] {
		if !slices.Equal(polys[0].names, p.names) {
			sameNames = false
			break
		}
	}
	if !sameNames {
		var err error
		if polys, err = AlignIndeterminates(polys...); err != nil {
			return nil, err
		}
	}

	var global [][]int
	present := map[string]struct{}{}
	for _, p := range polys {
		for _, row := range p.exponents {
			key := keyOf(row)
			if _, ok := present[key]; ok {
				continue
			}
			present[key] = struct{}{}
			global = append(global, append([]int(nil), row...))
		}
	}

	out := make([]*PolyArray, len(polys))
	for i, p := range polys {
		lookup := make(map[string]*ndarray.Array, len(p.exponents))
		for j, row := range p.exponents {
			lookup[keyOf(row)] = p.coeffs[j]
		}
		zeros := ndarray.Zeros(p.Shape(), p.DType())
		coeffs := make([]*ndarray.Array, len(global))
		for j, row := range global {
			if c, ok := lookup[keyOf(row)]; ok {
				coeffs[j] = c
			} else {
				coeffs[j] = zeros
			}
		}
		var err error
		if out[i], err = FromAttributes(global, coeffs, p.names, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AlignDType rebuilds every input with coefficients cast to the common
// promoted dtype of all inputs.
func AlignDType(polys ...*PolyArray) ([]*PolyArray, error) {
	dtypes := make([]ndarray.DType, len(polys))
	for i, p := range polys {
		dtypes[i] = p.DType()
	}
	common := ndarray.PromoteAll(dtypes...)

	out := make([]*PolyArray, len(polys))
	for i, p := range polys {
		coeffs := make([]*ndarray.Array, len(p.coeffs))
		for j, c := range p.coeffs {
			coeffs[j] = c.AsType(common)
		}
		var err error
		if out[i], err = FromAttributes(p.exponents, coeffs, p.names, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

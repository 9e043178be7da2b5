// Package ndpoly implements arrays of multivariate polynomials that behave
// like dense numeric arrays: elementwise arithmetic, broadcasting and dtype
// promotion all follow the ndarray rules, with symbolic term bookkeeping
// layered on top.
//
// A polynomial array stores an ordered set of indeterminate names, one
// exponent row per term slot, and one coefficient [ndarray.Array] per term
// slot. Binary operations first align their operands (shape, indeterminates,
// exponents, dtype, in that order) and then operate coefficientwise.
package ndpoly

import (
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ndpoly/ndpoly/ndarray"
	"github.com/ndpoly/ndpoly/utils/structs"
)

// PolyArray is an array of multivariate polynomials. The zero value is not
// usable; build instances with [FromAttributes], [Symbol], [Symbols] or
// [AsPolyArray].
//
// Invariants, enforced at construction:
//   - every exponent row has one entry per name,
//   - no two exponent rows are equal,
//   - every coefficient array shares one shape and one dtype.
//
// PolyArray values are immutable: operations return fresh instances and
// never alias an input buffer, except when the caller supplies an explicit
// output destination.
type PolyArray struct {
	names     []string
	exponents [][]int
	coeffs    []*ndarray.Array
}

// Names returns a copy of the ordered indeterminate names.
func (p *PolyArray) Names() []string {
	return append([]string(nil), p.names...)
}

// NumTerms returns the number of term slots.
func (p *PolyArray) NumTerms() int {
	return len(p.exponents)
}

// Exponents returns a copy of the exponent rows, one row per term slot.
func (p *PolyArray) Exponents() [][]int {
	out := make([][]int, len(p.exponents))
	for i, row := range p.exponents {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Coefficients returns deep copies of the per-term coefficient arrays,
// parallel to [PolyArray.Exponents].
func (p *PolyArray) Coefficients() []*ndarray.Array {
	return structs.Vector[*ndarray.Array](p.coeffs).Clone()
}

// Shape returns the shape shared by every coefficient array.
func (p *PolyArray) Shape() ndarray.Shape {
	return p.coeffs[0].Shape()
}

// DType returns the dtype shared by every coefficient array.
func (p *PolyArray) DType() ndarray.DType {
	return p.coeffs[0].DType()
}

// Size returns the number of polynomial elements in the array.
func (p *PolyArray) Size() int {
	return p.Shape().Size()
}

// IsConstant reports whether no indeterminate carries a non-zero exponent,
// i.e. the array behaves as an ordinary numeric array.
func (p *PolyArray) IsConstant() bool {
	for _, row := range p.exponents {
		for _, e := range row {
			if e != 0 {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the polynomial array.
func (p *PolyArray) Clone() *PolyArray {
	return &PolyArray{
		names:     p.Names(),
		exponents: p.Exponents(),
		coeffs:    structs.Vector[*ndarray.Array](p.coeffs).Clone(),
	}
}

// Equal reports whether both arrays have identical names, exponent rows
// (same order) and coefficients.
func (p *PolyArray) Equal(other *PolyArray) bool {
	if p == nil || other == nil {
		return p == other
	}
	res := cmp.Equal(p.names, other.names, cmpopts.EquateEmpty())
	res = res && cmp.Equal(p.exponents, other.exponents, cmpopts.EquateEmpty())
	return res && structs.Vector[*ndarray.Array](p.coeffs).Equal(other.coeffs)
}

// Reshape returns a copy of the array with every coefficient reshaped.
func (p *PolyArray) Reshape(shape ndarray.Shape) (*PolyArray, error) {
	coeffs := make([]*ndarray.Array, len(p.coeffs))
	for i, c := range p.coeffs {
		var err error
		if coeffs[i], err = c.Reshape(shape); err != nil {
			return nil, err
		}
	}
	return &PolyArray{names: p.Names(), exponents: p.Exponents(), coeffs: coeffs}, nil
}

// keyOf encodes an exponent row as a map key.
func keyOf(row []int) string {
	parts := make([]string, len(row))
	for i, e := range row {
		parts[i] = strconv.Itoa(e)
	}
	return strings.Join(parts, ",")
}

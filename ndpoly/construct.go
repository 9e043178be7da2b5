package ndpoly

import (
	"fmt"

	"github.com/ndpoly/ndpoly/ndarray"
	"github.com/ndpoly/ndpoly/utils"
)

// FromAttributes builds a normalized polynomial array from raw attributes.
//
// Every exponent row must have one non-negative entry per name. The
// coefficient arrays are promoted to a common dtype and broadcast to a
// common shape. With clean set, rows appearing more than once are merged by
// summing their coefficients, and term slots whose coefficient is zero at
// every position are dropped, unless that would leave no slot at all, in
// which case the zero constant is retained. Indeterminates whose exponent
// column is zero in every remaining slot are removed along with their name,
// so x-x yields a plain nameless constant. Callers that already guarantee
// distinct rows (the alignment routines) pass clean=false, which preserves
// the given slots and names untouched and only verifies uniqueness.
//
// Fails with [ndarray.ErrShape] on arity or broadcast violations and with
// [ndarray.ErrDType] on non-numeric coefficients.
func FromAttributes(exponents [][]int, coeffs []*ndarray.Array, names []string, clean bool) (*PolyArray, error) {
	if len(exponents) == 0 {
		return nil, fmt.Errorf("%w: at least one term slot is required", ndarray.ErrShape)
	}
	if len(exponents) != len(coeffs) {
		return nil, fmt.Errorf("%w: %d exponent rows against %d coefficients",
			ndarray.ErrShape, len(exponents), len(coeffs))
	}
	if !utils.AllDistinct(names) {
		return nil, fmt.Errorf("%w: duplicate indeterminate names in %v", ndarray.ErrShape, names)
	}
	for _, row := range exponents {
		if len(row) != len(names) {
			return nil, fmt.Errorf("%w: exponent row %v has arity %d, expected %d",
				ndarray.ErrShape, row, len(row), len(names))
		}
		for _, e := range row {
			if e < 0 {
				return nil, fmt.Errorf("%w: negative exponent in row %v", ndarray.ErrShape, row)
			}
		}
	}

	coeffs, err := homogenize(coeffs)
	if err != nil {
		return nil, err
	}

	if !clean {
		keys := make([]string, len(exponents))
		for i, row := range exponents {
			keys[i] = keyOf(row)
		}
		if !utils.AllDistinct(keys) {
			return nil, fmt.Errorf("%w: duplicate exponent rows", ndarray.ErrShape)
		}
		return &PolyArray{
			names:     append([]string(nil), names...),
			exponents: cloneRows(exponents),
			coeffs:    coeffs,
		}, nil
	}

	exponents, coeffs, err = merge(exponents, coeffs)
	if err != nil {
		return nil, err
	}
	exponents, coeffs = dropZeroSlots(exponents, coeffs, len(names))
	exponents, names = dropUnusedNames(exponents, names)

	return &PolyArray{
		names:     append([]string(nil), names...),
		exponents: exponents,
		coeffs:    coeffs,
	}, nil
}

// homogenize promotes all coefficient arrays to one dtype and broadcasts
// them to one shape.
func homogenize(coeffs []*ndarray.Array) ([]*ndarray.Array, error) {
	shapes := make([]ndarray.Shape, len(coeffs))
	dtypes := make([]ndarray.DType, len(coeffs))
	for i, c := range coeffs {
		if c == nil {
			return nil, fmt.Errorf("%w: nil coefficient at slot %d", ndarray.ErrDType, i)
		}
		shapes[i] = c.Shape()
		dtypes[i] = c.DType()
	}
	shape, err := ndarray.BroadcastShapes(shapes...)
	if err != nil {
		return nil, err
	}
	dtype := ndarray.PromoteAll(dtypes...)

	out := make([]*ndarray.Array, len(coeffs))
	for i, c := range coeffs {
		if c.DType() != dtype {
			c = c.AsType(dtype)
		}
		if out[i], err = c.BroadcastTo(shape); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// merge sums the coefficients of identical exponent rows, keeping the order
// in which distinct rows were first encountered.
func merge(exponents [][]int, coeffs []*ndarray.Array) ([][]int, []*ndarray.Array, error) {
	outExps := make([][]int, 0, len(exponents))
	outCoeffs := make([]*ndarray.Array, 0, len(coeffs))
	index := make(map[string]int, len(exponents))
	for i, row := range exponents {
		key := keyOf(row)
		if j, ok := index[key]; ok {
			sum, err := ndarray.Add(outCoeffs[j], coeffs[i], nil, nil)
			if err != nil {
				return nil, nil, err
			}
			outCoeffs[j] = sum
			continue
		}
		index[key] = len(outExps)
		outExps = append(outExps, append([]int(nil), row...))
		outCoeffs = append(outCoeffs, coeffs[i].Clone())
	}
	return outExps, outCoeffs, nil
}

// dropZeroSlots removes term slots whose coefficient is zero everywhere,
// retaining the zero constant when every slot would otherwise vanish.
func dropZeroSlots(exponents [][]int, coeffs []*ndarray.Array, arity int) ([][]int, []*ndarray.Array) {
	outExps := exponents[:0:0]
	outCoeffs := coeffs[:0:0]
	for i, c := range coeffs {
		if c.IsZero() {
			continue
		}
		outExps = append(outExps, exponents[i])
		outCoeffs = append(outCoeffs, c)
	}
	if len(outExps) == 0 {
		outExps = [][]int{make([]int, arity)}
		outCoeffs = []*ndarray.Array{ndarray.Zeros(coeffs[0].Shape(), coeffs[0].DType())}
	}
	return outExps, outCoeffs
}

// dropUnusedNames removes indeterminates whose exponent column is zero in
// every term slot. Rows stay distinct because the dropped columns hold the
// same value in all of them.
func dropUnusedNames(exponents [][]int, names []string) ([][]int, []string) {
	used := make([]bool, len(names))
	n := 0
	for _, row := range exponents {
		for k, e := range row {
			if e != 0 && !used[k] {
				used[k] = true
				n++
			}
		}
	}
	if n == len(names) {
		return exponents, names
	}

	outNames := make([]string, 0, n)
	for k, name := range names {
		if used[k] {
			outNames = append(outNames, name)
		}
	}
	outExps := make([][]int, len(exponents))
	for i, row := range exponents {
		outRow := make([]int, 0, n)
		for k, e := range row {
			if used[k] {
				outRow = append(outRow, e)
			}
		}
		outExps[i] = outRow
	}
	return outExps, outNames
}

func cloneRows(rows [][]int) [][]int {
	out := make([][]int, len(rows))
	for i, row := range rows {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// NewPolyArray allocates a polynomial array with the given term slots and
// all-zero coefficients of the given shape and dtype. It is the way to
// build an explicit output destination for the elementwise operations.
func NewPolyArray(names []string, exponents [][]int, shape ndarray.Shape, dtype ndarray.DType) (*PolyArray, error) {
	coeffs := make([]*ndarray.Array, len(exponents))
	for i := range coeffs {
		coeffs[i] = ndarray.Zeros(shape, dtype)
	}
	return FromAttributes(exponents, coeffs, names, false)
}

// Symbol returns the polynomial x where x is the given indeterminate: a
// scalar-shaped array with a single unit-exponent term slot and an Int64
// unit coefficient. Panics on an empty name.
func Symbol(name string) *PolyArray {
	if name == "" {
		panic(fmt.Errorf("empty indeterminate name"))
	}
	one, _ := ndarray.Scalar(int64(1))
	p, err := FromAttributes([][]int{{1}}, []*ndarray.Array{one}, []string{name}, false)
	if err != nil {
		panic(err)
	}
	return p
}

// Symbols returns one [Symbol] per name.
func Symbols(names ...string) []*PolyArray {
	out := make([]*PolyArray, len(names))
	for i, name := range names {
		out[i] = Symbol(name)
	}
	return out
}

// FromArray returns the constant polynomial array holding the given
// numeric array: no indeterminates and a single zero-arity term slot.
func FromArray(a *ndarray.Array) *PolyArray {
	return &PolyArray{
		names:     []string{},
		exponents: [][]int{{}},
		coeffs:    []*ndarray.Array{a.Clone()},
	}
}

// FromScalar returns the constant scalar polynomial array holding v.
// v must be a Go integer or float.
func FromScalar(v any) (*PolyArray, error) {
	a, err := ndarray.Scalar(v)
	if err != nil {
		return nil, err
	}
	return FromArray(a), nil
}

// AsPolyArray coerces v into a polynomial array. The accepted variants are
// closed: an existing *PolyArray (returned unchanged), a dense
// *[ndarray.Array] (wrapped as a constant via [FromArray]) or a Go numeric
// scalar (wrapped via [FromScalar]). Anything else fails with
// [ndarray.ErrDType].
func AsPolyArray(v any) (*PolyArray, error) {
	switch v := v.(type) {
	case *PolyArray:
		return v, nil
	case *ndarray.Array:
		return FromArray(v), nil
	default:
		return FromScalar(v)
	}
}

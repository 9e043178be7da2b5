package ndpoly

import (
	"fmt"
	"runtime"

	"golang.org/x/exp/slices"

	"github.com/ndpoly/ndpoly/ndarray"
	"github.com/ndpoly/ndpoly/utils/concurrency"
)

// Ufunc identifies a coefficientwise numeric operation of the dispatch
// table.
type Ufunc string

const (
	UfuncAdd      Ufunc = "add"
	UfuncSubtract Ufunc = "subtract"
	UfuncNegative Ufunc = "negative"
	UfuncCeil     Ufunc = "ceil"
)

type binaryFunc func(x1, x2, out *ndarray.Array, where *ndarray.Mask) (*ndarray.Array, error)

type unaryFunc func(x, out *ndarray.Array, where *ndarray.Mask) (*ndarray.Array, error)

// ufuncTable maps every supported operation to its dense kernel. It is
// populated once at static initialization and never mutated afterwards.
var ufuncTable map[Ufunc]ufuncEntry

type ufuncEntry struct {
	binary binaryFunc
	unary  unaryFunc
}

func init() {
	ufuncTable = map[Ufunc]ufuncEntry{
		UfuncAdd:      {binary: ndarray.Add},
		UfuncSubtract: {binary: ndarray.Sub},
		UfuncNegative: {unary: ndarray.Neg},
		UfuncCeil:     {unary: ndarray.Ceil},
	}
}

// slots at or above which the per-slot kernels run on a worker pool.
const parallelSlotThreshold = 32

// Elementwise applies the binary operation op coefficientwise to x1 and x2.
// Both operands may be a *PolyArray, a *[ndarray.Array] or a Go numeric
// scalar; they are coerced and aligned first. If out is non-nil the result
// is written into it. In that case out must carry exactly the aligned term
// slots, shape and dtype; its slot order is preserved and no zero term is
// dropped.
// Without out a fresh, cleaned polynomial array is returned. Positions
// where the mask is false keep the destination value.
func Elementwise(op Ufunc, x1, x2 any, out *PolyArray, where *ndarray.Mask) (*PolyArray, error) {
	entry, ok := ufuncTable[op]
	if !ok || entry.binary == nil {
		return nil, fmt.Errorf("unknown binary ufunc %q", op)
	}
	p1, err := AsPolyArray(x1)
	if err != nil {
		return nil, err
	}
	p2, err := AsPolyArray(x2)
	if err != nil {
		return nil, err
	}
	aligned, err := Align(p1, p2)
	if err != nil {
		return nil, err
	}
	p1, p2 = aligned[0], aligned[1]

	if out != nil {
		if err := checkOut(out, p1); err != nil {
			return nil, err
		}
		if err := eachSlot(len(p1.coeffs), func(i int) error {
			_, err := entry.binary(p1.coeffs[i], p2.coeffs[i], out.coeffs[i], where)
			return err
		}); err != nil {
			return nil, err
		}
		return out, nil
	}

	coeffs := make([]*ndarray.Array, len(p1.coeffs))
	if err := eachSlot(len(coeffs), func(i int) error {
		var err error
		coeffs[i], err = entry.binary(p1.coeffs[i], p2.coeffs[i], nil, where)
		return err
	}); err != nil {
		return nil, err
	}
	return FromAttributes(p1.exponents, coeffs, p1.names, true)
}

// ElementwiseUnary applies the unary operation op coefficientwise to x.
// See [Elementwise] for the out and where semantics.
func ElementwiseUnary(op Ufunc, x any, out *PolyArray, where *ndarray.Mask) (*PolyArray, error) {
	entry, ok := ufuncTable[op]
	if !ok || entry.unary == nil {
		return nil, fmt.Errorf("unknown unary ufunc %q", op)
	}
	p, err := AsPolyArray(x)
	if err != nil {
		return nil, err
	}

	if out != nil {
		if err := checkOut(out, p); err != nil {
			return nil, err
		}
		if err := eachSlot(len(p.coeffs), func(i int) error {
			_, err := entry.unary(p.coeffs[i], out.coeffs[i], where)
			return err
		}); err != nil {
			return nil, err
		}
		return out, nil
	}

	coeffs := make([]*ndarray.Array, len(p.coeffs))
	if err := eachSlot(len(coeffs), func(i int) error {
		var err error
		coeffs[i], err = entry.unary(p.coeffs[i], nil, where)
		return err
	}); err != nil {
		return nil, err
	}
	return FromAttributes(p.exponents, coeffs, p.names, true)
}

// checkOut verifies that out carries exactly the term slots, shape and
// dtype of the aligned operand ref.
func checkOut(out, ref *PolyArray) error {
	if !slices.Equal(out.names, ref.names) {
		return fmt.Errorf("%w: output names %v, expected %v", ndarray.ErrShape, out.names, ref.names)
	}
	if len(out.exponents) != len(ref.exponents) {
		return fmt.Errorf("%w: output has %d term slots, expected %d",
			ndarray.ErrShape, len(out.exponents), len(ref.exponents))
	}
	for i := range ref.exponents {
		if keyOf(out.exponents[i]) != keyOf(ref.exponents[i]) {
			return fmt.Errorf("%w: output term slot %d is %v, expected %v",
				ndarray.ErrShape, i, out.exponents[i], ref.exponents[i])
		}
	}
	if !out.Shape().Equal(ref.Shape()) {
		return fmt.Errorf("%w: output shape %v, expected %v", ndarray.ErrShape, out.Shape(), ref.Shape())
	}
	if out.DType() != ref.DType() {
		return fmt.Errorf("%w: output dtype %s, expected %s", ndarray.ErrDType, out.DType(), ref.DType())
	}
	return nil
}

// eachSlot runs f for every term slot, on a worker pool once the slot count
// makes it worthwhile. Slots are independent of each other, so the parallel
// path is observationally identical to the serial one.
func eachSlot(n int, f func(i int) error) error {
	if n < parallelSlotThreshold {
		for i := 0; i < n; i++ {
			if err := f(i); err != nil {
				return err
			}
		}
		return nil
	}
	pool := concurrency.NewPool(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		pool.Run(func() error { return f(i) })
	}
	return pool.Wait()
}

// Add returns the elementwise sum of x1 and x2.
// See [Elementwise] for coercion and the out and where semantics.
func Add(x1, x2 any, out *PolyArray, where *ndarray.Mask) (*PolyArray, error) {
	return Elementwise(UfuncAdd, x1, x2, out, where)
}

// Subtract returns the elementwise difference of x1 and x2.
// See [Elementwise] for coercion and the out and where semantics.
func Subtract(x1, x2 any, out *PolyArray, where *ndarray.Mask) (*PolyArray, error) {
	return Elementwise(UfuncSubtract, x1, x2, out, where)
}

// Negative returns the elementwise negation of x.
func Negative(x any, out *PolyArray, where *ndarray.Mask) (*PolyArray, error) {
	return ElementwiseUnary(UfuncNegative, x, out, where)
}

// Ceil applies the ceiling function to every coefficient of x. Integer
// coefficients are unchanged and keep their dtype, see [ndarray.Ceil].
func Ceil(x any, out *PolyArray, where *ndarray.Mask) (*PolyArray, error) {
	return ElementwiseUnary(UfuncCeil, x, out, where)
}

// Multiply returns the elementwise polynomial product of x1 and x2: every
// pair of term slots contributes the coefficient product under the sum of
// their exponent rows, and identical rows are merged. See [Elementwise] for
// coercion; with out supplied, out must carry exactly the term slots of the
// cleaned product.
func Multiply(x1, x2 any, out *PolyArray, where *ndarray.Mask) (*PolyArray, error) {
	p1, err := AsPolyArray(x1)
	if err != nil {
		return nil, err
	}
	p2, err := AsPolyArray(x2)
	if err != nil {
		return nil, err
	}
	aligned, err := AlignShape(p1, p2)
	if err != nil {
		return nil, err
	}
	if aligned, err = AlignIndeterminates(aligned...); err != nil {
		return nil, err
	}
	if aligned, err = AlignDType(aligned...); err != nil {
		return nil, err
	}
	p1, p2 = aligned[0], aligned[1]

	arity := len(p1.names)
	var exponents [][]int
	var coeffs []*ndarray.Array
	index := map[string]int{}
	for i, row1 := range p1.exponents {
		for j, row2 := range p2.exponents {
			row := make([]int, arity)
			for k := range row {
				row[k] = row1[k] + row2[k]
			}
			prod, err := ndarray.Mul(p1.coeffs[i], p2.coeffs[j], nil, nil)
			if err != nil {
				return nil, err
			}
			key := keyOf(row)
			if pos, ok := index[key]; ok {
				if coeffs[pos], err = ndarray.Add(coeffs[pos], prod, nil, nil); err != nil {
					return nil, err
				}
				continue
			}
			index[key] = len(exponents)
			exponents = append(exponents, row)
			coeffs = append(coeffs, prod)
		}
	}

	result, err := FromAttributes(exponents, coeffs, p1.names, true)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return result, nil
	}
	if err := checkOut(out, result); err != nil {
		return nil, err
	}
	zeros := ndarray.Zeros(result.Shape(), result.DType())
	if err := eachSlot(len(result.coeffs), func(i int) error {
		_, err := ndarray.Add(result.coeffs[i], zeros, out.coeffs[i], where)
		return err
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Pow returns x raised to the non-negative integer power k.
func Pow(x any, k int) (*PolyArray, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: negative power %d", ndarray.ErrShape, k)
	}
	p, err := AsPolyArray(x)
	if err != nil {
		return nil, err
	}
	result, err := FromAttributes(
		[][]int{make([]int, len(p.names))},
		[]*ndarray.Array{ndarray.Ones(p.Shape(), p.DType())},
		p.names,
		false,
	)
	if err != nil {
		return nil, err
	}
	for ; k > 0; k-- {
		if result, err = Multiply(result, p, nil, nil); err != nil {
			return nil, err
		}
	}
	return result, nil
}

package ndpoly

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// String renders the polynomial array with one polynomial per array
// position, nested in brackets along each dimension. Terms are displayed in
// lexicographically ascending exponent order; the stored slot order is not
// affected.
func (p *PolyArray) String() string {
	order := displayOrder(p.exponents)
	shape := p.Shape()
	if len(shape) == 0 {
		return p.formatElement(0, order)
	}
	return p.formatSlice(0, 0, shape.Strides(), order)
}

func (p *PolyArray) formatSlice(dim, offset int, strides []int, order []int) string {
	shape := p.Shape()
	parts := make([]string, shape[dim])
	for i := range parts {
		if dim == len(shape)-1 {
			parts[i] = p.formatElement(offset+i, order)
		} else {
			parts[i] = p.formatSlice(dim+1, offset+i*strides[dim], strides, order)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatElement renders the polynomial at flat array position idx.
func (p *PolyArray) formatElement(idx int, order []int) string {
	isFloat := p.DType().IsFloat()
	var b strings.Builder
	for _, t := range order {
		c := p.coeffs[t].Float64(idx)
		if c == 0 {
			continue
		}
		term := formatTerm(c, p.exponents[t], p.names, isFloat)
		if b.Len() > 0 && !strings.HasPrefix(term, "-") {
			b.WriteByte('+')
		}
		b.WriteString(term)
	}
	if b.Len() == 0 {
		return formatCoeff(0, isFloat)
	}
	return b.String()
}

func formatTerm(c float64, row []int, names []string, isFloat bool) string {
	var factors []string
	for k, e := range row {
		switch {
		case e == 1:
			factors = append(factors, names[k])
		case e > 1:
			factors = append(factors, fmt.Sprintf("%s**%d", names[k], e))
		}
	}
	if len(factors) == 0 {
		return formatCoeff(c, isFloat)
	}
	monomial := strings.Join(factors, "*")
	switch {
	case c == 1:
		return monomial
	case c == -1:
		return "-" + monomial
	default:
		return formatCoeff(c, isFloat) + "*" + monomial
	}
}

func formatCoeff(c float64, isFloat bool) string {
	if !isFloat {
		return fmt.Sprintf("%d", int64(c))
	}
	if c == math.Trunc(c) && math.Abs(c) < 1e15 {
		return fmt.Sprintf("%.1f", c)
	}
	return fmt.Sprintf("%g", c)
}

// displayOrder returns the slot indices sorted by lexicographically
// ascending exponent row.
func displayOrder(exponents [][]int) []int {
	order := make([]int, len(exponents))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := exponents[order[a]], exponents[order[b]]
		for k := range ra {
			if ra[k] != rb[k] {
				return ra[k] < rb[k]
			}
		}
		return false
	})
	return order
}

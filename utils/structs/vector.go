// Package structs implements generic container helpers for types providing
// Clone and Equal methods.
package structs

// Element constrains a type to the Clone/Equal method pair the containers
// in this package rely on. T is typically a pointer type.
type Element[T any] interface {
	Clone() T
	Equal(T) bool
}

// Vector is a slice of elements supporting deep Clone and Equal.
type Vector[T Element[T]] []T

// Clone returns a deep copy of the vector.
func (v Vector[T]) Clone() Vector[T] {
	out := make(Vector[T], len(v))
	for i := range v {
		out[i] = v[i].Clone()
	}
	return out
}

// Equal reports whether both vectors have the same length and pairwise
// equal elements.
func (v Vector[T]) Equal(other Vector[T]) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if !v[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

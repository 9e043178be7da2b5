// Package utils implements small generic helpers shared across the module.
package utils

// AllDistinct reports whether all elements of s are distinct.
func AllDistinct[V comparable](s []V) bool {
	seen := make(map[V]struct{}, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

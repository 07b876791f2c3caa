// Package utils implements generic helper functions.
package utils

import (
	"golang.org/x/exp/constraints"
)

// EqualSlice checks the equality between two slices of comparable values.
func EqualSlice[V comparable](a, b []V) (v bool) {

	if len(a) != len(b) {
		return false
	}

	v = true
	for i := range a {
		v = v && (a[i] == b[i])
	}
	return
}

// MaxSlice returns the maximum value in the slice.
func MaxSlice[V constraints.Ordered](slice []V) (max V) {
	if len(slice) == 0 {
		return
	}
	max = slice[0]
	for _, c := range slice[1:] {
		if c > max {
			max = c
		}
	}
	return
}

// MinSlice returns the minimum value in the slice.
func MinSlice[V constraints.Ordered](slice []V) (min V) {
	if len(slice) == 0 {
		return
	}
	min = slice[0]
	for _, c := range slice[1:] {
		if c < min {
			min = c
		}
	}
	return
}

// Reverse returns a new slice with the elements of s in reverse order.
func Reverse[V any](s []V) (r []V) {
	r = make([]V, len(s))
	for i := range s {
		r[i] = s[len(s)-1-i]
	}
	return
}

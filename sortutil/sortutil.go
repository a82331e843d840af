/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package sortutil provides composable comparators and stable sorting helpers.
package sortutil

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Comparator returns a negative number when a < b, a positive number when a > b and zero otherwise.
type Comparator[T any] func(a, b T) int

// Compare compares two ordered values.
func Compare[K constraints.Ordered](a, b K) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// By returns a Comparator ordering values by the key in ascending order.
func By[T any, K constraints.Ordered](key func(T) K) Comparator[T] {
	return func(a, b T) int {
		return Compare(key(a), key(b))
	}
}

// Reverse returns a Comparator with the opposite order.
func (c Comparator[T]) Reverse() Comparator[T] {
	return func(a, b T) int {
		return c(b, a)
	}
}

// Then returns a Comparator that uses next to break ties of c.
func (c Comparator[T]) Then(next Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		if res := c(a, b); res != 0 {
			return res
		}
		return next(a, b)
	}
}

// Sort sorts items in place. Equal elements keep their order.
func Sort[T any](items []T, cmp Comparator[T]) {
	slices.SortStableFunc(items, cmp)
}

// SortBy sorts items in place by the key in ascending order. Equal elements keep their order.
func SortBy[T any, K constraints.Ordered](items []T, key func(T) K) {
	Sort(items, By(key))
}

// Sorted returns a sorted copy of items.
func Sorted[T any](items []T, cmp Comparator[T]) []T {
	res := slices.Clone(items)
	Sort(res, cmp)
	return res
}

// IsSorted reports whether items are sorted.
func IsSorted[T any](items []T, cmp Comparator[T]) bool {
	return slices.IsSortedFunc(items, cmp)
}

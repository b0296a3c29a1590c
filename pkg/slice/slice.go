// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice holds the generic list helpers the reader collections and the
comic service share.

Unlike the standard [slices] package, every helper here that builds a new
list returns a non-nil slice, so an empty result still encodes as [] in JSON.
*/
package slice

// Map transforms every element of input.
func Map[T any, U any](input []T, transform func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Filter keeps the elements for which keep returns true.
func Filter[T any](input []T, keep func(T) bool) []T {
	result := make([]T, 0, len(input))
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// Reject drops the elements for which drop returns true.
func Reject[T any](input []T, drop func(T) bool) []T {
	return Filter(input, func(v T) bool { return !drop(v) })
}

// UniqueBy keeps the first element of each key, preserving order.
func UniqueBy[T any, K comparable](input []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(input))
	return Filter(input, func(v T) bool {
		k := key(v)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// Take returns at most the first n elements. A non-positive n means no limit.
// The result shares its backing array with input.
func Take[T any](input []T, n int) []T {
	if input == nil {
		return []T{}
	}
	if n > 0 && len(input) > n {
		return input[:n]
	}
	return input
}

// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

/*
Package slice complements the standard [slices] package with small generic
helpers used across the catalog services.
*/
package slice

// Map transforms a slice of T into a slice of U element by element.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Filter returns the elements of input for which the predicate holds.
func Filter[T any](input []T, predicate func(T) bool) []T {
	if input == nil {
		return nil
	}

	var result []T
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}

	return result
}

// Chunk splits input into consecutive sub-slices of at most size elements.
//
// The returned sub-slices share backing storage with input. A size below 1
// yields the whole input as a single chunk.
func Chunk[T any](input []T, size int) [][]T {
	if len(input) == 0 {
		return nil
	}
	if size < 1 {
		return [][]T{input}
	}

	chunks := make([][]T, 0, (len(input)+size-1)/size)
	for start := 0; start < len(input); start += size {
		end := start + size
		if end > len(input) {
			end = len(input)
		}
		chunks = append(chunks, input[start:end])
	}

	return chunks
}

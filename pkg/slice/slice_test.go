// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

package slice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookdolphin/catalog/pkg/slice"
)

func TestMap(t *testing.T) {
	doubled := slice.Map([]int{1, 2, 3}, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)

	assert.Nil(t, slice.Map(nil, func(v int) int { return v }))
}

func TestFilter(t *testing.T) {
	even := slice.Filter([]int{1, 2, 3, 4}, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		size int
		want [][]int
	}{
		{"even_split", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"remainder", []int{1, 2, 3, 4, 5}, 2, [][]int{{1, 2}, {3, 4}, {5}}},
		{"oversized", []int{1, 2}, 10, [][]int{{1, 2}}},
		{"empty", nil, 3, nil},
		{"non_positive_size", []int{1, 2, 3}, 0, [][]int{{1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slice.Chunk(tt.in, tt.size))
		})
	}
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualSlice(t *testing.T) {
	require.True(t, EqualSlice([]int{1, 2, 3}, []int{1, 2, 3}))
	require.True(t, EqualSlice([]int{}, []int{}))
	require.False(t, EqualSlice([]int{1, 2, 3}, []int{1, 2}))
	require.False(t, EqualSlice([]int{1, 2, 3}, []int{1, 2, 4}))
}

func TestMaxMinSlice(t *testing.T) {
	require.Equal(t, 7, MaxSlice([]int{3, 7, -2}))
	require.Equal(t, -2, MinSlice([]int{3, 7, -2}))

	// All-negative slices must not fall back on the zero value.
	require.Equal(t, -1.5, MaxSlice([]float64{-4, -1.5, -3}))
	require.Equal(t, -4.0, MinSlice([]float64{-4, -1.5, -3}))

	require.Equal(t, 0, MaxSlice([]int{}))
	require.Equal(t, 0, MinSlice([]int{}))
}

func TestReverse(t *testing.T) {
	require.Equal(t, []int{3, 2, 1}, Reverse([]int{1, 2, 3}))
	require.Equal(t, []int{}, Reverse([]int{}))

	// The input slice is left untouched.
	s := []int{1, 2}
	_ = Reverse(s)
	require.Equal(t, []int{1, 2}, s)
}

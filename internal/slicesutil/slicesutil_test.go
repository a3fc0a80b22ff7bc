package slicesutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualUnsorted(t *testing.T) {
	assert.True(t, EqualUnsorted([]int{1, 2, 3}, []int{3, 2, 1}))
	assert.True(t, EqualUnsorted([]int{}, []int{}))
	assert.True(t, EqualUnsorted[[]int](nil, nil))
	assert.False(t, EqualUnsorted([]int{1, 1, 2}, []int{1, 2, 2}))
	assert.False(t, EqualUnsorted([]int{1, 2}, []int{1, 2, 3}))
}

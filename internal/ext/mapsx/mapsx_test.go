package mapsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	assert.Empty(t, SortedKeys(map[string]int(nil)))
	assert.Equal(t, []string{"a", "b", "c"},
		SortedKeys(map[string]int{"c": 3, "a": 1, "b": 2}))
	assert.Equal(t, []int{-1, 0, 7},
		SortedKeys(map[int]string{7: "x", -1: "y", 0: "z"}))
}

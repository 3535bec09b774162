package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructPath(t *testing.T) {
	parents := map[string]string{"c": "b", "b": "a"}
	previous := func(s string) (string, bool) {
		p, ok := parents[s]
		return p, ok
	}

	assert.Equal(t, []string{"a", "b", "c"}, ReconstructPath("c", previous))
	assert.Equal(t, []string{"a"}, ReconstructPath("a", previous))
}

func TestReconstructPath_StopsAtCycle(t *testing.T) {
	parents := map[int]int{3: 2, 2: 1, 1: 3}
	previous := func(n int) (int, bool) {
		p, ok := parents[n]
		return p, ok
	}

	assert.Equal(t, []int{1, 2, 3}, ReconstructPath(3, previous))
}

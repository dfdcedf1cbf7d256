package shuffle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffleIsAPermutation(t *testing.T) {
	s := New()

	values := make([]int, 50)
	for i := range values {
		values[i] = i
	}

	s.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	seen := make(map[int]bool, len(values))
	for _, v := range values {
		assert.False(t, seen[v])
		seen[v] = true
	}
	assert.Len(t, seen, 50)
}

func TestShuffleHandlesSmallInputs(t *testing.T) {
	s := New()

	// zero and one element must not call swap at all
	s.Shuffle(0, func(i, j int) { t.Fatal("swap called for n=0") })
	s.Shuffle(1, func(i, j int) { t.Fatal("swap called for n=1") })
}

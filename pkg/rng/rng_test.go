package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetweenBounds(t *testing.T) {
	r := New(42)
	for i := 0; i < 1000; i++ {
		v := r.Between(3, 9)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 9)
	}
	assert.Equal(t, 5, r.Between(5, 5))
}

func TestBetweenSwappedBounds(t *testing.T) {
	r := New(1)
	for i := 0; i < 100; i++ {
		v := r.Between(9, 3)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 9)
	}
}

func TestSameSeedSameStream(t *testing.T) {
	a, b := New(1234), New(1234)
	for i := 0; i < 64; i++ {
		require.Equal(t, a.Between(0, 1<<20), b.Between(0, 1<<20))
	}
}

func TestTakeFrom(t *testing.T) {
	r := New(7)
	items := []int{1, 2, 3, 4, 5}
	seen := map[int]bool{}
	for len(items) > 0 {
		before := len(items)
		v := TakeFrom(r, &items)
		assert.Len(t, items, before-1)
		assert.NotContains(t, items, v)
		assert.False(t, seen[v], "element %d taken twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, 5)
}

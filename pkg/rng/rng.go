// Package rng provides the seeded pseudorandom stream shared by every
// randomization pass.
package rng

import (
	"math/rand"

	"github.com/seehuhn/mt19937"
)

// Random is a stateful source of bounded integers.
type Random interface {
	// Between returns a uniformly distributed integer in [lo, hi].
	Between(lo, hi int) int
}

// MT is a Mersenne Twister backed Random.
type MT struct {
	src  *mt19937.MT19937
	rand *rand.Rand
}

// New returns a stream seeded with seed.
func New(seed int64) *MT {
	src := mt19937.New()
	src.Seed(seed)
	return &MT{src: src, rand: rand.New(src)}
}

// Between returns a uniformly distributed integer in [lo, hi].
// The bounds may be given in either order.
func (m *MT) Between(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + m.rand.Intn(hi-lo+1)
}

// TakeFrom removes and returns a random element of *items.
// It panics if *items is empty.
func TakeFrom[T any](r Random, items *[]T) T {
	s := *items
	i := r.Between(0, len(s)-1)
	v := s[i]
	*items = append(s[:i], s[i+1:]...)
	return v
}

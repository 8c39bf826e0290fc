package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Chance reports true with probability p. p <= 0 never fires, p >= 1 always does.
func (r *RNG) Chance(p float64) bool {
	return r.r.Float64() < p
}

// FillWeighted sets each cell Alive with probability alive/(alive+dead).
// Negative weights count as zero; two zero weights leave every cell Dead.
func (r *RNG) FillWeighted(buf []CellState, alive, dead float64) {
	alive, dead = max(alive, 0), max(dead, 0)
	p := 0.0
	if total := alive + dead; total > 0 {
		p = alive / total
	}
	for i := range buf {
		if r.Chance(p) {
			buf[i] = Alive
			continue
		}
		buf[i] = Dead
	}
}

package engine

import "math/rand"

// countingSource counts the values drawn from the underlying source, so a
// restored RNG lands on the same draw whatever mix of calls preceded it.
type countingSource struct {
	src   rand.Source64
	draws int64
}

func (c *countingSource) Int63() int64 {
	c.draws++
	return c.src.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.draws = 0
}

// RNG is the simulation's only source of randomness: dice for combat and
// samples for wandering. Its position is saved and restored with the run.
type RNG struct {
	seed int64
	src  *countingSource
	rand *rand.Rand
}

// NewRNG creates a deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	src := &countingSource{src: rand.NewSource(seed).(rand.Source64)}
	return &RNG{seed: seed, src: src, rand: rand.New(src)}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.rand.Intn(sides) + 1
}

// Float64 returns a random number in [0, 1). Wander samples through it.
func (r *RNG) Float64() float64 {
	return r.rand.Float64()
}

// Seed is the seed the RNG was created from.
func (r *RNG) Seed() int64 { return r.seed }

// Position is the number of values drawn from the source so far.
func (r *RNG) Position() int64 {
	return r.src.draws
}

// RestoreRNG creates an RNG for seed and discards draws up to position.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for rng.src.draws < position {
		rng.src.Int63()
	}
	return rng
}

// Package rng provides the deterministic random source driving trace
// generation. Every run owns exactly one RNG seeded from the trace seed;
// sub-streams forked from it stay reproducible across replays.
package rng

import (
	"math/rand"
)

// Printable character pool for random symbol names. Excludes '|' and '\'
// so piped SMT-LIB symbols stay well formed.
const symbolChars = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789~!@$%^&*_-+=<>.?/"

// Choice is the result of ChoiceOfThree.
type Choice int

const (
	First Choice = iota
	Second
	Third
)

// RNG is a seedable deterministic generator. Not safe for concurrent use;
// one generation thread owns one RNG.
type RNG struct {
	seed uint64
	src  *rand.Rand
}

// New creates an RNG from the given seed.
func New(seed uint64) *RNG {
	return &RNG{seed: seed, src: rand.New(rand.NewSource(int64(seed)))}
}

// Seed returns the seed this RNG was created with.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Fork derives an independent sub-stream. The child seed is drawn from the
// parent, so forking is itself deterministic.
func (r *RNG) Fork() *RNG {
	return New(r.NextSeed())
}

// NextSeed draws a fresh 64-bit seed value. Used for seed-per-action trace
// lines and for forking.
func (r *RNG) NextSeed() uint64 {
	return r.src.Uint64()
}

// Reseed resets the stream to the given seed. Used during replay of
// set-seed trace lines.
func (r *RNG) Reseed(seed uint64) {
	r.seed = seed
	r.src = rand.New(rand.NewSource(int64(seed)))
}

// Pick returns a uniform integer in [lo, hi], inclusive on both ends.
func (r *RNG) Pick(lo, hi uint64) uint64 {
	if hi < lo {
		panic("rng: Pick with hi < lo")
	}
	span := hi - lo + 1
	if span == 0 {
		// Full 64-bit range.
		return r.src.Uint64()
	}
	return lo + r.src.Uint64()%span
}

// PickInt is Pick over the int range used by slice indexing.
func (r *RNG) PickInt(lo, hi int) int {
	return int(r.Pick(uint64(lo), uint64(hi)))
}

// FlipCoin returns true with probability 1/2.
func (r *RNG) FlipCoin() bool {
	return r.src.Uint64()&1 == 1
}

// PickWithProb returns true with probability prob/1000.
func (r *RNG) PickWithProb(prob uint32) bool {
	if prob > 1000 {
		panic("rng: PickWithProb out of range")
	}
	return r.Pick(0, 999) < uint64(prob)
}

// ChoiceOfThree picks uniformly among three alternatives.
func (r *RNG) ChoiceOfThree() Choice {
	return Choice(r.Pick(0, 2))
}

// PickIndexWeighted returns an index into weights, distributed by weight.
// All-zero weights are an invariant violation: the caller must have at
// least one sampleable entry.
func (r *RNG) PickIndexWeighted(weights []uint32) int {
	var sum uint64
	for _, w := range weights {
		sum += uint64(w)
	}
	if sum == 0 {
		panic("rng: PickIndexWeighted with zero total weight")
	}
	p := r.Pick(0, sum-1)
	for i, w := range weights {
		if p < uint64(w) {
			return i
		}
		p -= uint64(w)
	}
	panic("rng: unreachable")
}

// PickFromSlice returns a uniform element of items.
func PickFromSlice[T any](r *RNG, items []T) T {
	if len(items) == 0 {
		panic("rng: PickFromSlice on empty slice")
	}
	return items[r.PickInt(0, len(items)-1)]
}

// PickFromSet returns a uniform key of set. Iteration order of Go maps is
// random but not seedable, so the keys are sorted by the provided less
// function before sampling to keep runs deterministic.
func PickFromSet[T comparable](r *RNG, set map[T]struct{}, less func(a, b T) bool) T {
	if len(set) == 0 {
		panic("rng: PickFromSet on empty set")
	}
	keys := make([]T, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sortSlice(keys, less)
	return keys[r.PickInt(0, len(keys)-1)]
}

func sortSlice[T any](s []T, less func(a, b T) bool) {
	// Insertion sort; pick sets are small and this avoids pulling in
	// reflect-based sorting for a generic slice.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// PickString returns a random symbol string of length n drawn from the
// printable pool.
func (r *RNG) PickString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = symbolChars[r.PickInt(0, len(symbolChars)-1)]
	}
	return string(b)
}

// PickBitString returns a random bit string of length width, for BV values.
func (r *RNG) PickBitString(width uint32) string {
	b := make([]byte, width)
	for i := range b {
		if r.FlipCoin() {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// PickDecString returns a random unsigned decimal numeral with up to
// maxDigits digits and no leading zeros.
func (r *RNG) PickDecString(maxDigits int) string {
	n := r.PickInt(1, maxDigits)
	b := make([]byte, n)
	b[0] = byte('1' + r.PickInt(0, 8))
	for i := 1; i < n; i++ {
		b[i] = byte('0' + r.PickInt(0, 9))
	}
	return string(b)
}

package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterminism(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Pick(0, 1000), b.Pick(0, 1000))
	}
}

func TestPickBounds(t *testing.T) {
	r := New(7)
	for i := 0; i < 1000; i++ {
		v := r.Pick(10, 20)
		assert.GreaterOrEqual(t, v, uint64(10))
		assert.LessOrEqual(t, v, uint64(20))
	}
	// Degenerate range.
	assert.Equal(t, uint64(5), r.Pick(5, 5))
}

func TestPickPanicsOnInvertedRange(t *testing.T) {
	r := New(1)
	assert.Panics(t, func() { r.Pick(3, 2) })
}

func TestFlipCoinIsBalancedEnough(t *testing.T) {
	r := New(99)
	heads := 0
	for i := 0; i < 10000; i++ {
		if r.FlipCoin() {
			heads++
		}
	}
	assert.Greater(t, heads, 4000)
	assert.Less(t, heads, 6000)
}

func TestPickWithProbExtremes(t *testing.T) {
	r := New(3)
	for i := 0; i < 100; i++ {
		assert.False(t, r.PickWithProb(0))
		assert.True(t, r.PickWithProb(1000))
	}
	assert.Panics(t, func() { r.PickWithProb(1001) })
}

func TestPickIndexWeighted(t *testing.T) {
	r := New(11)
	counts := make([]int, 3)
	for i := 0; i < 10000; i++ {
		counts[r.PickIndexWeighted([]uint32{1, 0, 9})]++
	}
	assert.Zero(t, counts[1], "zero-weight entry must never be picked")
	assert.Greater(t, counts[2], counts[0])
	assert.Panics(t, func() { r.PickIndexWeighted([]uint32{0, 0}) })
}

func TestPickFromSlice(t *testing.T) {
	r := New(5)
	items := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[PickFromSlice(r, items)] = true
	}
	assert.Len(t, seen, 3)
	assert.Panics(t, func() { PickFromSlice(r, []string{}) })
}

func TestPickFromSetIsDeterministic(t *testing.T) {
	set := map[int]struct{}{5: {}, 1: {}, 9: {}}
	less := func(a, b int) bool { return a < b }
	a := New(21)
	b := New(21)
	for i := 0; i < 100; i++ {
		require.Equal(t, PickFromSet(a, set, less), PickFromSet(b, set, less))
	}
}

func TestForkAndReseed(t *testing.T) {
	a := New(1234)
	b := New(1234)
	fa := a.Fork()
	fb := b.Fork()
	require.Equal(t, fa.Seed(), fb.Seed())
	require.Equal(t, fa.Pick(0, 1<<32), fb.Pick(0, 1<<32))

	a.Reseed(777)
	b.Reseed(777)
	require.Equal(t, a.Pick(0, 100), b.Pick(0, 100))
}

func TestStringSamplers(t *testing.T) {
	r := New(8)
	s := r.PickString(16)
	assert.Len(t, s, 16)

	bits := r.PickBitString(12)
	assert.Len(t, bits, 12)
	for _, c := range bits {
		assert.Contains(t, []rune{'0', '1'}, c)
	}

	dec := r.PickDecString(5)
	assert.NotEmpty(t, dec)
	assert.LessOrEqual(t, len(dec), 5)
	assert.NotEqual(t, byte('0'), dec[0])
}

func TestChoiceOfThree(t *testing.T) {
	r := New(2)
	seen := map[Choice]bool{}
	for i := 0; i < 100; i++ {
		c := r.ChoiceOfThree()
		assert.Contains(t, []Choice{First, Second, Third}, c)
		seen[c] = true
	}
	assert.Len(t, seen, 3)
}

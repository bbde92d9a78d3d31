package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedRandom struct {
	values []int
	idx    int
}

func (f *fixedRandom) Intn(n int) int {
	if f.idx >= len(f.values) {
		return 0
	}
	v := f.values[f.idx] % n
	f.idx++
	return v
}

func TestCryptoRandomIntnInRange(t *testing.T) {
	r := New()
	for range 200 {
		v := r.Intn(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
	assert.Equal(t, 0, r.Intn(0))
}

func TestShuffleIsPermutation(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	Shuffle(New(), len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, items)
}

func TestShuffleUsesSource(t *testing.T) {
	items := []int{0, 1, 2, 3}
	// i=3 -> j=0, i=2 -> j=2, i=1 -> j=0
	r := &fixedRandom{values: []int{0, 2, 0}}

	Shuffle(r, len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	assert.Equal(t, []int{1, 3, 2, 0}, items)
}

func TestPick(t *testing.T) {
	r := &fixedRandom{values: []int{2}}

	assert.Equal(t, "c", Pick(r, []string{"a", "b", "c"}))
	assert.Equal(t, "", Pick(r, []string{}))
}

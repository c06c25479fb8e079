package modes

import (
	"hash/fnv"
	"math/rand"
)

// rngFor derives an independent random stream for one instance from the
// compile seed and the instance's stable id parts. Deriving per
// instance keeps output stable when unrelated engines are added or
// skipped for a section.
func rngFor(seed int64, parts ...string) *rand.Rand {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}

// sampleUnique returns up to k items drawn without replacement,
// preserving input order when everything fits.
func sampleUnique[T any](items []T, k int, rng *rand.Rand) []T {
	if k <= 0 {
		return nil
	}
	if len(items) <= k {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	idx := rng.Perm(len(items))[:k]
	out := make([]T, 0, k)
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}

// shuffled returns a seeded permutation of items, leaving the input
// untouched.
func shuffled[T any](items []T, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

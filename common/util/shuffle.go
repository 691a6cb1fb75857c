package util

import (
	"time"

	"golang.org/x/exp/rand"
)

// Shuffle randomly permutes items in place.
func Shuffle[T any](items []T) {
	ShuffleWithSeed(items, uint64(time.Now().UnixNano()))
}

// ShuffleWithSeed permutes items in place with a deterministic seed.
func ShuffleWithSeed[T any](items []T, seed uint64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range items {
		j := rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

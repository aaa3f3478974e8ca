package resolution

import (
	"math/rand/v2"
	"sync"
)

// Source is the randomness provider for rolls.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative int in [0, n).
	Intn(n int) int
}

type randomSource struct{}

// RandomSource returns a Source backed by the math/rand/v2 global generator.
func RandomSource() Source {
	return randomSource{}
}

func (randomSource) Intn(n int) int {
	return rand.IntN(n)
}

// FixedSource replays predetermined natural rolls. Once the sequence is
// exhausted it starts over from the beginning.
type FixedSource struct {
	mu    sync.Mutex
	rolls []int
	next  int
}

// NewFixedSource creates a FixedSource that yields the given natural rolls
// (1-based die faces, not Intn values).
func NewFixedSource(rolls ...int) *FixedSource {
	return &FixedSource{rolls: rolls}
}

// Intn returns the next natural roll minus one, reduced into [0, n).
func (f *FixedSource) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.rolls) == 0 {
		return 0
	}
	roll := f.rolls[f.next%len(f.rolls)]
	f.next++

	v := (roll - 1) % n
	if v < 0 {
		v += n
	}
	return v
}

// Calls returns how many values have been drawn.
func (f *FixedSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next
}

package engine

import (
	"math/rand"
	"sync"
	"time"
)

// Roller produces a pair of dice values in [1,6]. Implementations must be
// safe for concurrent use; rooms share a single roller.
type Roller interface {
	Roll() (int, int)
}

type randRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller returns a time-seeded dice roller.
func NewRoller() Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller returns a deterministic roller for tests and replays.
func NewSeededRoller(seed int64) Roller {
	return &randRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randRoller) Roll() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(6) + 1, r.rng.Intn(6) + 1
}

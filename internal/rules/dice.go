package rules

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// Roller draws uniform die results in [1, sides].
type Roller interface {
	Roll(sides int) int
}

type randomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller returns a Roller with its own source seeded from crypto/rand.
func NewRandomRoller() Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(newSeed()))}
}

// NewSeededRoller is deterministic for a given seed.
func NewSeededRoller(seed int64) Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randomRoller) Roll(sides int) int {
	if sides <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// SequenceRoller replays fixed results in order, cycling when exhausted.
type SequenceRoller struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewSequenceRoller(values ...int) *SequenceRoller {
	return &SequenceRoller{values: values}
}

func (r *SequenceRoller) Roll(sides int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 1
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	if v < 1 {
		v = 1
	}
	if sides > 0 && v > sides {
		v = sides
	}
	return v
}

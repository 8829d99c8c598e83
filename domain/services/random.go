package services

import (
	"math/rand/v2"
	"sync"

	"coinbot/domain/entities"
	"coinbot/domain/interfaces"
)

type defaultRandomizer struct{}

func (defaultRandomizer) IntN(n int) int {
	return rand.IntN(n)
}

// NewRandomizer returns a randomizer backed by the runtime's global source
func NewRandomizer() interfaces.Randomizer {
	return defaultRandomizer{}
}

type seededRandomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRandomizer returns a reproducible randomizer, safe for concurrent use
func NewSeededRandomizer(seed uint64) interfaces.Randomizer {
	return &seededRandomizer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *seededRandomizer) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// RandomChance runs one Bernoulli trial with a percent chance of success.
// 0 never succeeds and 100 always does; both skip the draw.
func RandomChance(rng interfaces.Randomizer, percent int) (bool, error) {
	if err := entities.ValidateChance(percent); err != nil {
		return false, err
	}
	switch percent {
	case 0:
		return false, nil
	case 100:
		return true, nil
	default:
		return rng.IntN(100) < percent, nil
	}
}

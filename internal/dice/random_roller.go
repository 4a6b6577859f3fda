package dice

import (
	"errors"
	"math/rand"
)

// randomRoller implements Roller using math/rand
type randomRoller struct {
	rng *rand.Rand
}

// NewRandomRoller creates a new random dice roller
func NewRandomRoller() Roller {
	return &randomRoller{}
}

// NewSeededRoller creates a roller with its own deterministic source.
// Useful for reproducible simulations.
func NewSeededRoller(seed int64) Roller {
	return &randomRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randomRoller) intn(n int) int {
	if r.rng != nil {
		return r.rng.Intn(n)
	}
	return rand.Intn(n)
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, errors.New("invalid dice count")
	}
	if sides < 1 {
		return nil, errors.New("invalid dice size")
	}

	rolls := make([]int, count)
	total := 0
	for i := 0; i < count; i++ {
		roll := r.intn(sides) + 1
		rolls[i] = roll
		total += roll
	}

	return &RollResult{
		Total:    total + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: total,
	}, nil
}

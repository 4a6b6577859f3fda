package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// RollResult contains detailed information about a dice roll
type RollResult struct {
	Total    int   // Sum of all dice plus bonus
	Rolls    []int // Individual die results
	Bonus    int   // Bonus applied
	Count    int   // Number of dice rolled
	Sides    int   // Number of sides on each die
	RawTotal int   // Sum of all dice without the bonus
}

// Natural returns the single die result for a one-die roll.
// It is what attack and save resolution inspect for the 1/20 overrides.
func (r *RollResult) Natural() int {
	if len(r.Rolls) == 0 {
		return 0
	}
	return r.Rolls[0]
}

// Roller provides an interface for rolling dice
// This allows us to inject different implementations for testing
type Roller interface {
	// Roll rolls a number of dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)
}

// D20 rolls a single twenty-sided die with the given bonus.
func D20(r Roller, bonus int) (*RollResult, error) {
	return r.Roll(1, 20, bonus)
}

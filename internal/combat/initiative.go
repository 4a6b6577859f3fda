package combat

import (
	"sort"

	"github.com/thornwatch/d20combat/internal/dice"
)

// InitiativeResult records one combatant's initiative roll.
type InitiativeResult struct {
	CombatantID string `json:"combatant_id"`
	Roll        int    `json:"roll"`
	Bonus       int    `json:"bonus"` // dex modifier + precomputed misc bonus
	Total       int    `json:"total"`
	DexMod      int    `json:"dex_mod"`

	// submitted preserves registration order for the final tie-break.
	submitted int
}

// rollInitiative rolls a d20 for one combatant. The bonus is the dexterity
// modifier plus the caller-supplied misc bonus from the stat sheet.
func rollInitiative(roller dice.Roller, c *Combatant, submitted int) (*InitiativeResult, error) {
	bonus := c.DexMod() + c.InitiativeBonus
	roll, err := dice.D20(roller, 0)
	if err != nil {
		return nil, err
	}
	return &InitiativeResult{
		CombatantID: c.ID,
		Roll:        roll.Natural(),
		Bonus:       bonus,
		Total:       roll.Natural() + bonus,
		DexMod:      c.DexMod(),
		submitted:   submitted,
	}, nil
}

// buildOrder sorts initiative results into turn order: total descending,
// then dexterity modifier descending, then registration order. The sort is
// deliberately deterministic so identical inputs always produce the same
// sequence.
func buildOrder(results []*InitiativeResult) []string {
	sorted := make([]*InitiativeResult, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Total != sorted[j].Total {
			return sorted[i].Total > sorted[j].Total
		}
		if sorted[i].DexMod != sorted[j].DexMod {
			return sorted[i].DexMod > sorted[j].DexMod
		}
		return sorted[i].submitted < sorted[j].submitted
	})

	order := make([]string, len(sorted))
	for i, r := range sorted {
		order[i] = r.CombatantID
	}
	return order
}

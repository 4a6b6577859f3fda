package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thornwatch/d20combat/internal/combat"
	"github.com/thornwatch/d20combat/internal/dice"
	"github.com/thornwatch/d20combat/internal/uuid"
	"pgregory.net/rapid"
)

// newInitiativeSession builds a session with named combatants whose
// dexterity scores are supplied in registration order. Each combatant is
// placed on its own side so sessions never end early in these tests.
func newInitiativeSession(tb testing.TB, dexByName map[string]int, order []string) (*combat.Session, *dice.MockRoller, map[string]string) {
	tb.Helper()

	roller := dice.NewMockRoller()
	s, err := combat.NewSession(&combat.SessionConfig{
		Roller:        roller,
		UUIDGenerator: uuid.NewSequentialGenerator("c"),
	})
	require.NoError(tb, err)

	names := make(map[string]string) // id -> name
	for _, name := range order {
		sheet := baseSheet(name, "side-"+name)
		sheet.Abilities.Dexterity = dexByName[name]
		c, err := s.AddCombatant(sheet)
		require.NoError(tb, err)
		names[c.ID] = name
	}
	return s, roller, names
}

func orderedNames(s *combat.Session, names map[string]string) []string {
	var out []string
	for _, id := range s.TurnOrder() {
		out = append(out, names[id])
	}
	return out
}

func TestInitiative_SortsByTotalDescending(t *testing.T) {
	s, roller, names := newInitiativeSession(t, map[string]int{"A": 10, "B": 10, "C": 10}, []string{"A", "B", "C"})

	roller.SetRolls([]int{5, 18, 11})
	_, err := s.RollInitiativeForAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C", "A"}, orderedNames(s, names))
}

func TestInitiative_BonusIncludesDexAndMisc(t *testing.T) {
	roller := dice.NewMockRoller()
	roller.SetRolls([]int{10, 10})

	s, err := combat.NewSession(&combat.SessionConfig{Roller: roller})
	require.NoError(t, err)

	sheet := baseSheet("Quick", "heroes")
	sheet.Abilities.Dexterity = 18 // +4
	sheet.InitiativeBonus = 4      // improved initiative, precomputed
	quick, err := s.AddCombatant(sheet)
	require.NoError(t, err)

	slow, err := s.AddCombatant(baseSheet("Slow", "villains"))
	require.NoError(t, err)

	_, err = s.RollInitiativeForAll()
	require.NoError(t, err)

	result, err := s.Initiative(quick.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Roll)
	assert.Equal(t, 8, result.Bonus)
	assert.Equal(t, 18, result.Total)

	result, err = s.Initiative(slow.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, result.Total) // 10 + dex 2
}

func TestInitiative_TieBreakByDexThenOrder(t *testing.T) {
	// Equal totals: B has dex 16 (+3) and rolls 10, A has dex 10 (+0) and
	// rolls 13. B's higher dex mod wins the tie.
	s, roller, names := newInitiativeSession(t, map[string]int{"A": 10, "B": 16, "C": 16}, []string{"A", "B", "C"})

	roller.SetRolls([]int{13, 10, 10})
	_, err := s.RollInitiativeForAll()
	require.NoError(t, err)

	// B and C tie on both total and dex; registration order holds.
	assert.Equal(t, []string{"B", "C", "A"}, orderedNames(s, names))
}

func TestInitiative_RollTwiceRejected(t *testing.T) {
	s, roller, _ := newInitiativeSession(t, map[string]int{"A": 10, "B": 10}, []string{"A", "B"})

	roller.SetRolls([]int{5, 10})
	_, err := s.RollInitiativeForAll()
	require.NoError(t, err)

	_, err = s.RollInitiativeForAll()
	assert.Error(t, err)
}

func TestInitiative_RequiresTwoCombatants(t *testing.T) {
	s := newTestSession(t)
	addCombatant(t, s, baseSheet("Lonely", "heroes"))

	_, err := s.RollInitiativeForAll()
	assert.Error(t, err)
}

func TestPropertyInitiative_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 6).Draw(rt, "combatants")
		rolls := make([]int, n)
		dex := map[string]int{}
		var order []string
		for i := 0; i < n; i++ {
			name := string(rune('A' + i))
			order = append(order, name)
			dex[name] = rapid.IntRange(3, 20).Draw(rt, "dex")
			rolls[i] = rapid.IntRange(1, 20).Draw(rt, "roll")
		}

		run := func() []string {
			s, roller, names := newInitiativeSession(t, dex, order)
			roller.SetRolls(rolls)
			if _, err := s.RollInitiativeForAll(); err != nil {
				rt.Fatalf("roll initiative: %v", err)
			}
			return orderedNames(s, names)
		}

		first := run()
		second := run()
		if len(first) != n {
			rt.Fatalf("expected %d entries, got %d", n, len(first))
		}
		for i := range first {
			if first[i] != second[i] {
				rt.Fatalf("order not deterministic: %v vs %v", first, second)
			}
		}
	})
}

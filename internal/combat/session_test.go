package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thornwatch/d20combat/internal/combat"
	"github.com/thornwatch/d20combat/internal/dice"
	"github.com/thornwatch/d20combat/internal/errors"
	"github.com/thornwatch/d20combat/internal/rules"
	"github.com/thornwatch/d20combat/internal/uuid"
	"go.uber.org/zap/zaptest"
)

func newTestSession(t *testing.T) *combat.Session {
	t.Helper()
	s, err := combat.NewSession(&combat.SessionConfig{
		Roller:        dice.NewMockRoller(),
		Logger:        zaptest.NewLogger(t),
		UUIDGenerator: uuid.NewSequentialGenerator("c"),
	})
	require.NoError(t, err)
	return s
}

// startDuel starts a two-combatant session with the attacker guaranteed to
// act first. The roller is left empty for the test to script.
func startDuel(t *testing.T, attacker, target combat.StatSheet) (*combat.Session, *dice.MockRoller, *combat.Combatant, *combat.Combatant) {
	t.Helper()

	roller := dice.NewMockRoller()
	s, err := combat.NewSession(&combat.SessionConfig{
		Roller:        roller,
		Logger:        zaptest.NewLogger(t),
		UUIDGenerator: uuid.NewSequentialGenerator("c"),
	})
	require.NoError(t, err)

	a := addCombatant(t, s, attacker)
	b := addCombatant(t, s, target)

	roller.SetRolls([]int{20, 1}) // initiative: attacker first
	require.NoError(t, s.Start())
	return s, roller, a, b
}

// attackerSheet is BAB +2 with Str 16, so a +5 melee attack bonus.
func attackerSheet() combat.StatSheet {
	return baseSheet("Aldric", "heroes")
}

// targetSheet has AC 18 (armor 6, dex 2).
func targetSheet() combat.StatSheet {
	sheet := baseSheet("Morgath", "villains")
	sheet.AC = rules.ACBreakdown{Armor: 6, Dexterity: 2}
	return sheet
}

func longsword() *combat.Weapon {
	return &combat.Weapon{Name: "longsword", DiceCount: 1, DiceSize: 8, CritThreat: 19, CritMultiplier: 2}
}

func TestSession_Lifecycle(t *testing.T) {
	s, _, a, _ := startDuel(t, attackerSheet(), targetSheet())

	assert.Equal(t, combat.StateActive, s.State())
	assert.Equal(t, 1, s.Round())

	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, a.ID, current.ID)

	// setup-only operations are rejected once active
	_, err = s.AddCombatant(baseSheet("Late", "heroes"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeValidation))

	err = s.Start()
	assert.Error(t, err)
}

func TestSession_ResolveBeforeStart(t *testing.T) {
	s := newTestSession(t)
	a := addCombatant(t, s, attackerSheet())

	_, err := s.ResolveAction(combat.Action{Kind: combat.ActionMove, ActorID: a.ID})
	assert.Error(t, err)
}

func TestSession_AdvanceRotatesAndIncrementsRound(t *testing.T) {
	s, _, a, b := startDuel(t, attackerSheet(), targetSheet())

	next, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, b.ID, next.ID)
	assert.Equal(t, 1, s.Round())

	next, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, a.ID, next.ID)
	assert.Equal(t, 2, s.Round(), "wrapping the order starts a new round")
}

func TestSession_AdvanceResetsActionEconomy(t *testing.T) {
	s, roller, a, b := startDuel(t, attackerSheet(), targetSheet())

	roller.SetRolls([]int{15, 6})
	_, err := s.ResolveAction(combat.Action{Kind: combat.ActionAttack, ActorID: a.ID, TargetID: b.ID, Weapon: longsword()})
	require.NoError(t, err)
	assert.True(t, a.Economy.StandardUsed)

	_, err = s.Advance()
	require.NoError(t, err)
	_, err = s.Advance()
	require.NoError(t, err)

	assert.False(t, a.Economy.StandardUsed, "economy resets when the turn comes back around")
}

func TestSession_RoundBoundaryConditionDecay(t *testing.T) {
	s, _, _, b := startDuel(t, attackerSheet(), targetSheet())

	one := 1
	b.AddCondition(mustGetCondition(t, s, "shaken"), &one, "spell")

	// still present while round 1 plays out
	_, err := s.Advance()
	require.NoError(t, err)
	assert.True(t, b.HasCondition("shaken"))

	// the advance that completes the round decays it away
	_, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Round())
	assert.False(t, b.HasCondition("shaken"))
}

func TestSession_AdvanceSkipsDeadCombatants(t *testing.T) {
	roller := dice.NewMockRoller()
	s, err := combat.NewSession(&combat.SessionConfig{
		Roller:        roller,
		Logger:        zaptest.NewLogger(t),
		UUIDGenerator: uuid.NewSequentialGenerator("c"),
	})
	require.NoError(t, err)

	addCombatant(t, s, baseSheet("A", "heroes"))
	b := addCombatant(t, s, baseSheet("B", "heroes"))
	c := addCombatant(t, s, baseSheet("C", "villains"))

	roller.SetRolls([]int{20, 15, 10}) // order: A, B, C
	require.NoError(t, s.Start())

	// B dies mid-round
	b.TakeDamage(100)
	b.AddCondition(mustGetCondition(t, s, "dead"), nil, "test")

	next, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, c.ID, next.ID, "dead combatants never receive a turn")
}

func TestSession_VictoryDetectedWithoutAdvance(t *testing.T) {
	target := targetSheet()
	target.CurrentHP = 5
	s, roller, a, b := startDuel(t, attackerSheet(), target)

	// 15+5=20 hits AC 18; 6+3 damage drops the target to -4 and unconscious
	roller.SetRolls([]int{15, 6})
	result, err := s.ResolveAction(combat.Action{
		Kind:     combat.ActionAttack,
		ActorID:  a.ID,
		TargetID: b.ID,
		Weapon:   &combat.Weapon{Name: "longsword", DiceCount: 1, DiceSize: 8},
	})
	require.NoError(t, err)

	attack := result.(*combat.AttackResult)
	assert.True(t, attack.TargetHelpless)

	assert.Equal(t, combat.StateEnded, s.State(), "end condition checked after every action")
	outcome := s.Outcome()
	require.NotNil(t, outcome)
	assert.Equal(t, combat.OutcomeVictory, outcome.Kind)
	assert.Equal(t, "heroes", outcome.Side)
}

func TestSession_ResolveAfterEndRejected(t *testing.T) {
	target := targetSheet()
	target.CurrentHP = 1
	s, roller, a, b := startDuel(t, attackerSheet(), target)

	roller.SetRolls([]int{15, 6})
	_, err := s.ResolveAction(combat.Action{Kind: combat.ActionAttack, ActorID: a.ID, TargetID: b.ID, Weapon: longsword()})
	require.NoError(t, err)
	require.Equal(t, combat.StateEnded, s.State())

	_, err = s.ResolveAction(combat.Action{Kind: combat.ActionMove, ActorID: a.ID})
	require.Error(t, err)
	assert.True(t, errors.IsCombatEnded(err))

	_, err = s.Advance()
	require.Error(t, err)
	assert.True(t, errors.IsCombatEnded(err))
}

func TestSession_DrawWhenAllSidesFall(t *testing.T) {
	s, _, a, b := startDuel(t, attackerSheet(), targetSheet())

	dead := mustGetCondition(t, s, "dead")
	a.TakeDamage(100)
	a.AddCondition(dead, nil, "test")
	b.TakeDamage(100)
	b.AddCondition(dead, nil, "test")

	_, err := s.Advance()
	require.Error(t, err)
	assert.True(t, errors.IsCombatEnded(err))

	outcome := s.Outcome()
	require.NotNil(t, outcome)
	assert.Equal(t, combat.OutcomeDraw, outcome.Kind)
	assert.Empty(t, outcome.Side)
}

func TestSession_StatusSnapshot(t *testing.T) {
	s, roller, a, b := startDuel(t, attackerSheet(), targetSheet())

	roller.SetRolls([]int{15, 6})
	_, err := s.ResolveAction(combat.Action{Kind: combat.ActionAttack, ActorID: a.ID, TargetID: b.ID, Weapon: longsword()})
	require.NoError(t, err)

	status := s.Status()
	assert.Equal(t, s.ID, status.SessionID)
	assert.Equal(t, combat.StateActive, status.State)
	assert.Equal(t, 1, status.Round)
	assert.Equal(t, a.ID, status.CurrentID)
	assert.False(t, status.Ended)
	require.Len(t, status.Combatants, 2)

	// listed in turn order: attacker first
	assert.Equal(t, a.ID, status.Combatants[0].ID)
	assert.Equal(t, 30, status.Combatants[0].CurrentHP)
	assert.Equal(t, b.ID, status.Combatants[1].ID)
	assert.Equal(t, 21, status.Combatants[1].CurrentHP)
}

func TestSession_LogRecordsEveryAction(t *testing.T) {
	s, roller, a, b := startDuel(t, attackerSheet(), targetSheet())

	roller.SetRolls([]int{15, 6})
	_, err := s.ResolveAction(combat.Action{Kind: combat.ActionAttack, ActorID: a.ID, TargetID: b.ID, Weapon: longsword()})
	require.NoError(t, err)
	_, err = s.ResolveAction(combat.Action{Kind: combat.ActionMove, ActorID: a.ID})
	require.NoError(t, err)

	log := s.Log()
	require.Len(t, log, 2)

	assert.Equal(t, 1, log[0].Seq)
	assert.Equal(t, 1, log[0].Round)
	assert.Equal(t, a.ID, log[0].ActorID)
	assert.Equal(t, b.ID, log[0].TargetID)
	require.NotNil(t, log[0].Attack)
	assert.True(t, log[0].Attack.Hit)

	assert.Equal(t, 2, log[1].Seq)
	assert.Equal(t, combat.ActionMove, log[1].Action.Kind)
	require.NotNil(t, log[1].Simple)
}

func TestSession_DefaultConfig(t *testing.T) {
	s, err := combat.NewSession(nil)
	require.NoError(t, err)
	assert.Equal(t, combat.StateSetup, s.State())
	assert.NotEmpty(t, s.ID)
	assert.NotNil(t, s.Registry())
}

package combat

import (
	"go.uber.org/zap"

	"github.com/thornwatch/d20combat/internal/condition"
	"github.com/thornwatch/d20combat/internal/dice"
	"github.com/thornwatch/d20combat/internal/errors"
	"github.com/thornwatch/d20combat/internal/rules"
)

// ResolveAction resolves one combatant action against the session state.
// An action either fully resolves, mutating HP and conditions and spending
// the action slot, or is rejected with a typed error and no mutation at all.
func (s *Session) ResolveAction(action Action) (Result, error) {
	switch s.state {
	case StateEnded:
		return nil, errors.CombatEnded("combat has already ended")
	case StateSetup:
		return nil, errors.Validation("combat has not started")
	}

	actor, ok := s.combatants[action.ActorID]
	if !ok {
		return nil, errors.NotFoundf("actor %q not found in session", action.ActorID)
	}
	// Saving throws are reactions to incoming effects, not turn actions:
	// a stunned or unconscious combatant still rolls them.
	if action.Kind != ActionSave && !actor.CanAct() {
		return nil, errors.ActionNotAllowedf("%s cannot act", actor.Name)
	}

	if slot := action.slot(); slot != "" {
		spent, err := actor.Economy.Spent(slot)
		if err != nil {
			return nil, err
		}
		if spent {
			return nil, errors.ActionUsedf("%s has already used the %s action this turn", actor.Name, slot)
		}
	}

	var result Result
	var err error
	switch action.Kind {
	case ActionAttack:
		result, err = s.resolveAttack(actor, action)
	case ActionSave:
		result, err = s.resolveSave(actor, action)
	case ActionMove, ActionDefend, ActionCast:
		result = &SimpleResult{Kind: action.Kind, Slot: action.slot()}
	default:
		return nil, errors.InvalidArgumentf("unknown action kind %q", action.Kind)
	}
	if err != nil {
		return nil, err
	}

	if slot := action.slot(); slot != "" {
		if err := actor.Economy.Spend(slot); err != nil {
			return nil, err
		}
	}

	s.record(action, result)
	s.checkEnd()

	return result, nil
}

// resolveAttack runs the full attack sequence: attack roll, threat
// confirmation, damage, and target HP/condition transitions. All dice are
// rolled before any state mutation.
func (s *Session) resolveAttack(actor *Combatant, action Action) (*AttackResult, error) {
	target, ok := s.combatants[action.TargetID]
	if !ok {
		return nil, errors.NotFoundf("target %q not found in session", action.TargetID)
	}

	weapon := unarmed
	if action.Weapon != nil {
		weapon = *action.Weapon
	}

	condDelta := actor.ConditionDelta(condition.AxisAttack) +
		actor.ConditionDelta(condition.AxisAllRolls)

	bonus := rules.AttackBonus(rules.AttackBonusParams{
		BaseAttack:     actor.BaseAttack,
		StrengthMod:    actor.StrMod(),
		DexterityMod:   actor.DexMod(),
		Ranged:         weapon.Ranged,
		Enhancement:    weapon.Enhancement,
		SizeMod:        actor.Size.AttackACMod(),
		ConditionDelta: condDelta,
		Situational:    action.BonusDelta,
	})

	targetAC := target.ArmorClass()
	if weapon.Touch {
		targetAC = target.TouchAC()
	}

	attackRoll, err := dice.D20(s.roller, 0)
	if err != nil {
		return nil, errors.Wrap(err, "attack roll failed")
	}
	natural := attackRoll.Natural()

	result := &AttackResult{
		Roll:     natural,
		Bonus:    bonus,
		Total:    natural + bonus,
		TargetAC: targetAC,
		Touch:    weapon.Touch,
	}

	// Natural 1 always misses; natural 20 always hits and always threatens.
	switch {
	case natural == 1:
		result.Fumble = true
	case natural == 20:
		result.Hit = true
	default:
		result.Hit = result.Total >= targetAC
	}

	if result.Hit && natural >= weapon.threatFloor() {
		result.Threat = true
		confirmRoll, err := dice.D20(s.roller, 0)
		if err != nil {
			return nil, errors.Wrap(err, "confirmation roll failed")
		}
		confirmNatural := confirmRoll.Natural()
		result.ConfirmRoll = confirmNatural
		result.ConfirmTotal = confirmNatural + bonus

		// The confirmation is an ordinary attack roll against the same AC,
		// with the same natural 1/20 overrides.
		switch {
		case confirmNatural == 1:
		case confirmNatural == 20:
			result.CritConfirmed = true
		default:
			result.CritConfirmed = result.ConfirmTotal >= targetAC
		}
	}

	if result.Hit {
		damage, err := s.rollDamage(actor, weapon, action.DamageDelta, result.CritConfirmed, target.DamageReduction)
		if err != nil {
			return nil, err
		}
		result.Damage = damage

		s.applyDamage(target, damage.Total, actor.Name)
		result.TargetHP = target.CurrentHP
		result.TargetDead = target.IsDead()
		result.TargetHelpless = target.HasFlag(condition.FlagHelpless)
	} else {
		result.TargetHP = target.CurrentHP
	}

	return result, nil
}

// rollDamage computes hit damage: weapon dice plus ability scaling plus
// modifiers, multiplied on a confirmed critical, then reduced by DR and
// floored at zero.
func (s *Session) rollDamage(actor *Combatant, weapon Weapon, delta int, critical bool, reduction int) (*DamageResult, error) {
	count, size := weapon.dice()
	roll, err := s.roller.Roll(count, size, 0)
	if err != nil {
		return nil, errors.Wrap(err, "damage roll failed")
	}

	base := roll.RawTotal + damageAbilityMod(actor, weapon) + weapon.Enhancement + delta
	if base < 0 {
		base = 0
	}

	multiplier := 1
	if critical {
		multiplier = weapon.multiplier()
	}

	total := base*multiplier - reduction
	if total < 0 {
		total = 0
	}

	return &DamageResult{
		Rolls:      roll.Rolls,
		Base:       base,
		Multiplier: multiplier,
		Reduction:  reduction,
		Total:      total,
		Type:       weapon.DamageType,
	}, nil
}

// damageAbilityMod returns the ability contribution to damage: strength
// for melee (1.5x two-handed, 0.5x off-hand, both floored), dexterity for
// composite ranged weapons, nothing for other ranged weapons.
func damageAbilityMod(actor *Combatant, weapon Weapon) int {
	if weapon.Ranged {
		if weapon.Composite {
			return actor.DexMod()
		}
		return 0
	}

	strMod := actor.StrMod()
	switch {
	case weapon.TwoHanded:
		return floorDiv(strMod*3, 2)
	case weapon.OffHand:
		return floorDiv(strMod, 2)
	default:
		return strMod
	}
}

// applyDamage mutates the target's HP and applies the death-threshold
// condition transitions.
func (s *Session) applyDamage(target *Combatant, amount int, source string) {
	if amount <= 0 {
		return
	}

	hp := target.TakeDamage(amount)

	switch {
	case hp <= target.DeathThreshold:
		if def, err := s.registry.Get("dead"); err == nil {
			target.RemoveCondition("unconscious")
			target.AddCondition(def, nil, source)
		}
	case hp <= 0:
		if def, err := s.registry.Get("unconscious"); err == nil {
			target.AddCondition(def, nil, source)
		}
	}

	s.logger.Debug("damage applied",
		zap.String("session_id", s.ID),
		zap.String("target", target.Name),
		zap.Int("amount", amount),
		zap.Int("hp", hp))
}

// resolveSave rolls one saving throw against the supplied DC. The engine
// reports success or failure; applying consequences stays with the caller,
// keeping spell content out of the engine.
func (s *Session) resolveSave(actor *Combatant, action Action) (*SaveResult, error) {
	if action.Save == nil {
		return nil, errors.InvalidArgument("save action requires save parameters")
	}

	saveType := action.Save.Type
	condDelta := actor.ConditionDelta(condition.SaveAxis(string(saveType))) +
		actor.ConditionDelta(condition.AxisAllRolls)

	bonus, err := rules.SaveBonus(saveType, actor.progression(saveType), actor.Level, actor.Abilities, condDelta)
	if err != nil {
		return nil, err
	}

	roll, err := dice.D20(s.roller, 0)
	if err != nil {
		return nil, errors.Wrap(err, "save roll failed")
	}
	natural := roll.Natural()

	result := &SaveResult{
		Roll:     natural,
		Bonus:    bonus,
		Total:    natural + bonus,
		DC:       action.Save.DC,
		SaveType: string(saveType),
	}

	numeric := result.Total >= result.DC
	switch natural {
	case 20:
		result.Success = true
		result.Override = !numeric
	case 1:
		result.Success = false
		result.Override = numeric
	default:
		result.Success = numeric
	}

	return result, nil
}

// record appends a log entry for a resolved action.
func (s *Session) record(action Action, result Result) {
	entry := LogEntry{
		Seq:      len(s.log) + 1,
		Round:    s.round,
		Turn:     s.turn,
		ActorID:  action.ActorID,
		TargetID: action.TargetID,
		Action:   action,
	}

	switch r := result.(type) {
	case *AttackResult:
		entry.Attack = r
	case *SaveResult:
		entry.Save = r
	case *SimpleResult:
		entry.Simple = r
	}

	s.log = append(s.log, entry)

	s.logger.Info("action resolved",
		zap.String("session_id", s.ID),
		zap.Int("round", s.round),
		zap.String("actor", action.ActorID),
		zap.String("kind", string(action.Kind)))
}

// floorDiv divides a by b (b > 0) rounding toward negative infinity, so
// strength penalties scale the same direction as bonuses.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Package combat implements the combat resolution engine: combatants,
// initiative, action resolution, and the encounter session state machine.
package combat

import (
	"github.com/thornwatch/d20combat/internal/condition"
	"github.com/thornwatch/d20combat/internal/errors"
	"github.com/thornwatch/d20combat/internal/rules"
)

// defaultDeathThreshold is the HP floor below which a combatant dies when
// the stat snapshot does not carry a constitution-derived override.
const defaultDeathThreshold = -10

// SaveProgressions carries the class progression for each save type.
type SaveProgressions struct {
	Fortitude rules.Progression `json:"fortitude" yaml:"fortitude"`
	Reflex    rules.Progression `json:"reflex" yaml:"reflex"`
	Will      rules.Progression `json:"will" yaml:"will"`
}

// StatSheet is the read-only combatant snapshot supplied by the character
// collaborator. The engine copies it and never writes back; final HP and
// condition changes are reported through the session log and status.
type StatSheet struct {
	Name            string              `yaml:"name"`
	Side            string              `yaml:"side"`
	Level           int                 `yaml:"level"`
	Abilities       rules.AbilityScores `yaml:"abilities"`
	MaxHP           int                 `yaml:"max_hp"`
	CurrentHP       int                 `yaml:"current_hp"` // 0 means start at MaxHP
	BaseAttack      int                 `yaml:"base_attack"`
	Size            rules.Size          `yaml:"-"`
	SizeName        string              `yaml:"size"` // optional, overrides Size when set
	AC              rules.ACBreakdown   `yaml:"ac"`
	Saves           SaveProgressions    `yaml:"saves"`
	DamageReduction int                 `yaml:"damage_reduction"`
	DeathThreshold  int                 `yaml:"death_threshold"` // 0 means default (-10)
	InitiativeBonus int                 `yaml:"initiative_bonus"` // precomputed feat/equipment bonus
}

// ActionEconomy tracks the per-turn action slots. Spent flags reset at the
// start of the combatant's turn.
type ActionEconomy struct {
	MoveUsed     bool `json:"move_used"`
	StandardUsed bool `json:"standard_used"`
	SwiftUsed    bool `json:"swift_used"`
	ReactionUsed bool `json:"reaction_used"`
}

// Slot names one action-economy slot.
type Slot string

const (
	SlotMove     Slot = "move"
	SlotStandard Slot = "standard"
	SlotSwift    Slot = "swift"
	SlotReaction Slot = "reaction"
)

// Reset clears all spent flags.
func (e *ActionEconomy) Reset() {
	*e = ActionEconomy{}
}

// Spent reports whether the slot has been used this turn.
func (e *ActionEconomy) Spent(slot Slot) (bool, error) {
	switch slot {
	case SlotMove:
		return e.MoveUsed, nil
	case SlotStandard:
		return e.StandardUsed, nil
	case SlotSwift:
		return e.SwiftUsed, nil
	case SlotReaction:
		return e.ReactionUsed, nil
	default:
		return false, errors.InvalidArgumentf("unknown action slot %q", slot)
	}
}

// Spend marks the slot used. The caller must have checked Spent first; a
// double spend is an error so actions never silently overdraw the turn.
func (e *ActionEconomy) Spend(slot Slot) error {
	spent, err := e.Spent(slot)
	if err != nil {
		return err
	}
	if spent {
		return errors.ActionUsedf("%s action already used this turn", slot)
	}
	switch slot {
	case SlotMove:
		e.MoveUsed = true
	case SlotStandard:
		e.StandardUsed = true
	case SlotSwift:
		e.SwiftUsed = true
	case SlotReaction:
		e.ReactionUsed = true
	}
	return nil
}

// Combatant is one mutable participant in an encounter. It lives for the
// session's lifetime and is owned exclusively by that session.
type Combatant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Side string `json:"side"`

	Level      int                 `json:"level"`
	Abilities  rules.AbilityScores `json:"abilities"`
	CurrentHP  int                 `json:"current_hp"`
	MaxHP      int                 `json:"max_hp"`
	TempHP     int                 `json:"temp_hp"`
	BaseAttack int                 `json:"base_attack"`
	Size       rules.Size          `json:"size"`
	AC         rules.ACBreakdown   `json:"ac"`
	Saves      SaveProgressions    `json:"saves"`

	DamageReduction int `json:"damage_reduction"`
	DeathThreshold  int `json:"death_threshold"`
	InitiativeBonus int `json:"initiative_bonus"`

	Conditions []*condition.Active `json:"conditions"`
	Economy    ActionEconomy       `json:"economy"`
}

// newCombatant copies a stat sheet into a session-owned combatant.
func newCombatant(id string, sheet StatSheet) (*Combatant, error) {
	if sheet.Name == "" {
		return nil, errors.Validation("combatant name is required")
	}
	if sheet.Side == "" {
		return nil, errors.Validation("combatant side is required")
	}
	if sheet.MaxHP <= 0 {
		return nil, errors.Validationf("combatant %q must have positive max HP", sheet.Name)
	}

	size := sheet.Size
	if sheet.SizeName != "" {
		parsed, ok := rules.ParseSize(sheet.SizeName)
		if !ok {
			return nil, errors.Validationf("combatant %q has unknown size %q", sheet.Name, sheet.SizeName)
		}
		size = parsed
	}

	currentHP := sheet.CurrentHP
	if currentHP == 0 {
		currentHP = sheet.MaxHP
	}

	threshold := sheet.DeathThreshold
	if threshold == 0 {
		threshold = defaultDeathThreshold
	}

	return &Combatant{
		ID:              id,
		Name:            sheet.Name,
		Side:            sheet.Side,
		Level:           sheet.Level,
		Abilities:       sheet.Abilities,
		CurrentHP:       currentHP,
		MaxHP:           sheet.MaxHP,
		BaseAttack:      sheet.BaseAttack,
		Size:            size,
		AC:              sheet.AC,
		Saves:           sheet.Saves,
		DamageReduction: sheet.DamageReduction,
		DeathThreshold:  threshold,
		InitiativeBonus: sheet.InitiativeBonus,
	}, nil
}

// StrMod returns the strength modifier.
func (c *Combatant) StrMod() int { return rules.Modifier(c.Abilities.Strength) }

// DexMod returns the dexterity modifier.
func (c *Combatant) DexMod() int { return rules.Modifier(c.Abilities.Dexterity) }

// ConditionDelta sums the active-condition modifier for an axis.
func (c *Combatant) ConditionDelta(axis string) int {
	return condition.EffectiveDelta(c.Conditions, axis)
}

// HasFlag reports whether any active condition sets the flag.
func (c *Combatant) HasFlag(flag condition.Flag) bool {
	return condition.HasFlag(c.Conditions, flag)
}

// losesDex reports whether the combatant is denied its dexterity bonus to AC.
func (c *Combatant) losesDex() bool {
	return c.HasFlag(condition.FlagLosesDexToAC)
}

// ArmorClass returns the effective full armor class, including condition
// deltas and the loses-dexterity rule. Not clamped; negative AC is legal.
func (c *Combatant) ArmorClass() int {
	base := c.AC.Total()
	if c.losesDex() {
		base = c.AC.FlatFooted()
	}
	return base + c.ConditionDelta(condition.AxisAC)
}

// TouchAC returns the effective armor class against touch attacks.
func (c *Combatant) TouchAC() int {
	base := c.AC.Touch()
	if c.losesDex() && c.AC.Dexterity > 0 {
		base -= c.AC.Dexterity
	}
	return base + c.ConditionDelta(condition.AxisAC)
}

// FlatFootedAC returns the armor class with any positive dexterity bonus
// removed, plus condition deltas.
func (c *Combatant) FlatFootedAC() int {
	return c.AC.FlatFooted() + c.ConditionDelta(condition.AxisAC)
}

// progression returns the class save progression for a save type.
func (c *Combatant) progression(s rules.SaveType) rules.Progression {
	var p rules.Progression
	switch s {
	case rules.SaveFortitude:
		p = c.Saves.Fortitude
	case rules.SaveReflex:
		p = c.Saves.Reflex
	case rules.SaveWill:
		p = c.Saves.Will
	}
	if p == "" {
		p = rules.ProgressionPoor
	}
	return p
}

// TakeDamage reduces hit points by amount, absorbing temporary HP first.
// Precondition handled by callers: amount >= 0. Returns the HP after.
func (c *Combatant) TakeDamage(amount int) int {
	if c.TempHP > 0 {
		if amount <= c.TempHP {
			c.TempHP -= amount
			return c.CurrentHP
		}
		amount -= c.TempHP
		c.TempHP = 0
	}
	c.CurrentHP -= amount
	return c.CurrentHP
}

// Heal restores hit points up to the maximum.
func (c *Combatant) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.CurrentHP += amount
	if c.CurrentHP > c.MaxHP {
		c.CurrentHP = c.MaxHP
	}
}

// AddTempHP grants temporary hit points. Temp HP doesn't stack; the higher
// value wins.
func (c *Combatant) AddTempHP(amount int) {
	if amount > c.TempHP {
		c.TempHP = amount
	}
}

// HasCondition reports whether a condition with the given name is active.
func (c *Combatant) HasCondition(name string) bool {
	for _, a := range c.Conditions {
		if a.Name == name {
			return true
		}
	}
	return false
}

// AddCondition attaches a condition instance. Re-applying an active
// condition refreshes its duration to the longer of the two rather than
// stacking a duplicate instance.
func (c *Combatant) AddCondition(def *condition.Definition, rounds *int, source string) {
	for _, a := range c.Conditions {
		if a.Name != def.Name {
			continue
		}
		if rounds == nil {
			a.Remaining = nil
		} else if a.Remaining != nil && *rounds > *a.Remaining {
			remaining := *rounds
			a.Remaining = &remaining
		}
		return
	}

	var remaining *int
	if rounds != nil {
		r := *rounds
		remaining = &r
	}
	c.Conditions = append(c.Conditions, &condition.Active{
		Def:       def,
		Name:      def.Name,
		Remaining: remaining,
		Source:    source,
	})
}

// RemoveCondition detaches all instances with the given name.
func (c *Combatant) RemoveCondition(name string) {
	kept := c.Conditions[:0]
	for _, a := range c.Conditions {
		if a.Name != name {
			kept = append(kept, a)
		}
	}
	c.Conditions = kept
}

// TickConditions applies round-boundary decay: every instance with a
// non-nil remaining duration is decremented and removed at zero.
// Indefinite instances (for example "dead") never decay.
// Returns the names of the conditions that expired.
func (c *Combatant) TickConditions() []string {
	var expired []string
	kept := c.Conditions[:0]
	for _, a := range c.Conditions {
		if a.Remaining == nil {
			kept = append(kept, a)
			continue
		}
		*a.Remaining--
		if *a.Remaining <= 0 {
			expired = append(expired, a.Name)
			continue
		}
		kept = append(kept, a)
	}
	c.Conditions = kept
	return expired
}

// ConditionNames returns the names of all active conditions, in order.
func (c *Combatant) ConditionNames() []string {
	names := make([]string, 0, len(c.Conditions))
	for _, a := range c.Conditions {
		names = append(names, a.Name)
	}
	return names
}

// IsDead reports whether the combatant has passed the death threshold.
func (c *Combatant) IsDead() bool {
	return c.CurrentHP <= c.DeathThreshold || c.HasCondition("dead")
}

// IsDefeated reports whether the combatant no longer counts for its side:
// dead, or at zero-or-fewer HP and helpless.
func (c *Combatant) IsDefeated() bool {
	if c.IsDead() {
		return true
	}
	return c.CurrentHP <= 0 && c.HasFlag(condition.FlagHelpless)
}

// CanAct reports whether the combatant may take actions at all.
func (c *Combatant) CanAct() bool {
	return !c.IsDead() && !c.HasFlag(condition.FlagCannotAct)
}

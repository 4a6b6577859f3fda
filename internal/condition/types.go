// Package condition holds the immutable status-condition rule table and the
// active-instance bookkeeping that combat resolution reads from.
package condition

// Flag is a behavioral capability switch a condition can set.
type Flag string

const (
	FlagLosesDexToAC Flag = "loses-dex-to-ac"
	FlagCannotAct    Flag = "cannot-act"
	FlagHelpless     Flag = "helpless"
	FlagMustFlee     Flag = "must-flee"
)

// Modifier axes understood by EffectiveDelta. Save axes are built with
// SaveAxis so the key set stays closed.
const (
	AxisAttack   = "attack"
	AxisAC       = "ac"
	AxisAllRolls = "all-rolls"
)

// SaveAxis returns the delta axis key for a save type name
// ("fortitude", "reflex", "will").
func SaveAxis(saveType string) string {
	return "save:" + saveType
}

// Effects is the structured effect descriptor for one condition.
// Numeric modifiers stack additively across instances; flags OR-combine.
type Effects struct {
	Attack       int            `yaml:"attack"`
	AC           int            `yaml:"ac"`
	AllRolls     int            `yaml:"all_rolls"`
	Saves        map[string]int `yaml:"saves"` // keyed by save type name
	MoveMultiply *float64       `yaml:"move_multiply"`
	LosesDexToAC bool           `yaml:"loses_dex_to_ac"`
	CannotAct    bool           `yaml:"cannot_act"`
	Helpless     bool           `yaml:"helpless"`
	MustFlee     bool           `yaml:"must_flee"`
}

// Definition is one immutable condition registry entry.
type Definition struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Effects     Effects `yaml:"effects"`
}

// HasFlag reports whether this definition sets the given flag.
func (d *Definition) HasFlag(flag Flag) bool {
	switch flag {
	case FlagLosesDexToAC:
		return d.Effects.LosesDexToAC
	case FlagCannotAct:
		return d.Effects.CannotAct
	case FlagHelpless:
		return d.Effects.Helpless
	case FlagMustFlee:
		return d.Effects.MustFlee
	default:
		return false
	}
}

// Active is one condition instance on a combatant: a registry entry plus
// remaining duration in rounds. A nil Remaining never decays and is only
// removed explicitly.
type Active struct {
	Def       *Definition `json:"-"`
	Name      string      `json:"name"`
	Remaining *int        `json:"remaining,omitempty"`
	Source    string      `json:"source,omitempty"`
}

// EffectiveDelta sums the numeric modifier for the requested axis across
// all active instances.
func EffectiveDelta(active []*Active, axis string) int {
	total := 0
	for _, a := range active {
		if a.Def == nil {
			continue
		}
		switch axis {
		case AxisAttack:
			total += a.Def.Effects.Attack
		case AxisAC:
			total += a.Def.Effects.AC
		case AxisAllRolls:
			total += a.Def.Effects.AllRolls
		default:
			if len(axis) > 5 && axis[:5] == "save:" {
				total += a.Def.Effects.Saves[axis[5:]]
			}
		}
	}
	return total
}

// HasFlag reports whether any active instance sets the flag.
func HasFlag(active []*Active, flag Flag) bool {
	for _, a := range active {
		if a.Def != nil && a.Def.HasFlag(flag) {
			return true
		}
	}
	return false
}

// MoveMultiplier returns the effective movement multiplier across all
// active instances: the most restrictive (lowest) one wins, defaulting to 1.
func MoveMultiplier(active []*Active) float64 {
	mult := 1.0
	for _, a := range active {
		if a.Def == nil || a.Def.Effects.MoveMultiply == nil {
			continue
		}
		if m := *a.Def.Effects.MoveMultiply; m < mult {
			mult = m
		}
	}
	return mult
}

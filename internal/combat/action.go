package combat

import (
	"github.com/thornwatch/d20combat/internal/rules"
)

// Kind is the closed set of action kinds the resolver understands.
type Kind string

const (
	ActionAttack Kind = "attack"
	ActionSave   Kind = "save"
	ActionMove   Kind = "move"
	ActionDefend Kind = "defend"
	ActionCast   Kind = "cast"
)

// Weapon is the attack descriptor supplied by the equipment collaborator.
// Zero values mean: 20 threat floor, x2 critical, unarmed 1d3.
type Weapon struct {
	Name           string `yaml:"name"`
	DiceCount      int    `yaml:"dice_count"`
	DiceSize       int    `yaml:"dice_size"`
	CritThreat     int    `yaml:"crit_threat"`     // lowest natural roll that threatens
	CritMultiplier int    `yaml:"crit_multiplier"` // damage multiplier on confirmation
	Enhancement    int    `yaml:"enhancement"`
	Ranged         bool   `yaml:"ranged"`
	Composite      bool   `yaml:"composite"` // ranged weapon that adds the dexterity modifier to damage
	TwoHanded      bool   `yaml:"two_handed"`
	OffHand        bool   `yaml:"off_hand"`
	Touch          bool   `yaml:"touch"` // resolves against touch AC
	DamageType     string `yaml:"damage_type"`
}

// unarmed is the fallback weapon when an attack carries no descriptor.
var unarmed = Weapon{Name: "unarmed", DiceCount: 1, DiceSize: 3, DamageType: "bludgeoning"}

func (w Weapon) threatFloor() int {
	if w.CritThreat == 0 {
		return 20
	}
	return w.CritThreat
}

func (w Weapon) multiplier() int {
	if w.CritMultiplier == 0 {
		return 2
	}
	return w.CritMultiplier
}

func (w Weapon) dice() (count, size int) {
	if w.DiceCount == 0 || w.DiceSize == 0 {
		return unarmed.DiceCount, unarmed.DiceSize
	}
	return w.DiceCount, w.DiceSize
}

// SaveCheck parameterizes a saving-throw action: the save axis and the
// difficulty class supplied by the spell/effect collaborator.
type SaveCheck struct {
	Type rules.SaveType `yaml:"type"`
	DC   int            `yaml:"dc"`
}

// Action is one submitted combatant action. It is transient input to
// ResolveAction and is recorded verbatim in the session log.
type Action struct {
	Kind     Kind   `json:"kind"`
	ActorID  string `json:"actor_id"`
	TargetID string `json:"target_id,omitempty"`

	// Weapon parameterizes attack actions; nil means unarmed.
	Weapon *Weapon `json:"weapon,omitempty"`

	// Save parameterizes saving-throw actions.
	Save *SaveCheck `json:"save,omitempty"`

	// Slot overrides the default action-economy slot for the kind
	// (for example a quickened cast spending the swift slot).
	Slot Slot `json:"slot,omitempty"`

	// BonusDelta is a caller-precomputed situational attack modifier
	// (flanking, charge, power attack, feats).
	BonusDelta int `json:"bonus_delta,omitempty"`

	// DamageDelta is a caller-precomputed damage modifier.
	DamageDelta int `json:"damage_delta,omitempty"`
}

// slot returns the action-economy slot this action spends, or "" for none.
func (a Action) slot() Slot {
	if a.Slot != "" {
		return a.Slot
	}
	switch a.Kind {
	case ActionAttack, ActionDefend, ActionCast:
		return SlotStandard
	case ActionMove:
		return SlotMove
	default:
		return ""
	}
}

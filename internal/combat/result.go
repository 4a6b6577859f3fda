package combat

import "fmt"

// Result is the closed set of resolution outcomes. Exactly one of
// AttackResult, SaveResult, and SimpleResult implements it.
type Result interface {
	ResultKind() Kind
}

// DamageResult reports damage computation for a hit.
type DamageResult struct {
	Rolls      []int  `json:"rolls"`      // individual damage die results
	Base       int    `json:"base"`       // dice + modifiers, before multiplier
	Multiplier int    `json:"multiplier"` // 1 unless a critical was confirmed
	Reduction  int    `json:"reduction"`  // target damage reduction applied
	Total      int    `json:"total"`      // final HP loss, never negative
	Type       string `json:"type,omitempty"`
}

// AttackResult reports one resolved attack, including the confirmation
// roll when a critical was threatened.
type AttackResult struct {
	Roll     int  `json:"roll"`  // natural d20
	Bonus    int  `json:"bonus"` // full attack bonus applied
	Total    int  `json:"total"`
	TargetAC int  `json:"target_ac"`
	Touch    bool `json:"touch,omitempty"`
	Hit      bool `json:"hit"`
	Fumble   bool `json:"fumble,omitempty"` // natural 1

	Threat        bool `json:"threat,omitempty"`
	ConfirmRoll   int  `json:"confirm_roll,omitempty"`
	ConfirmTotal  int  `json:"confirm_total,omitempty"`
	CritConfirmed bool `json:"crit_confirmed,omitempty"`

	Damage *DamageResult `json:"damage,omitempty"`

	TargetHP       int  `json:"target_hp"`
	TargetDead     bool `json:"target_dead,omitempty"`
	TargetHelpless bool `json:"target_helpless,omitempty"`
}

// ResultKind implements Result.
func (r *AttackResult) ResultKind() Kind { return ActionAttack }

func (r *AttackResult) String() string {
	outcome := "miss"
	if r.Hit {
		outcome = "hit"
		if r.CritConfirmed {
			outcome = "critical hit"
		}
	}
	return fmt.Sprintf("%s: %d+%d=%d vs AC %d", outcome, r.Roll, r.Bonus, r.Total, r.TargetAC)
}

// SaveResult reports one resolved saving throw. The engine never applies
// save-triggered consequences; the caller does.
type SaveResult struct {
	Roll     int    `json:"roll"` // natural d20
	Bonus    int    `json:"bonus"`
	Total    int    `json:"total"`
	DC       int    `json:"dc"`
	SaveType string `json:"save_type"`
	Success  bool   `json:"success"`
	// Override is set when a natural 20 or 1 overrode the numeric comparison.
	Override bool `json:"override,omitempty"`
}

// ResultKind implements Result.
func (r *SaveResult) ResultKind() Kind { return ActionSave }

func (r *SaveResult) String() string {
	outcome := "failure"
	if r.Success {
		outcome = "success"
	}
	return fmt.Sprintf("%s save %s: %d+%d=%d vs DC %d", r.SaveType, outcome, r.Roll, r.Bonus, r.Total, r.DC)
}

// SimpleResult reports actions with no resolution math (move, defend,
// cast): the slot was spent, nothing else happened inside the engine.
type SimpleResult struct {
	Kind Kind `json:"kind"`
	Slot Slot `json:"slot"`
}

// ResultKind implements Result.
func (r *SimpleResult) ResultKind() Kind { return r.Kind }

// LogEntry records one resolved action for audit and replay. Exactly one
// of Attack, Save, and Simple is set, matching the action kind.
type LogEntry struct {
	Seq      int    `json:"seq"`
	Round    int    `json:"round"`
	Turn     int    `json:"turn"`
	ActorID  string `json:"actor_id"`
	TargetID string `json:"target_id,omitempty"`
	Action   Action `json:"action"`

	Attack *AttackResult `json:"attack,omitempty"`
	Save   *SaveResult   `json:"save,omitempty"`
	Simple *SimpleResult `json:"simple,omitempty"`
}

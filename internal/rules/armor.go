package rules

// ACBreakdown is the component view of a combatant's armor class.
// The total is always derived from the components; it is never stored.
type ACBreakdown struct {
	Armor      int `json:"armor" yaml:"armor"`
	Shield     int `json:"shield" yaml:"shield"`
	Dexterity  int `json:"dexterity" yaml:"dexterity"` // already capped by equipment
	Size       int `json:"size" yaml:"size"`
	Natural    int `json:"natural" yaml:"natural"`
	Deflection int `json:"deflection" yaml:"deflection"`
	Misc       int `json:"misc" yaml:"misc"`
}

const acBase = 10

// Total returns full armor class: 10 plus every component.
// Negative totals are legal; display clamping is the caller's concern.
func (a ACBreakdown) Total() int {
	return acBase + a.Armor + a.Shield + a.Dexterity + a.Size + a.Natural + a.Deflection + a.Misc
}

// Touch returns armor class against touch attacks, which ignore armor,
// shield, and natural armor.
func (a ACBreakdown) Touch() int {
	return acBase + a.Dexterity + a.Size + a.Deflection + a.Misc
}

// FlatFooted returns armor class when the defender is denied a positive
// dexterity bonus. A dexterity penalty still applies.
func (a ACBreakdown) FlatFooted() int {
	total := a.Total()
	if a.Dexterity > 0 {
		total -= a.Dexterity
	}
	return total
}

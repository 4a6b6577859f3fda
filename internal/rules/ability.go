// Package rules holds the pure derived-stat math for the d20 ruleset.
// Everything here is stateless; combat state lives in internal/combat.
package rules

// AbilityScores holds the six raw ability scores for a combatant.
type AbilityScores struct {
	Strength     int `json:"strength" yaml:"strength"`
	Dexterity    int `json:"dexterity" yaml:"dexterity"`
	Constitution int `json:"constitution" yaml:"constitution"`
	Intelligence int `json:"intelligence" yaml:"intelligence"`
	Wisdom       int `json:"wisdom" yaml:"wisdom"`
	Charisma     int `json:"charisma" yaml:"charisma"`
}

// Modifier converts a raw ability score to its modifier: floor((score-10)/2).
// Works for scores below 10 as well: Modifier(9) == -1, Modifier(7) == -2.
func Modifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// AttackBonusParams collects the inputs to an attack bonus computation.
// Feat and circumstance bonuses arrive precomputed; feat resolution belongs
// to the character collaborator, not the engine.
type AttackBonusParams struct {
	BaseAttack     int
	StrengthMod    int
	DexterityMod   int
	Ranged         bool
	Enhancement    int
	SizeMod        int
	ConditionDelta int
	Situational    int
}

// AttackBonus computes the total bonus added to an attack roll.
// Melee attacks use Strength, ranged attacks use Dexterity.
func AttackBonus(p AttackBonusParams) int {
	abilityMod := p.StrengthMod
	if p.Ranged {
		abilityMod = p.DexterityMod
	}
	return p.BaseAttack + abilityMod + p.SizeMod + p.Enhancement + p.ConditionDelta + p.Situational
}

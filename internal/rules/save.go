package rules

import (
	"github.com/thornwatch/d20combat/internal/errors"
)

// SaveType identifies one of the three saving throw axes.
type SaveType string

const (
	SaveFortitude SaveType = "fortitude"
	SaveReflex    SaveType = "reflex"
	SaveWill      SaveType = "will"
)

// Progression is a class save progression track.
type Progression string

const (
	ProgressionGood Progression = "good"
	ProgressionPoor Progression = "poor"
)

// BaseSave returns the level-derived base save bonus for a progression.
// Good progression: 2 + level/2. Poor progression: level/3.
func BaseSave(p Progression, level int) int {
	if p == ProgressionGood {
		return 2 + level/2
	}
	return level / 3
}

// SaveAbilityMod picks the ability modifier matching a save type:
// fortitude uses Constitution, reflex Dexterity, will Wisdom.
// An unrecognized save type is a caller bug and returns an invalid
// argument error rather than a silent zero.
func SaveAbilityMod(s SaveType, scores AbilityScores) (int, error) {
	switch s {
	case SaveFortitude:
		return Modifier(scores.Constitution), nil
	case SaveReflex:
		return Modifier(scores.Dexterity), nil
	case SaveWill:
		return Modifier(scores.Wisdom), nil
	default:
		return 0, errors.InvalidArgumentf("unrecognized save type %q", s)
	}
}

// SaveBonus computes the full save bonus for one save type.
// conditionDelta should already combine the save-specific axis and the
// all-rolls axis from the condition registry.
func SaveBonus(s SaveType, p Progression, level int, scores AbilityScores, conditionDelta int) (int, error) {
	abilityMod, err := SaveAbilityMod(s, scores)
	if err != nil {
		return 0, err
	}
	return BaseSave(p, level) + abilityMod + conditionDelta, nil
}

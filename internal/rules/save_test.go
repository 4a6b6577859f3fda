package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thornwatch/d20combat/internal/errors"
	"github.com/thornwatch/d20combat/internal/rules"
)

func TestBaseSave(t *testing.T) {
	tests := []struct {
		prog  rules.Progression
		level int
		want  int
	}{
		{rules.ProgressionGood, 1, 2},
		{rules.ProgressionGood, 5, 4},
		{rules.ProgressionGood, 20, 12},
		{rules.ProgressionPoor, 1, 0},
		{rules.ProgressionPoor, 5, 1},
		{rules.ProgressionPoor, 20, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rules.BaseSave(tt.prog, tt.level), "%s level %d", tt.prog, tt.level)
	}
}

func TestSaveBonus(t *testing.T) {
	scores := rules.AbilityScores{
		Strength:     10,
		Dexterity:    16, // +3
		Constitution: 14, // +2
		Wisdom:       8,  // -1
	}

	tests := []struct {
		name  string
		save  rules.SaveType
		prog  rules.Progression
		level int
		delta int
		want  int
	}{
		{name: "fortitude uses con", save: rules.SaveFortitude, prog: rules.ProgressionGood, level: 4, want: 6},
		{name: "reflex uses dex", save: rules.SaveReflex, prog: rules.ProgressionPoor, level: 4, want: 4},
		{name: "will uses wis", save: rules.SaveWill, prog: rules.ProgressionPoor, level: 4, want: 0},
		{name: "condition delta applies", save: rules.SaveFortitude, prog: rules.ProgressionGood, level: 4, delta: -2, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rules.SaveBonus(tt.save, tt.prog, tt.level, scores, tt.delta)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveBonus_UnknownType(t *testing.T) {
	_, err := rules.SaveBonus("luck", rules.ProgressionGood, 4, rules.AbilityScores{}, 0)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thornwatch/d20combat/internal/condition"
	"github.com/thornwatch/d20combat/internal/errors"
)

func newRegistry(t *testing.T) *condition.Registry {
	t.Helper()
	reg, err := condition.NewRegistry()
	require.NoError(t, err)
	return reg
}

func active(t *testing.T, reg *condition.Registry, names ...string) []*condition.Active {
	t.Helper()
	out := make([]*condition.Active, 0, len(names))
	for _, name := range names {
		def, err := reg.Get(name)
		require.NoError(t, err)
		out = append(out, &condition.Active{Def: def, Name: name})
	}
	return out
}

func TestNewRegistry_StandardTable(t *testing.T) {
	reg := newRegistry(t)

	for _, name := range []string{"blinded", "dead", "prone", "shaken", "stunned", "unconscious"} {
		def, err := reg.Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, def.Name)
		assert.NotEmpty(t, def.Description)
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	reg := newRegistry(t)

	_, err := reg.Get("confused")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestNewRegistryFromYAML_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty table", yaml: "conditions: []"},
		{name: "missing name", yaml: "conditions:\n  - description: no name\n"},
		{name: "duplicate name", yaml: "conditions:\n  - name: dazed\n  - name: dazed\n"},
		{name: "malformed yaml", yaml: "conditions: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := condition.NewRegistryFromYAML([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestEffectiveDelta_StacksAdditively(t *testing.T) {
	reg := newRegistry(t)

	// prone: attack -4, ac -4; fatigued: attack -1, ac -1
	conds := active(t, reg, "prone", "fatigued")

	assert.Equal(t, -5, condition.EffectiveDelta(conds, condition.AxisAttack))
	assert.Equal(t, -5, condition.EffectiveDelta(conds, condition.AxisAC))
	assert.Equal(t, 0, condition.EffectiveDelta(conds, condition.AxisAllRolls))
}

func TestEffectiveDelta_AllRollsAxis(t *testing.T) {
	reg := newRegistry(t)

	// shaken and sickened each apply -2 on every d20 roll
	conds := active(t, reg, "shaken", "sickened")

	assert.Equal(t, -4, condition.EffectiveDelta(conds, condition.AxisAllRolls))
	assert.Equal(t, 0, condition.EffectiveDelta(conds, condition.AxisAttack))
}

func TestEffectiveDelta_SaveAxis(t *testing.T) {
	custom := `
conditions:
  - name: doomed
    effects:
      saves:
        will: -4
`
	reg, err := condition.NewRegistryFromYAML([]byte(custom))
	require.NoError(t, err)

	def, err := reg.Get("doomed")
	require.NoError(t, err)
	conds := []*condition.Active{{Def: def, Name: "doomed"}}

	assert.Equal(t, -4, condition.EffectiveDelta(conds, condition.SaveAxis("will")))
	assert.Equal(t, 0, condition.EffectiveDelta(conds, condition.SaveAxis("reflex")))
}

func TestHasFlag_ORCombined(t *testing.T) {
	reg := newRegistry(t)

	conds := active(t, reg, "shaken", "stunned")

	assert.True(t, condition.HasFlag(conds, condition.FlagCannotAct))
	assert.True(t, condition.HasFlag(conds, condition.FlagLosesDexToAC))
	assert.False(t, condition.HasFlag(conds, condition.FlagHelpless))
	assert.False(t, condition.HasFlag(conds, condition.FlagMustFlee))
}

func TestMoveMultiplier_MostRestrictiveWins(t *testing.T) {
	reg := newRegistry(t)

	assert.Equal(t, 1.0, condition.MoveMultiplier(active(t, reg, "shaken")))
	assert.Equal(t, 0.5, condition.MoveMultiplier(active(t, reg, "entangled")))
	assert.Equal(t, 0.0, condition.MoveMultiplier(active(t, reg, "entangled", "paralyzed")))
}

package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thornwatch/d20combat/internal/combat"
	"github.com/thornwatch/d20combat/internal/errors"
)

// Scenario is a scripted encounter: the participants and what they swing.
type Scenario struct {
	Name       string              `yaml:"name"`
	Combatants []ScenarioCombatant `yaml:"combatants"`
}

// ScenarioCombatant pairs a stat sheet with the weapon the combatant uses
// for every attack in the simulation.
type ScenarioCombatant struct {
	combat.StatSheet `yaml:",inline"`
	Weapon           *combat.Weapon `yaml:"weapon"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scenario %s", path)
	}

	var scn Scenario
	if err := yaml.Unmarshal(data, &scn); err != nil {
		return nil, errors.Wrapf(err, "failed to parse scenario %s", path)
	}

	if len(scn.Combatants) < 2 {
		return nil, errors.Validation("scenario needs at least two combatants")
	}

	sides := make(map[string]bool)
	for _, c := range scn.Combatants {
		sides[c.Side] = true
	}
	if len(sides) < 2 {
		return nil, errors.Validation("scenario needs at least two sides")
	}

	return &scn, nil
}

package automaton

import (
	"fmt"
	"sort"

	"polemos/internal/model"
)

// Classic strategies expressed as fixed transition tables. Each constructor
// returns a fresh value at its initial state.

func AllDefect() model.Automaton {
	return model.Automaton{
		States: [2]model.State{
			{Action: model.Defect, OnCooperate: 1, OnDefect: 1},
			{Action: model.Defect, OnCooperate: 1, OnDefect: 1},
		},
		Initial: 1,
		Current: 1,
	}
}

func AllCooperate() model.Automaton {
	return model.Automaton{
		States: [2]model.State{
			{Action: model.Cooperate, OnCooperate: 0, OnDefect: 0},
			{Action: model.Cooperate, OnCooperate: 0, OnDefect: 0},
		},
		Initial: 0,
		Current: 0,
	}
}

// TitForTat cooperates first, then mirrors the opponent's last action.
func TitForTat() model.Automaton {
	return model.Automaton{
		States: [2]model.State{
			{Action: model.Cooperate, OnCooperate: 0, OnDefect: 1},
			{Action: model.Defect, OnCooperate: 0, OnDefect: 1},
		},
		Initial: 0,
		Current: 0,
	}
}

// GrimTrigger cooperates until the first defection, then defects forever.
func GrimTrigger() model.Automaton {
	return model.Automaton{
		States: [2]model.State{
			{Action: model.Cooperate, OnCooperate: 0, OnDefect: 1},
			{Action: model.Defect, OnCooperate: 1, OnDefect: 1},
		},
		Initial: 0,
		Current: 0,
	}
}

var presets = map[string]func() model.Automaton{
	"alldefect":    AllDefect,
	"allcooperate": AllCooperate,
	"titfortat":    TitForTat,
	"grimtrigger":  GrimTrigger,
}

// Preset resolves a preset strategy by name.
func Preset(name string) (model.Automaton, error) {
	build, ok := presets[name]
	if !ok {
		return model.Automaton{}, fmt.Errorf("unknown preset: %s", name)
	}
	return build(), nil
}

// PresetNames lists the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

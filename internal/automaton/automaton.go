package automaton

import (
	"fmt"
	"math/rand"

	"polemos/internal/model"
)

// New builds an automaton from two states and a starting state index. The
// transition targets and the start index must index into the two states.
func New(states [2]model.State, initial int) (model.Automaton, error) {
	if initial < 0 || initial > 1 {
		return model.Automaton{}, fmt.Errorf("initial state index out of range: %d", initial)
	}
	for i, state := range states {
		if state.Action != model.Cooperate && state.Action != model.Defect {
			return model.Automaton{}, fmt.Errorf("state %d has invalid action: %d", i, state.Action)
		}
		if state.OnCooperate < 0 || state.OnCooperate > 1 {
			return model.Automaton{}, fmt.Errorf("state %d has invalid cooperate target: %d", i, state.OnCooperate)
		}
		if state.OnDefect < 0 || state.OnDefect > 1 {
			return model.Automaton{}, fmt.Errorf("state %d has invalid defect target: %d", i, state.OnDefect)
		}
	}
	return model.Automaton{States: states, Initial: initial, Current: initial}, nil
}

// CurrentAction returns the action played by the automaton's current state.
func CurrentAction(a model.Automaton) model.Action {
	return a.States[a.Current].Action
}

// Step advances the automaton in response to the opponent's last action and
// returns the new value. The receiver is never modified.
func Step(a model.Automaton, opponent model.Action) model.Automaton {
	next := a
	if opponent == model.Cooperate {
		next.Current = a.States[a.Current].OnCooperate
	} else {
		next.Current = a.States[a.Current].OnDefect
	}
	return next
}

// Reset returns the automaton at its recorded initial state.
func Reset(a model.Automaton) model.Automaton {
	next := a
	next.Current = a.Initial
	return next
}

// GenerateRandom draws a uniformly random automaton: a random start index
// plus a random action and two random transition targets per state, eight
// independent coin flips in total.
func GenerateRandom(rng *rand.Rand) model.Automaton {
	initial := rng.Intn(2)
	var states [2]model.State
	for i := range states {
		states[i] = model.State{
			Action:      model.Action(rng.Intn(2)),
			OnCooperate: rng.Intn(2),
			OnDefect:    rng.Intn(2),
		}
	}
	return model.Automaton{States: states, Initial: initial, Current: initial}
}

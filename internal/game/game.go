package game

import (
	"errors"
	"fmt"

	"polemos/internal/automaton"
	"polemos/internal/model"
)

// ErrInvalidConfig marks match parameters the engine refuses to run with.
var ErrInvalidConfig = errors.New("invalid configuration")

// Matrix is a 2x2 simultaneous-move payoff table indexed by the two players'
// actions.
type Matrix struct {
	Name    string
	Payoffs [2][2][2]float64
}

// PrisonersDilemma is the fixed game the simulation ships with: reward 3,
// temptation 4, sucker 0, punishment 1.
var PrisonersDilemma = Matrix{
	Name: "prisoners_dilemma",
	Payoffs: [2][2][2]float64{
		{{3, 3}, {0, 4}},
		{{4, 0}, {1, 1}},
	},
}

// Payoff returns both players' payoffs for one pair of actions.
func (m Matrix) Payoff(a1, a2 model.Action) (float64, float64) {
	cell := m.Payoffs[a1][a2]
	return cell[0], cell[1]
}

// RoundPayoff is the outcome of a single round of a repeated match.
type RoundPayoff struct {
	P1 float64
	P2 float64
}

// MatchPair plays a repeated match between two automata. Each round both
// current actions are read, payoffs applied, and each automaton advanced by
// the other's just-played action. The inputs are never modified; fresh
// values are threaded from round to round.
func (m Matrix) MatchPair(a1, a2 model.Automaton, rounds int) ([]RoundPayoff, error) {
	if rounds < 1 {
		return nil, fmt.Errorf("%w: rounds must be >= 1, got %d", ErrInvalidConfig, rounds)
	}

	payoffs := make([]RoundPayoff, 0, rounds)
	for round := 0; round < rounds; round++ {
		action1 := automaton.CurrentAction(a1)
		action2 := automaton.CurrentAction(a2)
		p1, p2 := m.Payoff(action1, action2)
		payoffs = append(payoffs, RoundPayoff{P1: p1, P2: p2})
		a1 = automaton.Step(a1, action2)
		a2 = automaton.Step(a2, action1)
	}
	return payoffs, nil
}

// MatchPopulation pairs consecutive slots (2i with 2i+1), plays each pair for
// the given rounds, and returns each side's summed payoff at its original
// slot position. The population length must be even.
func (m Matrix) MatchPopulation(population []model.Automaton, rounds int) ([]float64, error) {
	if len(population)%2 != 0 {
		return nil, fmt.Errorf("%w: population size must be even, got %d", ErrInvalidConfig, len(population))
	}

	totals := make([]float64, len(population))
	for i := 0; i < len(population); i += 2 {
		payoffs, err := m.MatchPair(population[i], population[i+1], rounds)
		if err != nil {
			return nil, err
		}
		for _, round := range payoffs {
			totals[i] += round.P1
			totals[i+1] += round.P2
		}
	}
	return totals, nil
}

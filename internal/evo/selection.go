package evo

import (
	"errors"
	"math/rand"
	"sort"

	"polemos/internal/model"
)

// ErrDegenerateFitness marks a cycle whose total payoff is zero, leaving no
// well-defined proportional distribution to sample from. No fallback is
// substituted; the run aborts.
var ErrDegenerateFitness = errors.New("degenerate fitness: total payoff is zero")

// ComputeDistribution turns a payoff vector into a cumulative distribution
// of length N+1: index 0 is exactly 0, index N sums to 1, and each step is
// the slot's share of the total payoff.
func ComputeDistribution(payoffs []float64) ([]float64, error) {
	total := 0.0
	for _, payoff := range payoffs {
		total += payoff
	}
	if total == 0 {
		return nil, ErrDegenerateFitness
	}

	cumulative := make([]float64, len(payoffs)+1)
	for i, payoff := range payoffs {
		cumulative[i+1] = cumulative[i] + payoff/total
	}
	return cumulative, nil
}

// Sample draws count individuals from the population with replacement,
// weighted by the cumulative distribution: each draw takes a uniform
// r in [0,1) and selects the slot whose cumulative interval contains it.
func Sample(rng *rand.Rand, distribution []float64, population []model.Automaton, count int) []model.Automaton {
	drawn := make([]model.Automaton, 0, count)
	for d := 0; d < count; d++ {
		r := rng.Float64()
		i := sort.Search(len(distribution), func(i int) bool {
			return distribution[i] > r
		})
		if i >= len(distribution) {
			// Guard against cumulative totals a hair under 1.
			i = len(distribution) - 1
		}
		drawn = append(drawn, population[i-1])
	}
	return drawn
}

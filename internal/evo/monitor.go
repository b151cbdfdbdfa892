package evo

import (
	"context"
	"fmt"
	"math/rand"

	"polemos/internal/automaton"
	"polemos/internal/game"
	"polemos/internal/model"
)

// MonitorConfig drives one simulation run. Speed is the absolute number of
// individuals removed and resampled per cycle.
type MonitorConfig struct {
	PopulationSize int
	Cycles         int
	Speed          int
	Rounds         int
	Seed           int64
	Matrix         game.Matrix
}

// RunResult carries everything a completed run produced.
type RunResult struct {
	MeanByCycle     []float64
	Diagnostics     []model.CycleDiagnostics
	FinalPopulation []model.Automaton
}

// PopulationMonitor runs the cycle loop: match the population, score it,
// replace part of it by fitness-proportional resampling, reshuffle.
type PopulationMonitor struct {
	cfg MonitorConfig
	rng *rand.Rand
}

func NewPopulationMonitor(cfg MonitorConfig) (*PopulationMonitor, error) {
	if cfg.PopulationSize < 2 || cfg.PopulationSize%2 != 0 {
		return nil, fmt.Errorf("%w: population size must be even and >= 2, got %d", game.ErrInvalidConfig, cfg.PopulationSize)
	}
	if cfg.Cycles < 0 {
		return nil, fmt.Errorf("%w: cycles must be >= 0, got %d", game.ErrInvalidConfig, cfg.Cycles)
	}
	if cfg.Speed <= 0 || cfg.Speed >= cfg.PopulationSize {
		return nil, fmt.Errorf("%w: speed must be in (0, population size), got %d", game.ErrInvalidConfig, cfg.Speed)
	}
	if cfg.Rounds < 1 {
		return nil, fmt.Errorf("%w: rounds must be >= 1, got %d", game.ErrInvalidConfig, cfg.Rounds)
	}
	if cfg.Matrix.Payoffs == ([2][2][2]float64{}) {
		cfg.Matrix = game.PrisonersDilemma
	}

	return &PopulationMonitor{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// GeneratePopulation draws a fresh population of uniformly random automata
// from the monitor's random source.
func (m *PopulationMonitor) GeneratePopulation() []model.Automaton {
	population := make([]model.Automaton, m.cfg.PopulationSize)
	for i := range population {
		population[i] = automaton.GenerateRandom(m.rng)
	}
	return population
}

// Run executes the configured number of cycles over the initial population
// and returns the per-cycle mean payoffs. A failure in any cycle aborts the
// whole run; no partial history is returned.
func (m *PopulationMonitor) Run(ctx context.Context, initial []model.Automaton) (RunResult, error) {
	if len(initial) != m.cfg.PopulationSize {
		return RunResult{}, fmt.Errorf("%w: initial population mismatch: got=%d want=%d", game.ErrInvalidConfig, len(initial), m.cfg.PopulationSize)
	}

	population := make([]model.Automaton, len(initial))
	copy(population, initial)

	history := make([]float64, 0, m.cfg.Cycles)
	diagnostics := make([]model.CycleDiagnostics, 0, m.cfg.Cycles)

	for cycle := 0; cycle < m.cfg.Cycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		payoffs, err := m.cfg.Matrix.MatchPopulation(population, m.cfg.Rounds)
		if err != nil {
			return RunResult{}, err
		}

		total := 0.0
		for _, payoff := range payoffs {
			total += payoff
		}
		mean := total / float64(m.cfg.Rounds*m.cfg.PopulationSize)
		history = append(history, mean)
		diagnostics = append(diagnostics, summarizeCycle(cycle, mean, payoffs, population, m.cfg.Speed))

		distribution, err := ComputeDistribution(payoffs)
		if err != nil {
			return RunResult{}, fmt.Errorf("cycle %d: %w", cycle, err)
		}

		// Random death, fitness-weighted rebirth: the first speed slots of
		// the shuffled population die regardless of fitness, and their
		// replacements are resampled from the whole previous population.
		survivors := make([]model.Automaton, 0, m.cfg.PopulationSize)
		for _, a := range population[m.cfg.Speed:] {
			survivors = append(survivors, automaton.Reset(a))
		}
		successors := Sample(m.rng, distribution, population, m.cfg.Speed)
		for i, a := range successors {
			successors[i] = automaton.Reset(a)
		}

		population = append(survivors, successors...)
		m.rng.Shuffle(len(population), func(i, j int) {
			population[i], population[j] = population[j], population[i]
		})
	}

	return RunResult{
		MeanByCycle:     history,
		Diagnostics:     diagnostics,
		FinalPopulation: population,
	}, nil
}

func summarizeCycle(cycle int, mean float64, payoffs []float64, population []model.Automaton, replaced int) model.CycleDiagnostics {
	best := payoffs[0]
	min := payoffs[0]
	cooperators := 0
	for i, payoff := range payoffs {
		if payoff > best {
			best = payoff
		}
		if payoff < min {
			min = payoff
		}
		if automaton.CurrentAction(population[i]) == model.Cooperate {
			cooperators++
		}
	}
	return model.CycleDiagnostics{
		Cycle:           cycle,
		MeanPayoff:      mean,
		BestPayoff:      best,
		MinPayoff:       min,
		CooperationRate: float64(cooperators) / float64(len(population)),
		Replaced:        replaced,
	}
}

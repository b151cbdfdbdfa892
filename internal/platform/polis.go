package platform

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"polemos/internal/automaton"
	"polemos/internal/evo"
	"polemos/internal/game"
	"polemos/internal/model"
	"polemos/internal/storage"
)

type Config struct {
	Store storage.Store
}

// Polis owns the store and orchestrates runs: it builds the monitor, runs
// the cycle loop, and persists what the run produced.
type Polis struct {
	store storage.Store
}

func NewPolis(cfg Config) *Polis {
	return &Polis{store: cfg.Store}
}

func (p *Polis) Init(ctx context.Context) error {
	if p.store == nil {
		return fmt.Errorf("store is required")
	}
	return p.store.Init(ctx)
}

func (p *Polis) Reset(ctx context.Context) error {
	if p.store == nil {
		return fmt.Errorf("store is required")
	}
	return p.store.Reset(ctx)
}

func (p *Polis) Store() storage.Store {
	return p.store
}

type EvolutionConfig struct {
	RunID          string
	PopulationSize int
	Cycles         int
	Speed          int
	Rounds         int
	Seed           int64
	Init           string
	Initial        []model.Automaton
}

type EvolutionResult struct {
	RunID           string
	MeanByCycle     []float64
	Diagnostics     []model.CycleDiagnostics
	FinalPopulation []model.Automaton
}

// RunEvolution executes one full run and persists its history, diagnostics,
// final population snapshot and run record.
func (p *Polis) RunEvolution(ctx context.Context, cfg EvolutionConfig) (EvolutionResult, error) {
	if cfg.RunID == "" {
		return EvolutionResult{}, fmt.Errorf("run id is required")
	}

	monitor, err := evo.NewPopulationMonitor(evo.MonitorConfig{
		PopulationSize: cfg.PopulationSize,
		Cycles:         cfg.Cycles,
		Speed:          cfg.Speed,
		Rounds:         cfg.Rounds,
		Seed:           cfg.Seed,
	})
	if err != nil {
		return EvolutionResult{}, err
	}

	initial := cfg.Initial
	if initial == nil {
		initial, err = SeedPopulation(cfg.Init, cfg.PopulationSize, cfg.Seed)
		if err != nil {
			return EvolutionResult{}, err
		}
	}

	result, err := monitor.Run(ctx, initial)
	if err != nil {
		return EvolutionResult{}, err
	}

	finalMean := 0.0
	if len(result.MeanByCycle) > 0 {
		finalMean = result.MeanByCycle[len(result.MeanByCycle)-1]
	}
	record := model.RunRecord{
		VersionedRecord: versioned(),
		RunID:           cfg.RunID,
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339Nano),
		PopulationSize:  cfg.PopulationSize,
		Cycles:          cfg.Cycles,
		Speed:           cfg.Speed,
		Rounds:          cfg.Rounds,
		Seed:            cfg.Seed,
		Init:            cfg.Init,
		FinalMeanPayoff: finalMean,
	}
	if err := p.store.SaveRunRecord(ctx, record); err != nil {
		return EvolutionResult{}, err
	}
	if err := p.store.SaveMeanHistory(ctx, cfg.RunID, result.MeanByCycle); err != nil {
		return EvolutionResult{}, err
	}
	if err := p.store.SaveCycleDiagnostics(ctx, cfg.RunID, result.Diagnostics); err != nil {
		return EvolutionResult{}, err
	}
	if err := p.store.SavePopulation(ctx, model.Population{
		VersionedRecord: versioned(),
		ID:              cfg.RunID,
		Automata:        result.FinalPopulation,
		Cycle:           cfg.Cycles,
	}); err != nil {
		return EvolutionResult{}, err
	}

	return EvolutionResult{
		RunID:           cfg.RunID,
		MeanByCycle:     result.MeanByCycle,
		Diagnostics:     result.Diagnostics,
		FinalPopulation: result.FinalPopulation,
	}, nil
}

// SeedPopulation builds an initial population from an init policy:
// "random" (default) draws uniformly random automata from the seed;
// a preset name fills every slot with that strategy; a comma-separated
// "name:count" composition fills slots in order and must sum to size.
func SeedPopulation(policy string, size int, seed int64) ([]model.Automaton, error) {
	if size < 2 || size%2 != 0 {
		return nil, fmt.Errorf("%w: population size must be even and >= 2, got %d", game.ErrInvalidConfig, size)
	}

	policy = strings.TrimSpace(policy)
	if policy == "" || policy == "random" {
		rng := rand.New(rand.NewSource(seed))
		population := make([]model.Automaton, size)
		for i := range population {
			population[i] = automaton.GenerateRandom(rng)
		}
		return population, nil
	}

	if !strings.Contains(policy, ":") {
		strategy, err := automaton.Preset(policy)
		if err != nil {
			return nil, err
		}
		population := make([]model.Automaton, size)
		for i := range population {
			population[i] = strategy
		}
		return population, nil
	}

	population := make([]model.Automaton, 0, size)
	for _, part := range strings.Split(policy, ",") {
		name, countText, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("invalid init composition entry: %q", part)
		}
		count, err := strconv.Atoi(countText)
		if err != nil || count <= 0 {
			return nil, fmt.Errorf("invalid init composition count in %q", part)
		}
		strategy, err := automaton.Preset(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			population = append(population, strategy)
		}
	}
	if len(population) != size {
		return nil, fmt.Errorf("init composition fills %d slots, population size is %d", len(population), size)
	}
	return population, nil
}

func versioned() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}
}

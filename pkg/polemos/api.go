// Package polemos is the public face of the simulation platform: it wires a
// store, the run orchestrator and artifact emission behind one client.
package polemos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"polemos/internal/automaton"
	"polemos/internal/model"
	"polemos/internal/platform"
	"polemos/internal/stats"
	"polemos/internal/storage"
)

const (
	defaultArtifactsDir = "artifacts"
	defaultDBPath       = "polemos.db"
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
}

type Client struct {
	store storage.Store
	polis *platform.Polis

	artifactsDir string
}

type RunRequest struct {
	RunID      string
	Population int
	Cycles     int
	Speed      int
	Rounds     int
	Seed       int64
	Init       string
	PlotStep   int
}

type RunSummary struct {
	RunID           string
	ArtifactsDir    string
	MeanByCycle     []float64
	FinalMeanPayoff float64
	Summary         stats.SeriesSummary
}

type RunItem struct {
	RunID           string
	CreatedAtUTC    string
	PopulationSize  int
	Cycles          int
	Speed           int
	Rounds          int
	Seed            int64
	Init            string
	FinalMeanPayoff float64
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		polis:        platform.NewPolis(platform.Config{Store: store}),
		artifactsDir: artifactsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.polis.Init(ctx)
}

func (c *Client) Reset(ctx context.Context) error {
	return c.polis.Reset(ctx)
}

// Run executes one evolution run and writes its artifacts.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Population <= 0 {
		req.Population = 20
	}
	if req.Cycles == 0 {
		req.Cycles = 200
	}
	if req.Speed <= 0 {
		req.Speed = req.Population / 4
		if req.Speed < 1 {
			req.Speed = 1
		}
	}
	if req.Rounds <= 0 {
		req.Rounds = 10
	}
	if req.PlotStep <= 0 {
		req.PlotStep = 10
	}
	if req.RunID == "" {
		req.RunID = fmt.Sprintf("run-%s", uuid.NewString())
	}

	if err := c.polis.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	result, err := c.polis.RunEvolution(ctx, platform.EvolutionConfig{
		RunID:          req.RunID,
		PopulationSize: req.Population,
		Cycles:         req.Cycles,
		Speed:          req.Speed,
		Rounds:         req.Rounds,
		Seed:           req.Seed,
		Init:           req.Init,
	})
	if err != nil {
		return RunSummary{}, err
	}

	summary := stats.SummarizeSeries(result.MeanByCycle)
	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:          req.RunID,
			CreatedAtUTC:   time.Now().UTC().Format(time.RFC3339Nano),
			PopulationSize: req.Population,
			Cycles:         req.Cycles,
			Speed:          req.Speed,
			Rounds:         req.Rounds,
			Seed:           req.Seed,
			Init:           req.Init,
		},
		MeanHistory:     result.MeanByCycle,
		Diagnostics:     result.Diagnostics,
		FinalPopulation: result.FinalPopulation,
		Plot:            stats.BuildMeanPayoffPlot(result.MeanByCycle, req.PlotStep),
		Summary:         summary,
	})
	if err != nil {
		return RunSummary{}, err
	}

	finalMean := 0.0
	if len(result.MeanByCycle) > 0 {
		finalMean = result.MeanByCycle[len(result.MeanByCycle)-1]
	}
	return RunSummary{
		RunID:           req.RunID,
		ArtifactsDir:    runDir,
		MeanByCycle:     result.MeanByCycle,
		FinalMeanPayoff: finalMean,
		Summary:         summary,
	}, nil
}

// Runs lists persisted run records, newest last.
func (c *Client) Runs(ctx context.Context, limit int) ([]RunItem, error) {
	if err := c.polis.Init(ctx); err != nil {
		return nil, err
	}
	records, err := c.store.ListRunRecords(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	items := make([]RunItem, 0, len(records))
	for _, record := range records {
		items = append(items, RunItem{
			RunID:           record.RunID,
			CreatedAtUTC:    record.CreatedAtUTC,
			PopulationSize:  record.PopulationSize,
			Cycles:          record.Cycles,
			Speed:           record.Speed,
			Rounds:          record.Rounds,
			Seed:            record.Seed,
			Init:            record.Init,
			FinalMeanPayoff: record.FinalMeanPayoff,
		})
	}
	return items, nil
}

// FitnessHistory returns the persisted mean-payoff history for a run.
func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]float64, error) {
	if err := c.polis.Init(ctx); err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetMeanHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no history for run: %s", runID)
	}
	return history, nil
}

// Diagnostics returns the persisted per-cycle diagnostics for a run.
func (c *Client) Diagnostics(ctx context.Context, runID string) ([]model.CycleDiagnostics, error) {
	if err := c.polis.Init(ctx); err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetCycleDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no diagnostics for run: %s", runID)
	}
	return diagnostics, nil
}

// Population returns the persisted final population snapshot for a run.
func (c *Client) Population(ctx context.Context, runID string) (model.Population, error) {
	if err := c.polis.Init(ctx); err != nil {
		return model.Population{}, err
	}
	population, ok, err := c.store.GetPopulation(ctx, runID)
	if err != nil {
		return model.Population{}, err
	}
	if !ok {
		return model.Population{}, fmt.Errorf("no population snapshot for run: %s", runID)
	}
	return population, nil
}

// Export re-emits the artifact directory for an already persisted run from
// the store's record, history, diagnostics and final population. Returns the
// run directory.
func (c *Client) Export(ctx context.Context, runID string, plotStep int) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}
	if plotStep <= 0 {
		plotStep = 10
	}
	if err := c.polis.Init(ctx); err != nil {
		return "", err
	}

	record, ok, err := c.store.GetRunRecord(ctx, runID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no run record for run: %s", runID)
	}
	history, ok, err := c.store.GetMeanHistory(ctx, runID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no history for run: %s", runID)
	}
	diagnostics, ok, err := c.store.GetCycleDiagnostics(ctx, runID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no diagnostics for run: %s", runID)
	}
	population, ok, err := c.store.GetPopulation(ctx, runID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no population snapshot for run: %s", runID)
	}

	return stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:          record.RunID,
			CreatedAtUTC:   record.CreatedAtUTC,
			PopulationSize: record.PopulationSize,
			Cycles:         record.Cycles,
			Speed:          record.Speed,
			Rounds:         record.Rounds,
			Seed:           record.Seed,
			Init:           record.Init,
		},
		MeanHistory:     history,
		Diagnostics:     diagnostics,
		FinalPopulation: population.Automata,
		Plot:            stats.BuildMeanPayoffPlot(history, plotStep),
		Summary:         stats.SummarizeSeries(history),
	})
}

// GeneratePopulation draws n uniformly random automata from the seed.
// n must be even and >= 2.
func (c *Client) GeneratePopulation(n int, seed int64) ([]model.Automaton, error) {
	return platform.SeedPopulation("random", n, seed)
}

// Presets lists the shipped classic strategies by name.
func (c *Client) Presets() []string {
	return automaton.PresetNames()
}

// Preset resolves one shipped strategy by name.
func (c *Client) Preset(name string) (model.Automaton, error) {
	return automaton.Preset(name)
}

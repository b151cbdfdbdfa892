package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"polemos/internal/automaton"
	"polemos/internal/storage"
	api "polemos/pkg/polemos"
)

const artifactsDir = "artifacts"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "population":
		return runPopulation(ctx, args[1:])
	case "presets":
		return runPresets(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "benchmark":
		return runBenchmark(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(message string) error {
	return fmt.Errorf("%s\nusage: polemosctl <init|reset|run|runs|fitness|diagnostics|population|presets|export|benchmark> [flags]", message)
}

func newClient(storeKind, dbPath, artifacts string) (*api.Client, error) {
	return api.New(api.Options{
		StoreKind:    storeKind,
		DBPath:       dbPath,
		ArtifactsDir: artifacts,
	})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "polemos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "polemos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	population := fs.Int("pop", 20, "population size (even, >= 2)")
	cycles := fs.Int("cycles", 200, "cycle count")
	speed := fs.Int("speed", 5, "individuals replaced per cycle")
	rounds := fs.Int("rounds", 10, "rounds per match")
	seed := fs.Int64("seed", 1, "rng seed")
	initPolicy := fs.String("init", "random", "initial population: random, a preset name, or name:count list")
	plotStep := fs.Int("plot-step", 10, "plot downsampling window in cycles")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "polemos.db", "sqlite database path")
	outDir := fs.String("artifacts-dir", artifactsDir, "artifact output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := api.RunRequest{
		RunID:      *runID,
		Population: *population,
		Cycles:     *cycles,
		Speed:      *speed,
		Rounds:     *rounds,
		Seed:       *seed,
		Init:       *initPolicy,
		PlotStep:   *plotStep,
	}
	if *configPath != "" {
		loaded, err := loadRunRequestFromConfig(*configPath)
		if err != nil {
			return err
		}
		req = loaded
	}

	client, err := newClient(*storeKind, *dbPath, *outDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	started := time.Now()
	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run %s completed in %s\n", summary.RunID, time.Since(started).Round(time.Millisecond))
	fmt.Printf("cycles=%s final-mean=%.4f best-mean=%.4f artifacts=%s\n",
		humanize.Comma(int64(summary.Summary.Cycles)),
		summary.FinalMeanPayoff,
		summary.Summary.BestMean,
		summary.ArtifactsDir,
	)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum runs to list")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "polemos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, item := range items {
		created := item.CreatedAtUTC
		if at, err := time.Parse(time.RFC3339Nano, item.CreatedAtUTC); err == nil {
			created = humanize.Time(at)
		}
		fmt.Printf("%s  pop=%d cycles=%s speed=%d rounds=%d seed=%d init=%s final-mean=%.4f  (%s)\n",
			item.RunID,
			item.PopulationSize,
			humanize.Comma(int64(item.Cycles)),
			item.Speed,
			item.Rounds,
			item.Seed,
			item.Init,
			item.FinalMeanPayoff,
			created,
		)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	limit := fs.Int("limit", 0, "print only the last N cycles (0 prints all)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "polemos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return fmt.Errorf("run-id is required")
	}

	client, err := newClient(*storeKind, *dbPath, artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, *runID)
	if err != nil {
		return err
	}
	start := 0
	if *limit > 0 && len(history) > *limit {
		start = len(history) - *limit
	}
	for i := start; i < len(history); i++ {
		fmt.Printf("%d\t%.6f\n", i, history[i])
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "polemos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return fmt.Errorf("run-id is required")
	}

	client, err := newClient(*storeKind, *dbPath, artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, *runID)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(diagnostics)
}

func runPopulation(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("population", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "polemos.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return fmt.Errorf("run-id is required")
	}

	client, err := newClient(*storeKind, *dbPath, artifactsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	population, err := client.Population(ctx, *runID)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(population)
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	plotStep := fs.Int("plot-step", 10, "plot downsampling window in cycles")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "polemos.db", "sqlite database path")
	outDir := fs.String("artifacts-dir", artifactsDir, "artifact output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return fmt.Errorf("run-id is required")
	}

	client, err := newClient(*storeKind, *dbPath, *outDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runDir, err := client.Export(ctx, *runID, *plotStep)
	if err != nil {
		return err
	}
	fmt.Printf("exported run %s to %s\n", *runID, runDir)
	return nil
}

func runPresets(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, name := range automaton.PresetNames() {
		strategy, err := automaton.Preset(name)
		if err != nil {
			return err
		}
		fmt.Printf("%-14s initial=%d state0=(%d,%d,%d) state1=(%d,%d,%d)\n",
			name,
			strategy.Initial,
			strategy.States[0].Action, strategy.States[0].OnCooperate, strategy.States[0].OnDefect,
			strategy.States[1].Action, strategy.States[1].OnCooperate, strategy.States[1].OnDefect,
		)
	}
	return nil
}

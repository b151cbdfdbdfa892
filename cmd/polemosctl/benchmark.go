package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"polemos/internal/evo"
	"polemos/internal/platform"
	"polemos/internal/stats"
)

// runBenchmark runs several independent replicates of the same configuration
// under consecutive seeds and aggregates their mean-payoff histories. Each
// replicate's simulation is single-threaded; only whole replicates run
// concurrently.
func runBenchmark(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	replicates := fs.Int("replicates", 8, "number of replicate runs")
	population := fs.Int("pop", 20, "population size (even, >= 2)")
	cycles := fs.Int("cycles", 200, "cycle count")
	speed := fs.Int("speed", 5, "individuals replaced per cycle")
	rounds := fs.Int("rounds", 10, "rounds per match")
	seedBase := fs.Int64("seed-base", 1, "first replicate seed; replicate i uses seed-base+i")
	initPolicy := fs.String("init", "random", "initial population: random, a preset name, or name:count list")
	workers := fs.Int("workers", 4, "concurrent replicates")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *replicates <= 0 {
		return fmt.Errorf("replicates must be > 0, got %d", *replicates)
	}

	started := time.Now()
	histories, err := collectReplicateHistories(ctx, evo.MonitorConfig{
		PopulationSize: *population,
		Cycles:         *cycles,
		Speed:          *speed,
		Rounds:         *rounds,
		Seed:           *seedBase,
	}, *initPolicy, *replicates, *workers)
	if err != nil {
		return err
	}

	averaged := stats.AverageSeries(histories)
	summary := stats.SummarizeSeries(averaged)

	finals := make([]float64, 0, len(histories))
	for _, history := range histories {
		if len(history) > 0 {
			finals = append(finals, history[len(history)-1])
		}
	}
	sort.Float64s(finals)

	totalMatches := int64(*replicates) * int64(*cycles) * int64(*population/2)
	fmt.Printf("benchmark: %d replicates, %s matches, %s\n",
		*replicates,
		humanize.Comma(totalMatches),
		time.Since(started).Round(time.Millisecond),
	)
	fmt.Printf("averaged final-mean=%.4f best-mean=%.4f worst-mean=%.4f\n",
		summary.FinalMean, summary.BestMean, summary.WorstMean)
	if len(finals) > 0 {
		fmt.Printf("replicate final means: min=%.4f median=%.4f max=%.4f\n",
			finals[0], finals[len(finals)/2], finals[len(finals)-1])
	}
	return nil
}

// collectReplicateHistories runs replicate simulations under consecutive
// seeds starting at cfg.Seed and returns their mean-payoff histories in
// replicate order. Each goroutine writes only its own slot, and the group
// wait orders those writes before the read back.
func collectReplicateHistories(ctx context.Context, cfg evo.MonitorConfig, initPolicy string, replicates, workers int) ([][]float64, error) {
	histories := make([][]float64, replicates)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i := 0; i < replicates; i++ {
		replicate := i
		group.Go(func() error {
			replicateCfg := cfg
			replicateCfg.Seed = cfg.Seed + int64(replicate)
			monitor, err := evo.NewPopulationMonitor(replicateCfg)
			if err != nil {
				return err
			}
			initial, err := platform.SeedPopulation(initPolicy, replicateCfg.PopulationSize, replicateCfg.Seed)
			if err != nil {
				return err
			}
			result, err := monitor.Run(groupCtx, initial)
			if err != nil {
				return fmt.Errorf("replicate %d (seed %d): %w", replicate, replicateCfg.Seed, err)
			}
			histories[replicate] = result.MeanByCycle
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return histories, nil
}

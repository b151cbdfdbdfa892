package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"polemos/internal/automaton"
	"polemos/internal/model"
)

func testArtifacts(runID string) RunArtifacts {
	history := []float64{1.0, 1.5, 2.0}
	return RunArtifacts{
		Config: RunConfig{
			RunID:          runID,
			CreatedAtUTC:   "2026-08-24T12:00:00Z",
			PopulationSize: 4,
			Cycles:         3,
			Speed:          1,
			Rounds:         5,
			Seed:           7,
			Init:           "random",
		},
		MeanHistory: history,
		Diagnostics: []model.CycleDiagnostics{
			{Cycle: 0, MeanPayoff: 1.0, Replaced: 1},
		},
		FinalPopulation: []model.Automaton{automaton.TitForTat()},
		Plot:            BuildMeanPayoffPlot(history, 1),
		Summary:         SummarizeSeries(history),
	}
}

func TestWriteRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()

	runDir, err := WriteRunArtifacts(baseDir, testArtifacts("run-a"))
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	if runDir != filepath.Join(baseDir, "run-a") {
		t.Fatalf("run directory: got %s", runDir)
	}

	for _, name := range []string{
		"config.json", "history.json", "history.csv",
		"diagnostics.json", "population.json", "plot.json", "summary.json",
	} {
		if _, err := os.Stat(filepath.Join(runDir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(runDir, "history.json"))
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		t.Fatalf("parse history: %v", err)
	}
	if len(history) != 3 || history[2] != 2.0 {
		t.Fatalf("history mismatch: %v", history)
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	artifacts := testArtifacts("")
	if _, err := WriteRunArtifacts(t.TempDir(), artifacts); err == nil {
		t.Fatal("expected error for empty run id")
	}
}

func TestRunIndexAccumulatesAndDeduplicates(t *testing.T) {
	baseDir := t.TempDir()

	if _, err := WriteRunArtifacts(baseDir, testArtifacts("run-a")); err != nil {
		t.Fatalf("write run-a: %v", err)
	}
	if _, err := WriteRunArtifacts(baseDir, testArtifacts("run-b")); err != nil {
		t.Fatalf("write run-b: %v", err)
	}
	// Re-writing the same run must replace its entry, not duplicate it.
	if _, err := WriteRunArtifacts(baseDir, testArtifacts("run-a")); err != nil {
		t.Fatalf("rewrite run-a: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	var entries []runIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("parse index: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("index entries: got %d want 2: %+v", len(entries), entries)
	}
}

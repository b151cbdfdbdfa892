package stats

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"polemos/internal/model"
)

const runIndexFile = "run_index.json"

// RunConfig is the artifact copy of a run's parameters.
type RunConfig struct {
	RunID          string `json:"run_id"`
	CreatedAtUTC   string `json:"created_at_utc"`
	PopulationSize int    `json:"population_size"`
	Cycles         int    `json:"cycles"`
	Speed          int    `json:"speed"`
	Rounds         int    `json:"rounds"`
	Seed           int64  `json:"seed"`
	Init           string `json:"init"`
}

// RunArtifacts is everything written to a run's artifact directory.
type RunArtifacts struct {
	Config          RunConfig                `json:"config"`
	MeanHistory     []float64                `json:"mean_history"`
	Diagnostics     []model.CycleDiagnostics `json:"diagnostics"`
	FinalPopulation []model.Automaton        `json:"final_population"`
	Plot            []PlotPoint              `json:"plot"`
	Summary         SeriesSummary            `json:"summary"`
}

type runIndexEntry struct {
	RunID        string `json:"run_id"`
	CreatedAtUTC string `json:"created_at_utc"`
	Directory    string `json:"directory"`
}

// WriteRunArtifacts writes one run's artifacts under baseDir/<run-id>/ and
// appends the run to the base directory's index. Returns the run directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", errors.New("run id is required")
	}
	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create run directory %s", runDir)
	}

	files := map[string]any{
		"config.json":      artifacts.Config,
		"history.json":     artifacts.MeanHistory,
		"diagnostics.json": artifacts.Diagnostics,
		"population.json":  artifacts.FinalPopulation,
		"plot.json":        artifacts.Plot,
		"summary.json":     artifacts.Summary,
	}
	for name, payload := range files {
		if err := writeJSON(filepath.Join(runDir, name), payload); err != nil {
			return "", err
		}
	}
	if err := writeHistoryCSV(filepath.Join(runDir, "history.csv"), artifacts.MeanHistory); err != nil {
		return "", err
	}
	if err := appendRunIndex(baseDir, runIndexEntry{
		RunID:        artifacts.Config.RunID,
		CreatedAtUTC: artifacts.Config.CreatedAtUTC,
		Directory:    runDir,
	}); err != nil {
		return "", err
	}
	return runDir, nil
}

func writeJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshal %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func writeHistoryCSV(path string, history []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"cycle", "mean_payoff"}); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for i, value := range history {
		record := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(value, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "write csv row %d", i)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flush csv")
}

func appendRunIndex(baseDir string, entry runIndexEntry) error {
	indexPath := filepath.Join(baseDir, runIndexFile)

	entries := make([]runIndexEntry, 0, 16)
	data, err := os.ReadFile(indexPath)
	if err == nil {
		if err := json.Unmarshal(data, &entries); err != nil {
			return errors.Wrapf(err, "parse %s", indexPath)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "read %s", indexPath)
	}

	kept := entries[:0]
	for _, existing := range entries {
		if existing.RunID != entry.RunID {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, entry)
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].CreatedAtUTC == kept[j].CreatedAtUTC {
			return kept[i].RunID < kept[j].RunID
		}
		return kept[i].CreatedAtUTC < kept[j].CreatedAtUTC
	})
	return writeJSON(indexPath, kept)
}

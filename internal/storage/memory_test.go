package storage

import (
	"context"
	"testing"

	"polemos/internal/automaton"
	"polemos/internal/model"
)

func newTestPopulation(id string) model.Population {
	return model.Population{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: CurrentSchemaVersion,
			CodecVersion:  CurrentCodecVersion,
		},
		ID: id,
		Automata: []model.Automaton{
			automaton.TitForTat(),
			automaton.AllDefect(),
		},
		Cycle: 3,
	}
}

func TestMemoryStorePopulationRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	saved := newTestPopulation("pop-1")
	if err := store.SavePopulation(ctx, saved); err != nil {
		t.Fatalf("save population: %v", err)
	}

	loaded, ok, err := store.GetPopulation(ctx, "pop-1")
	if err != nil {
		t.Fatalf("get population: %v", err)
	}
	if !ok {
		t.Fatal("population not found")
	}
	if loaded.ID != saved.ID || loaded.Cycle != saved.Cycle || len(loaded.Automata) != len(saved.Automata) {
		t.Fatalf("round trip mismatch: %+v vs %+v", loaded, saved)
	}

	// Mutating the loaded copy must not leak back into the store.
	loaded.Automata[0] = automaton.AllCooperate()
	reloaded, _, err := store.GetPopulation(ctx, "pop-1")
	if err != nil {
		t.Fatalf("reload population: %v", err)
	}
	if reloaded.Automata[0] != automaton.TitForTat() {
		t.Fatal("store contents were aliased by a caller mutation")
	}
}

func TestMemoryStoreMissingEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, ok, err := store.GetPopulation(ctx, "absent"); err != nil || ok {
		t.Fatalf("absent population: ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.GetMeanHistory(ctx, "absent"); err != nil || ok {
		t.Fatalf("absent history: ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.GetCycleDiagnostics(ctx, "absent"); err != nil || ok {
		t.Fatalf("absent diagnostics: ok=%v err=%v", ok, err)
	}
	if _, ok, err := store.GetRunRecord(ctx, "absent"); err != nil || ok {
		t.Fatalf("absent run record: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreHistoryAndDiagnostics(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	history := []float64{1.5, 2.25, 2.75}
	if err := store.SaveMeanHistory(ctx, "run-1", history); err != nil {
		t.Fatalf("save history: %v", err)
	}
	loaded, ok, err := store.GetMeanHistory(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get history: ok=%v err=%v", ok, err)
	}
	for i := range history {
		if loaded[i] != history[i] {
			t.Fatalf("history index %d: got %v want %v", i, loaded[i], history[i])
		}
	}

	diagnostics := []model.CycleDiagnostics{
		{Cycle: 0, MeanPayoff: 1.5, BestPayoff: 30, MinPayoff: 5, CooperationRate: 0.5, Replaced: 2},
	}
	if err := store.SaveCycleDiagnostics(ctx, "run-1", diagnostics); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	loadedDiag, ok, err := store.GetCycleDiagnostics(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get diagnostics: ok=%v err=%v", ok, err)
	}
	if loadedDiag[0] != diagnostics[0] {
		t.Fatalf("diagnostics mismatch: %+v vs %+v", loadedDiag[0], diagnostics[0])
	}
}

func TestMemoryStoreListRunRecordsSorted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, record := range []model.RunRecord{
		{RunID: "b", CreatedAtUTC: "2026-08-24T10:00:00Z"},
		{RunID: "a", CreatedAtUTC: "2026-08-24T09:00:00Z"},
		{RunID: "c", CreatedAtUTC: "2026-08-24T11:00:00Z"},
	} {
		if err := store.SaveRunRecord(ctx, record); err != nil {
			t.Fatalf("save run record %s: %v", record.RunID, err)
		}
	}

	records, err := store.ListRunRecords(ctx)
	if err != nil {
		t.Fatalf("list run records: %v", err)
	}
	got := []string{records[0].RunID, records[1].RunID, records[2].RunID}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v want %v", got, want)
		}
	}
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.SavePopulation(ctx, newTestPopulation("pop-1")); err != nil {
		t.Fatalf("save population: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok, _ := store.GetPopulation(ctx, "pop-1"); ok {
		t.Fatal("population survived reset")
	}
}

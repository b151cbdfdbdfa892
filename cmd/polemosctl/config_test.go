package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRunRequestFromConfig(t *testing.T) {
	path := writeConfig(t, `{
		"run_id": "run-cfg",
		"population": 40,
		"cycles": 500,
		"speed": 8,
		"rounds": 12,
		"seed": 1234567890123,
		"init": "titfortat:20,alldefect:20",
		"plot_step": 25
	}`)

	req, err := loadRunRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if req.RunID != "run-cfg" {
		t.Fatalf("run id: got %s", req.RunID)
	}
	if req.Population != 40 || req.Cycles != 500 || req.Speed != 8 || req.Rounds != 12 {
		t.Fatalf("numeric fields mismatch: %+v", req)
	}
	if req.Seed != 1234567890123 {
		t.Fatalf("seed: got %d", req.Seed)
	}
	if req.Init != "titfortat:20,alldefect:20" {
		t.Fatalf("init: got %s", req.Init)
	}
	if req.PlotStep != 25 {
		t.Fatalf("plot step: got %d", req.PlotStep)
	}
}

func TestLoadRunRequestFromConfigPartial(t *testing.T) {
	path := writeConfig(t, `{"population": 10, "seed": 3}`)

	req, err := loadRunRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if req.Population != 10 || req.Seed != 3 {
		t.Fatalf("parsed fields mismatch: %+v", req)
	}
	// Unset fields stay zero so the client applies its defaults.
	if req.Cycles != 0 || req.RunID != "" || req.Init != "" {
		t.Fatalf("unset fields should be zero: %+v", req)
	}
}

func TestLoadRunRequestFromConfigIgnoresWrongTypes(t *testing.T) {
	path := writeConfig(t, `{"population": "forty", "cycles": 2.5, "run_id": 7}`)

	req, err := loadRunRequestFromConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if req.Population != 0 || req.Cycles != 0 || req.RunID != "" {
		t.Fatalf("mistyped fields should be ignored: %+v", req)
	}
}

func TestLoadRunRequestFromConfigErrors(t *testing.T) {
	if _, err := loadRunRequestFromConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := writeConfig(t, `{"population": `)
	if _, err := loadRunRequestFromConfig(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestAsIntCoercion(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  int
		ok    bool
	}{
		{"whole float", float64(12), 12, true},
		{"fractional float", 1.5, 0, false},
		{"int", 7, 7, true},
		{"string", "7", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := asInt(tc.value)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("asInt(%v) = (%d, %v), want (%d, %v)", tc.value, got, ok, tc.want, tc.ok)
			}
		})
	}
}

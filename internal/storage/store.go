package storage

import (
	"context"

	"polemos/internal/model"
)

// Store defines persistence operations for populations and run results.
type Store interface {
	Init(ctx context.Context) error
	Reset(ctx context.Context) error
	SavePopulation(ctx context.Context, population model.Population) error
	GetPopulation(ctx context.Context, id string) (model.Population, bool, error)
	SaveRunRecord(ctx context.Context, record model.RunRecord) error
	GetRunRecord(ctx context.Context, runID string) (model.RunRecord, bool, error)
	ListRunRecords(ctx context.Context) ([]model.RunRecord, error)
	SaveMeanHistory(ctx context.Context, runID string, history []float64) error
	GetMeanHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveCycleDiagnostics(ctx context.Context, runID string, diagnostics []model.CycleDiagnostics) error
	GetCycleDiagnostics(ctx context.Context, runID string) ([]model.CycleDiagnostics, bool, error)
}

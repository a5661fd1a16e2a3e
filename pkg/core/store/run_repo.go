package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prompt_ops/pkg/core/experiment"
)

// RunRepo persists exported run traces, one JSONB blob per (dataset, run).
type RunRepo struct{}

// NewRunRepo creates a new repository instance.
func NewRunRepo() *RunRepo {
	return &RunRepo{}
}

// Archive upserts the exported traces of one experiment run.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS experiment_runs (
//
//	dataset_name TEXT,
//	run_name     TEXT,
//	run_json     JSONB,
//	updated_at   TIMESTAMPTZ,
//	PRIMARY KEY (dataset_name, run_name)
//
// );
func (r *RunRepo) Archive(ctx context.Context, datasetName, runName string, traces []experiment.RunTrace) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(traces)
	if err != nil {
		return fmt.Errorf("failed to marshal run traces: %w", err)
	}

	query := `
		INSERT INTO experiment_runs (dataset_name, run_name, run_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (dataset_name, run_name)
		DO UPDATE SET
			run_json = EXCLUDED.run_json,
			updated_at = EXCLUDED.updated_at;
	`

	if _, err := pool.Exec(ctx, query, datasetName, runName, jsonData, time.Now()); err != nil {
		return fmt.Errorf("failed to archive run %s/%s: %w", datasetName, runName, err)
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const sweepSchema = `
	CREATE TABLE IF NOT EXISTS bis_sweep_runs (
		id            UUID PRIMARY KEY,
		started_at    TIMESTAMPTZ NOT NULL,
		finished_at   TIMESTAMPTZ NOT NULL,
		attempted     INTEGER NOT NULL,
		succeeded     INTEGER NOT NULL,
		empty         INTEGER NOT NULL,
		failed        INTEGER NOT NULL,
		failed_builds TEXT[] NOT NULL DEFAULT '{}'
	)
`

// SweepRepository stores refresh sweep summaries in bis_sweep_runs.
type SweepRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSweepRepository(postgres *PostgresService, logger *zap.Logger) *SweepRepository {
	return &SweepRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// EnsureSchema creates the sweep table when it does not exist.
func (r *SweepRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sweepSchema); err != nil {
		return fmt.Errorf("failed to create bis_sweep_runs: %w", err)
	}
	return nil
}

// RecordSweep inserts one sweep summary.
func (r *SweepRepository) RecordSweep(ctx context.Context, run domain.SweepRun) error {
	query := `
		INSERT INTO bis_sweep_runs
			(id, started_at, finished_at, attempted, succeeded, empty, failed, failed_builds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	failed := run.FailedBuilds
	if failed == nil {
		failed = []string{}
	}

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.StartedAt, run.FinishedAt,
		run.Attempted, run.Succeeded, run.Empty, run.Failed,
		pq.Array(failed),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sweep run: %w", err)
	}

	r.logger.Debug("Sweep run recorded", zap.String("run_id", run.ID))
	return nil
}

// Recent returns the latest sweep summaries, newest first.
func (r *SweepRepository) Recent(ctx context.Context, limit int) ([]domain.SweepRun, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, started_at, finished_at, attempted, succeeded, empty, failed, failed_builds
		FROM bis_sweep_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sweep runs: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.SweepRun, 0, limit)
	for rows.Next() {
		var run domain.SweepRun
		var failed []string
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &run.FinishedAt,
			&run.Attempted, &run.Succeeded, &run.Empty, &run.Failed,
			pq.Array(&failed),
		); err != nil {
			return nil, fmt.Errorf("failed to scan sweep run: %w", err)
		}
		if len(failed) > 0 {
			run.FailedBuilds = failed
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sweep runs: %w", err)
	}

	return runs, nil
}

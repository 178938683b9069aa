package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// RunRepository archives finished scheduler runs.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository constructs the repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create stores one finished run.
func (r *RunRepository) Create(ctx context.Context, run *models.SchedulerRun) error {
	const query = `INSERT INTO scheduler_runs (id, status, feasible, best_fitness, generations, restarts, time_taken, result, created_at)
VALUES (:id, :status, :feasible, :best_fitness, :generations, :restarts, :time_taken, :result, :created_at)`
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("insert scheduler run: %w", err)
	}
	return nil
}

// FindByID fetches one archived run.
func (r *RunRepository) FindByID(ctx context.Context, id string) (*models.SchedulerRun, error) {
	const query = `SELECT id, status, feasible, best_fitness, generations, restarts, time_taken, result, created_at
FROM scheduler_runs WHERE id = $1`
	var run models.SchedulerRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRecent returns the newest runs up to limit.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]models.SchedulerRun, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, status, feasible, best_fitness, generations, restarts, time_taken, result, created_at
FROM scheduler_runs ORDER BY created_at DESC LIMIT $1`
	var runs []models.SchedulerRun
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("list scheduler runs: %w", err)
	}
	return runs, nil
}

package models

import "time"

// SchedulerRun is the persisted record of a finished scheduling task.
type SchedulerRun struct {
	ID          string    `db:"id" json:"id"`
	Status      string    `db:"status" json:"status"`
	Feasible    bool      `db:"feasible" json:"feasible"`
	BestFitness float64   `db:"best_fitness" json:"best_fitness"`
	Generations int       `db:"generations" json:"generations"`
	Restarts    int       `db:"restarts" json:"restarts"`
	TimeTaken   float64   `db:"time_taken" json:"time_taken"`
	ResultJSON  []byte    `db:"result" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Run statuses.
const (
	RunStatusCompleted = "completed"
	RunStatusTimedOut  = "timed_out"
	RunStatusCancelled = "cancelled"
)

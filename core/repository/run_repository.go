package repository

import (
	"strings"
	"time"

	"classifier-pipeline/core/models"

	"github.com/google/uuid"
)

// RunStatus represents the state of one recorded stage invocation
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RunRepository handles database operations for the run history
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// CreateRun records a stage invocation before its collaborator starts and
// returns the run id
func (r *RunRepository) CreateRun(stage models.Stage, jobID string, argv []string) (string, error) {
	query := `
		INSERT INTO pipeline_runs (id, stage, job_id, argv, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	runID := uuid.New().String()
	_, err := r.db.Exec(query,
		runID,
		string(stage),
		jobID,
		strings.Join(argv, " "),
		RunStatusRunning,
		time.Now(),
	)
	if err != nil {
		return "", err
	}
	return runID, nil
}

// FinishRun marks a recorded invocation as succeeded or failed
func (r *RunRepository) FinishRun(runID string, status RunStatus, failure string) error {
	query := `
		UPDATE pipeline_runs
		SET status = $1, failure = $2, finished_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(query, status, failure, runID)
	return err
}

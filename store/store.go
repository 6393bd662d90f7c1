// Package store provides SQLite-backed persistence for finished simulation
// runs and their daily trajectories. It sits outside the numerical core:
// the simulation packages never import it, it only consumes their output.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/oncosim-xyz/go-oncosim/patient"
	"github.com/oncosim-xyz/go-oncosim/tumor"
)

// ErrRunNotFound is returned when a run ID is not in the store.
var ErrRunNotFound = errors.New("run not found")

// Run is one persisted simulation run.
type Run struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"createdAt"`
	Patient     patient.Snapshot `json:"patient"`
	Treatment   string           `json:"treatment"`
	Days        int              `json:"days"`
	FinalVolume float64          `json:"finalVolume"`
	FinalStage  string           `json:"finalStage"`
	Status      string           `json:"status"`
}

// Store handles SQLite persistence of runs and trajectories.
type Store struct {
	db *sql.DB
}

// Open opens (and if necessary creates) a run store at the given path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		patient TEXT NOT NULL,
		treatment TEXT NOT NULL DEFAULT 'none',
		days INTEGER NOT NULL,
		final_volume REAL NOT NULL,
		final_stage TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'success'
	);
	CREATE TABLE IF NOT EXISTS trajectory (
		run_id TEXT NOT NULL REFERENCES runs(id),
		day INTEGER NOT NULL,
		sensitive REAL NOT NULL,
		resistant REAL NOT NULL,
		total REAL NOT NULL,
		stage TEXT NOT NULL,
		PRIMARY KEY (run_id, day)
	);
	CREATE INDEX IF NOT EXISTS idx_trajectory_run ON trajectory(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun persists one run and its daily trajectory, returning the
// generated run ID.
func (s *Store) SaveRun(ctx context.Context, snap tumor.Snapshot, days int, points []tumor.DayPoint) (string, error) {
	id := uuid.New().String()

	patientJSON, err := json.Marshal(snap.Patient)
	if err != nil {
		return "", fmt.Errorf("marshal patient: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, patient, treatment, days, final_volume, final_stage, status)
		VALUES (?, ?, ?, ?, ?, ?, 'success')`,
		id, string(patientJSON), snap.Treatment.Code(), days, snap.Total, snap.Stage)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, p := range points {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trajectory (run_id, day, sensitive, resistant, total, stage)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, p.Day, p.Sensitive, p.Resistant, p.Total, p.Stage)
		if err != nil {
			return "", fmt.Errorf("insert trajectory day %d: %w", p.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// GetRun retrieves one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, patient, treatment, days, final_volume, final_stage, status
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, patient, treatment, days, final_volume, final_stage, status
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadTrajectory returns the daily trajectory of a run, ordered by day.
func (s *Store) LoadTrajectory(ctx context.Context, runID string) ([]tumor.DayPoint, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, sensitive, resistant, total, stage
		FROM trajectory WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trajectory: %w", err)
	}
	defer rows.Close()

	var points []tumor.DayPoint
	for rows.Next() {
		var p tumor.DayPoint
		if err := rows.Scan(&p.Day, &p.Sensitive, &p.Resistant, &p.Total, &p.Stage); err != nil {
			return nil, fmt.Errorf("scan trajectory: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var patientJSON string
	if err := row.Scan(&run.ID, &run.CreatedAt, &patientJSON, &run.Treatment,
		&run.Days, &run.FinalVolume, &run.FinalStage, &run.Status); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(patientJSON), &run.Patient); err != nil {
		return nil, fmt.Errorf("unmarshal patient: %w", err)
	}
	return &run, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"stealthspanner/internal/storage/models"
	pkgerrors "stealthspanner/pkg/errors"
)

// DB implements the Storage interface using SQLite
type DB struct {
	db *sql.DB
}

// New creates a new SQLite storage instance
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	storage := &DB{db: db}

	if err := runMigrations(storage); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// RecordRun stores a run and its outcomes in one transaction.
func (d *DB) RecordRun(ctx context.Context, run *models.Run, outcomes []*models.Outcome) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (provider, strategy, pings, workers, timeout_seconds, tested, succeeded, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Provider, run.Strategy, run.Pings, run.Workers, run.TimeoutSeconds,
		run.Tested, run.Succeeded, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	run.ID = runID

	for _, outcome := range outcomes {
		outcome.RunID = runID
		result, err := tx.ExecContext(ctx, `
			INSERT INTO outcomes (run_id, source, host, port, country_code, status,
				latency_ms, jitter_ms, packet_loss, attempts, succeeded, score, tested_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, outcome.RunID, outcome.Source, outcome.Host, outcome.Port, outcome.CountryCode,
			outcome.Status, outcome.LatencyMS, outcome.JitterMS, outcome.PacketLoss,
			outcome.Attempts, outcome.Succeeded, outcome.Score, outcome.TestedAt)
		if err != nil {
			return fmt.Errorf("failed to record outcome for %s: %w", outcome.Host, err)
		}
		if id, err := result.LastInsertId(); err == nil {
			outcome.ID = id
		}
	}

	return tx.Commit()
}

// GetLatestRun returns the most recently finished run.
func (d *DB) GetLatestRun(ctx context.Context) (*models.Run, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, provider, strategy, pings, workers, timeout_seconds, tested, succeeded, started_at, finished_at
		FROM runs ORDER BY finished_at DESC, id DESC LIMIT 1
	`)

	var run models.Run
	err := row.Scan(&run.ID, &run.Provider, &run.Strategy, &run.Pings, &run.Workers,
		&run.TimeoutSeconds, &run.Tested, &run.Succeeded, &run.StartedAt, &run.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, pkgerrors.ErrNoHistory
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest run: %w", err)
	}
	return &run, nil
}

// GetRunOutcomes returns all outcomes of a run, successes by ascending
// latency before failures.
func (d *DB) GetRunOutcomes(ctx context.Context, runID int64) ([]*models.Outcome, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, run_id, source, host, port, country_code, status,
			latency_ms, jitter_ms, packet_loss, attempts, succeeded, score, tested_at
		FROM outcomes WHERE run_id = ?
		ORDER BY latency_ms IS NULL, latency_ms ASC, id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	return scanOutcomes(rows)
}

// GetHostHistory returns the most recent outcomes for a host, newest first.
func (d *DB) GetHostHistory(ctx context.Context, host string, limit int) ([]*models.Outcome, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, run_id, source, host, port, country_code, status,
			latency_ms, jitter_ms, packet_loss, attempts, succeeded, score, tested_at
		FROM outcomes WHERE host = ?
		ORDER BY tested_at DESC, id DESC LIMIT ?
	`, host, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	return scanOutcomes(rows)
}

func scanOutcomes(rows *sql.Rows) ([]*models.Outcome, error) {
	var outcomes []*models.Outcome
	for rows.Next() {
		var o models.Outcome
		var countryCode sql.NullString
		err := rows.Scan(&o.ID, &o.RunID, &o.Source, &o.Host, &o.Port, &countryCode,
			&o.Status, &o.LatencyMS, &o.JitterMS, &o.PacketLoss,
			&o.Attempts, &o.Succeeded, &o.Score, &o.TestedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.CountryCode = countryCode.String
		outcomes = append(outcomes, &o)
	}
	return outcomes, rows.Err()
}

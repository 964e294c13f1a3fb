package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const timeLayout = time.RFC3339Nano

// RecordRun stores a run and its jobs in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run, jobs []JobRecord) error {
	ctx = ensureContext(ctx)
	if run.ID == "" {
		return errors.New("history: run id is required")
	}
	return retryOnBusy(ctx, func() error {
		return s.recordRun(ctx, run, jobs)
	})
}

func (s *Store) recordRun(ctx context.Context, run Run, jobs []JobRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (
		id, started_at, finished_at, input_root, output_root, fps, embed,
		success_count, failed_count, skipped_count, cancelled_count, cancelled
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		run.InputRoot,
		run.OutputRoot,
		run.FrameRate,
		boolToInt(run.Embed),
		run.SuccessCount,
		run.FailedCount,
		run.SkippedCount,
		run.CancelledCount,
		boolToInt(run.Cancelled),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO jobs (
		run_id, position, source_path, destination_path, status, error_message, duration_ms, transcoded
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare job insert: %w", err)
	}
	defer stmt.Close()

	for _, job := range jobs {
		if _, err := stmt.ExecContext(ctx,
			run.ID,
			job.Position,
			job.SourcePath,
			job.DestinationPath,
			job.Status,
			job.ErrorMessage,
			job.Duration.Milliseconds(),
			boolToInt(job.Transcoded),
		); err != nil {
			return fmt.Errorf("insert job %s: %w", job.SourcePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, started_at, finished_at, input_root, output_root, fps, embed,
		success_count, failed_count, skipped_count, cancelled_count, cancelled
		FROM runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT id, started_at, finished_at, input_root, output_root, fps, embed,
		success_count, failed_count, skipped_count, cancelled_count, cancelled
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// RunJobs returns the jobs of a run in processing order.
func (s *Store) RunJobs(ctx context.Context, runID string) ([]JobRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT position, source_path, destination_path, status,
		error_message, duration_ms, transcoded
		FROM jobs WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []JobRecord
	for rows.Next() {
		var (
			job        JobRecord
			durationMS int64
			transcoded int
		)
		if err := rows.Scan(&job.Position, &job.SourcePath, &job.DestinationPath, &job.Status,
			&job.ErrorMessage, &durationMS, &transcoded); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		job.Duration = time.Duration(durationMS) * time.Millisecond
		job.Transcoded = transcoded != 0
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run       Run
		started   string
		finished  string
		embed     int
		cancelled int
	)
	if err := row.Scan(&run.ID, &started, &finished, &run.InputRoot, &run.OutputRoot, &run.FrameRate, &embed,
		&run.SuccessCount, &run.FailedCount, &run.SkippedCount, &run.CancelledCount, &cancelled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.Embed = embed != 0
	run.Cancelled = cancelled != 0
	return run, nil
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized key for the batch run identifier.
	FieldRunID = "run_id"
	// FieldJobIndex is the standardized key for the 1-based job position within a batch.
	FieldJobIndex = "job_index"
	// FieldJobCount is the standardized key for the number of jobs in a batch.
	FieldJobCount = "job_count"
	// FieldSource is the standardized key for the source audio path of a job.
	FieldSource = "source"
	// FieldEventType tags log lines with a stable machine-readable event name.
	FieldEventType = "event_type"
)

type contextKey string

const (
	runIDKey contextKey = "run_id"
	jobKey   contextKey = "job"
)

type jobPosition struct {
	index  int
	total  int
	source string
}

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithJob annotates context with the position and source of the job being converted.
func WithJob(ctx context.Context, index, total int, source string) context.Context {
	return context.WithValue(ctx, jobKey, jobPosition{index: index, total: total, source: source})
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if job, ok := ctx.Value(jobKey).(jobPosition); ok {
		fields = append(fields,
			slog.Int(FieldJobIndex, job.index),
			slog.Int(FieldJobCount, job.total),
		)
		if job.source != "" {
			fields = append(fields, slog.String(FieldSource, job.source))
		}
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}

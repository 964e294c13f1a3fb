package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mxtoaaf/internal/container"
	"mxtoaaf/internal/logging"
	"mxtoaaf/internal/metadata"
	"mxtoaaf/internal/progress"
	"mxtoaaf/internal/report"
)

// Transcoder turns a compressed audio file into a PCM WAV.
type Transcoder interface {
	Available() bool
	Transcode(ctx context.Context, src, dst string) error
}

// Options configures an Orchestrator.
type Options struct {
	Extractor  metadata.Extractor
	Transcoder Transcoder
	Builder    container.Builder
	Sink       progress.Sink
	Logger     *slog.Logger
	// TagMap is forwarded to the container builder unchanged.
	TagMap map[string]string
	// ProgressLogPercent is the completion step between progress log lines
	// (default 10). The sink still receives every line.
	ProgressLogPercent float64
}

// Orchestrator runs conversions sequentially.
type Orchestrator struct {
	extractor  metadata.Extractor
	transcoder Transcoder
	builder    container.Builder
	sink       progress.Sink
	logger     *slog.Logger
	tagMap     map[string]string
	logPercent float64
}

// New constructs an Orchestrator. Extractor, Transcoder, and Builder are
// required.
func New(opts Options) (*Orchestrator, error) {
	if opts.Extractor == nil {
		return nil, errors.New("batch: metadata extractor is required")
	}
	if opts.Transcoder == nil {
		return nil, errors.New("batch: transcoder is required")
	}
	if opts.Builder == nil {
		return nil, errors.New("batch: container builder is required")
	}
	sink := opts.Sink
	if sink == nil {
		sink = progress.Discard
	}
	return &Orchestrator{
		extractor:  opts.Extractor,
		transcoder: opts.Transcoder,
		builder:    opts.Builder,
		sink:       sink,
		logger:     logging.NewComponentLogger(opts.Logger, "batch"),
		tagMap:     opts.TagMap,
		logPercent: opts.ProgressLogPercent,
	}, nil
}

// Request describes one batch.
type Request struct {
	InputRoot    string
	OutputRoot   string
	Recursive    bool
	Embed        bool
	SkipExisting bool
	// ResultsCSV and MetadataCSV are report paths; empty disables the report.
	ResultsCSV  string
	MetadataCSV string
	FrameRate   float64
}

// FileRequest describes a single-file conversion.
type FileRequest struct {
	Input       string
	OutputRoot  string
	Embed       bool
	ResultsCSV  string
	MetadataCSV string
	FrameRate   float64
}

// ProcessDirectory converts every audio file under req.InputRoot. Per-file
// failures are recorded in the returned Summary; the error is non-nil only
// for ErrConfiguration. Cancelling ctx stops the batch before the next file
// and marks the remaining jobs cancelled.
func (o *Orchestrator) ProcessDirectory(ctx context.Context, req Request) (Summary, error) {
	started := time.Now()
	logger := logging.WithContext(ctx, o.logger)

	if req.FrameRate <= 0 {
		return Summary{}, fmt.Errorf("%w: frame rate must be positive, got %v", ErrConfiguration, req.FrameRate)
	}
	if _, err := os.Stat(req.InputRoot); err != nil {
		return Summary{}, fmt.Errorf("%w: input %s: %w", ErrConfiguration, req.InputRoot, err)
	}
	if err := os.MkdirAll(req.OutputRoot, 0o755); err != nil {
		return Summary{}, fmt.Errorf("%w: create output root %s: %w", ErrConfiguration, req.OutputRoot, err)
	}

	candidates, err := discover(req.InputRoot, req.Recursive, logger)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	jobs := make([]Job, len(candidates))
	for i, c := range candidates {
		jobs[i] = Job{
			SourcePath:      c.path,
			DestinationPath: DestinationFor(req.OutputRoot, c.path),
			Embed:           req.Embed,
			FrameRate:       req.FrameRate,
		}
	}
	summary := Summary{OutputRoot: req.OutputRoot, Jobs: jobs}
	total := len(jobs)

	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_started"),
		logging.String("input", req.InputRoot),
		logging.String("output", req.OutputRoot),
		logging.Int(logging.FieldJobCount, total),
		logging.Bool("embed", req.Embed),
		logging.Float64("fps", req.FrameRate),
	)
	o.sink.Emit(fmt.Sprintf("Found %d audio file(s)", total))
	if req.Embed && !o.transcoder.Available() {
		logger.Warn("ffmpeg not found; compressed files cannot be embedded",
			logging.String(logging.FieldEventType, "transcoder_unavailable"),
			logging.String("impact", "non-wav sources will fail"),
		)
	}

	sampler := logging.NewProgressSampler(o.logPercent)
	for i := range jobs {
		job := &jobs[i]
		if ctx.Err() != nil {
			for j := i; j < total; j++ {
				jobs[j].finish(OutcomeCancelled, ctx.Err(), 0)
				summary.record(jobs[j])
			}
			summary.Cancelled = true
			logger.Warn("batch cancelled",
				logging.String(logging.FieldEventType, "batch_cancelled"),
				logging.Int("completed", i),
				logging.Int("remaining", total-i),
			)
			break
		}

		jobCtx := logging.WithJob(ctx, i+1, total, job.SourcePath)
		o.runJob(jobCtx, job, req.SkipExisting)
		summary.record(*job)

		line := progress.FormatProgress(i+1, total)
		o.sink.Emit(line)
		if sampler.ShouldLog(i+1, total) {
			logger.Info("batch progress",
				logging.String("progress", line),
				logging.Int("succeeded", summary.SuccessCount),
				logging.Int("failed", summary.FailedCount),
				logging.Int("skipped", summary.SkippedCount),
			)
		}
	}

	o.writeReports(ctx, req.ResultsCSV, req.MetadataCSV, jobs)

	summary.TotalDuration = time.Since(started)
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_finished"),
		logging.Int("succeeded", summary.SuccessCount),
		logging.Int("failed", summary.FailedCount),
		logging.Int("skipped", summary.SkippedCount),
		logging.Int("cancelled", summary.CancelledCount),
		logging.Duration("elapsed", summary.TotalDuration),
	)
	return summary, nil
}

func (o *Orchestrator) runJob(ctx context.Context, job *Job, skipExisting bool) {
	logger := logging.WithContext(ctx, o.logger)
	started := time.Now()

	if skipExisting {
		if _, err := os.Stat(job.DestinationPath); err == nil {
			job.finish(OutcomeSkipped, nil, time.Since(started))
			logger.Info("skipping existing output", logging.String("output", job.DestinationPath))
			o.sink.Emit("Skip (exists): " + filepath.Base(job.DestinationPath))
			return
		}
	}

	track, transcoded, err := o.convert(ctx, job.SourcePath, job.DestinationPath, job.Embed, job.FrameRate)
	job.Transcoded = transcoded
	if err != nil {
		job.finish(OutcomeFailed, err, time.Since(started))
		logger.Error("conversion failed",
			logging.String(logging.FieldEventType, "job_failed"),
			logging.Error(err),
		)
		o.sink.Emit(fmt.Sprintf("Failed: %s: %v", filepath.Base(job.SourcePath), err))
		return
	}
	job.Metadata = &track
	job.finish(OutcomeSuccess, nil, time.Since(started))
	logger.Info("aaf created",
		logging.String("output", job.DestinationPath),
		logging.Bool("transcoded", transcoded),
		logging.Duration("elapsed", job.Duration),
	)
}

// convert runs extract, optional transcode, and build for one file. It
// reports whether a transcode was attempted.
func (o *Orchestrator) convert(ctx context.Context, source, destination string, embed bool, fps float64) (metadata.Track, bool, error) {
	// Cancellation is honoured between files only; a started job runs through.
	track, err := o.extractor.Extract(context.WithoutCancel(ctx), source)
	if err != nil {
		return metadata.Track{}, false, fmt.Errorf("extract metadata: %w", err)
	}

	req := container.BuildRequest{
		AudioPath:       source,
		Metadata:        track,
		DestinationPath: destination,
		Embed:           embed,
		TagMap:          o.tagMap,
		FrameRate:       fps,
	}

	if !embed || IsWAV(source) {
		if _, err := o.builder.Build(ctx, req); err != nil {
			return metadata.Track{}, false, fmt.Errorf("build aaf: %w", err)
		}
		return track, false, nil
	}

	tmp := TempPathFor(filepath.Dir(destination), source)
	defer o.removeTemp(ctx, tmp)

	if err := o.transcoder.Transcode(ctx, source, tmp); err != nil {
		return metadata.Track{}, true, fmt.Errorf("transcode: %w", err)
	}
	req.AudioPath = tmp
	req.Embed = true
	if _, err := o.builder.Build(ctx, req); err != nil {
		return metadata.Track{}, true, fmt.Errorf("build aaf: %w", err)
	}
	return track, true, nil
}

func (o *Orchestrator) removeTemp(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.WithContext(ctx, o.logger).Warn("temporary wav cleanup failed",
			logging.String(logging.FieldEventType, "temp_cleanup_failed"),
			logging.String("path", path),
			logging.Error(err),
			logging.String("impact", "stray .tmp.wav left in output folder"),
		)
	}
}

// ConvertFile converts a single file and returns its finished Job. On error
// the job is marked failed and the destination, if present, must not be
// trusted.
func (o *Orchestrator) ConvertFile(ctx context.Context, req FileRequest) (Job, error) {
	job := Job{
		SourcePath: req.Input,
		Embed:      req.Embed,
		FrameRate:  req.FrameRate,
	}
	if req.FrameRate <= 0 {
		return job.failed(fmt.Errorf("%w: frame rate must be positive, got %v", ErrConfiguration, req.FrameRate), 0)
	}
	if _, err := os.Stat(req.Input); err != nil {
		return job.failed(fmt.Errorf("%w: input %s: %w", ErrConfiguration, req.Input, err), 0)
	}
	if err := os.MkdirAll(req.OutputRoot, 0o755); err != nil {
		return job.failed(fmt.Errorf("%w: create output root %s: %w", ErrConfiguration, req.OutputRoot, err), 0)
	}

	logger := logging.WithContext(ctx, o.logger)
	started := time.Now()
	job.DestinationPath = DestinationFor(req.OutputRoot, req.Input)
	track, transcoded, err := o.convert(ctx, req.Input, job.DestinationPath, req.Embed, req.FrameRate)
	job.Transcoded = transcoded
	if err != nil {
		logger.Error("conversion failed",
			logging.String(logging.FieldEventType, "job_failed"),
			logging.Source(req.Input),
			logging.Error(err),
		)
		return job.failed(err, time.Since(started))
	}

	job.Metadata = &track
	job.finish(OutcomeSuccess, nil, time.Since(started))
	logger.Info("aaf created",
		logging.Source(req.Input),
		logging.String("output", job.DestinationPath),
		logging.Bool("transcoded", transcoded),
		logging.Duration("elapsed", job.Duration),
	)
	o.writeReports(ctx, req.ResultsCSV, req.MetadataCSV, []Job{job})
	return job, nil
}

// writeReports appends CSV rows for finished jobs. Report failures are
// warnings; they never fail the conversion.
func (o *Orchestrator) writeReports(ctx context.Context, resultsPath, metadataPath string, jobs []Job) {
	logger := logging.WithContext(ctx, o.logger)
	if resultsPath != "" {
		rows := make([]report.ResultRow, 0, len(jobs))
		for i := range jobs {
			if jobs[i].Outcome == OutcomeCancelled || jobs[i].Pending() {
				continue
			}
			rows = append(rows, jobs[i].resultRow())
		}
		if err := report.AppendResults(resultsPath, rows...); err != nil {
			logger.Warn("results report not written",
				logging.String(logging.FieldEventType, "report_failed"),
				logging.String("path", resultsPath),
				logging.Error(err),
			)
			o.sink.Emit(fmt.Sprintf("Warning: unable to write CSV report: %v", err))
		}
	}
	if metadataPath != "" {
		var rows []report.MetadataRow
		for i := range jobs {
			if jobs[i].Outcome != OutcomeSuccess || jobs[i].Metadata == nil {
				continue
			}
			rows = append(rows, report.MetadataRow{ResultRow: jobs[i].resultRow(), Track: *jobs[i].Metadata})
		}
		if err := report.AppendMetadata(metadataPath, rows...); err != nil {
			logger.Warn("metadata report not written",
				logging.String(logging.FieldEventType, "report_failed"),
				logging.String("path", metadataPath),
				logging.Error(err),
			)
			o.sink.Emit(fmt.Sprintf("Warning: unable to write metadata CSV: %v", err))
		}
	}
}

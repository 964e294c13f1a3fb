package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mxtoaaf/internal/batch"
	"mxtoaaf/internal/config"
	"mxtoaaf/internal/container"
	"mxtoaaf/internal/history"
	"mxtoaaf/internal/logging"
	"mxtoaaf/internal/metadata"
	"mxtoaaf/internal/preflight"
	"mxtoaaf/internal/progress"
	"mxtoaaf/internal/report"
	"mxtoaaf/internal/transcode"
)

const fallbackFrameRate = 24.0

type convertOptions struct {
	output       string
	fps          string
	embed        bool
	skipExisting bool
	recursive    bool
	resultsCSV   bool
	metadataCSV  bool
	jsonOutput   bool
}

// convertPlan is the fully resolved set of inputs for one invocation.
type convertPlan struct {
	input        string
	isDir        bool
	outputRoot   string
	frameRate    float64
	embed        bool
	skipExisting bool
	recursive    bool
	resultsCSV   string
	metadataCSV  string
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a music file or folder into AAF files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			plan, err := resolveConvertPlan(cmd, cfg, opts, args[0], logger)
			if err != nil {
				return err
			}
			return runConvert(cmd, cfg, logger, plan, opts.jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output folder (always ends in the configured output folder name)")
	cmd.Flags().StringVar(&opts.fps, "fps", "", "Timeline frame rate (defaults to config, 24 when invalid)")
	cmd.Flags().BoolVar(&opts.embed, "embed", true, "Embed audio in the AAF instead of linking it")
	cmd.Flags().BoolVar(&opts.skipExisting, "skip-existing", true, "Skip files whose AAF already exists")
	cmd.Flags().BoolVar(&opts.recursive, "recursive", true, "Descend into subfolders")
	cmd.Flags().BoolVar(&opts.resultsCSV, "results-csv", false, "Append per-file results to results.csv in the output folder")
	cmd.Flags().BoolVar(&opts.metadataCSV, "metadata-csv", false, "Append extracted tags to metadata.csv in the output folder")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the run summary as JSON")
	return cmd
}

// resolveConvertPlan merges flags over config. Flags only win when set
// explicitly.
func resolveConvertPlan(cmd *cobra.Command, cfg *config.Config, opts convertOptions, rawInput string, logger *slog.Logger) (convertPlan, error) {
	input, err := config.ExpandPath(strings.TrimSpace(rawInput))
	if err != nil {
		return convertPlan{}, fmt.Errorf("resolve input: %w", err)
	}
	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return convertPlan{}, fmt.Errorf("source not found: %s", input)
		}
		return convertPlan{}, fmt.Errorf("inspect input: %w", err)
	}

	flags := cmd.Flags()
	plan := convertPlan{
		input:        input,
		isDir:        info.IsDir(),
		frameRate:    cfg.Convert.FrameRate,
		embed:        cfg.Convert.Embed,
		skipExisting: cfg.Convert.SkipExisting,
		recursive:    cfg.Convert.Recursive,
	}
	if flags.Changed("embed") {
		plan.embed = opts.embed
	}
	if flags.Changed("skip-existing") {
		plan.skipExisting = opts.skipExisting
	}
	if flags.Changed("recursive") {
		plan.recursive = opts.recursive
	}
	if flags.Changed("fps") {
		fps, ok := parseFrameRate(opts.fps)
		if !ok {
			logger.Warn("invalid frame rate; using default",
				logging.String("value", opts.fps),
				logging.Float64("fps", fallbackFrameRate),
			)
		}
		plan.frameRate = fps
	}

	folder := cfg.Convert.OutputFolderName
	if out := strings.TrimSpace(opts.output); out != "" {
		expanded, err := config.ExpandPath(out)
		if err != nil {
			return convertPlan{}, fmt.Errorf("resolve output: %w", err)
		}
		plan.outputRoot = batch.ForceOutputFolder(expanded, folder)
	} else {
		plan.outputRoot = batch.DefaultOutputRoot(input, plan.isDir, folder)
	}

	resultsCSV := cfg.Convert.ResultsCSV
	if flags.Changed("results-csv") {
		resultsCSV = opts.resultsCSV
	}
	if resultsCSV {
		plan.resultsCSV = filepath.Join(plan.outputRoot, report.ResultsFileName)
	}
	metadataCSV := cfg.Convert.MetadataCSV
	if flags.Changed("metadata-csv") {
		metadataCSV = opts.metadataCSV
	}
	if metadataCSV {
		plan.metadataCSV = filepath.Join(plan.outputRoot, report.MetadataFileName)
	}
	return plan, nil
}

// parseFrameRate accepts positive decimal frame rates. Anything else yields
// the fallback and false.
func parseFrameRate(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fallbackFrameRate, false
	}
	return value, true
}

func newOrchestrator(cfg *config.Config, logger *slog.Logger, sink progress.Sink) (*batch.Orchestrator, *transcode.Bridge, error) {
	bridge := transcode.New(transcode.Options{
		Resolver: transcode.NewResolver(cfg.Transcode.BundleDir),
		Params: transcode.Params{
			SampleRate: cfg.Transcode.SampleRate,
			BitDepth:   cfg.Transcode.BitDepth,
			Channels:   cfg.Transcode.Channels,
		},
		SettleDelay: cfg.SettleDelay(),
		Logger:      logger,
	})
	writer, writerArgs := cfg.WriterCommand()
	orchestrator, err := batch.New(batch.Options{
		Extractor:  metadata.NewFFprobeExtractor(cfg.FFprobeBinary(), logger),
		Transcoder: bridge,
		Builder:    container.NewExecBuilder(writer, writerArgs, logger),
		Sink:       sink,
		Logger:     logger,
		TagMap:     cfg.Container.TagMap,
	})
	if err != nil {
		return nil, nil, err
	}
	return orchestrator, bridge, nil
}

func runConvert(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, plan convertPlan, jsonOutput bool) error {
	if failed := preflight.Failed(preflight.RunAll(cfg, plan.input, plan.outputRoot)); len(failed) > 0 {
		parts := make([]string, 0, len(failed))
		for _, r := range failed {
			parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
		return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		out = io.Discard
	}
	interactive := !jsonOutput && shouldColorize(cmd.OutOrStdout())

	lines := make(chan string, 64)
	orchestrator, bridge, err := newOrchestrator(cfg, logger, progress.Channel(lines))
	if err != nil {
		return err
	}
	if bridge.Params().BitDepth == 24 {
		logger.Warn("24-bit output requested; some editors import 16-bit AAF audio only",
			logging.Int("bit_depth", 24),
		)
	}

	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	runID := history.NewRunID()
	runCtx := logging.WithRunID(baseCtx, runID)

	fmt.Fprintln(out, "Starting conversion")
	fmt.Fprintf(out, "Frame rate: %s fps\n", strconv.FormatFloat(plan.frameRate, 'f', -1, 64))
	fmt.Fprintf(out, "Embed audio: %s\n", yesNo(plan.embed))
	fmt.Fprintf(out, "Input: %s\n", plan.input)
	fmt.Fprintf(out, "Output: %s\n", plan.outputRoot)

	started := time.Now()
	var (
		summary batch.Summary
		job     batch.Job
		runErr  error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(lines)
		if plan.isDir {
			summary, runErr = orchestrator.ProcessDirectory(runCtx, batch.Request{
				InputRoot:    plan.input,
				OutputRoot:   plan.outputRoot,
				Recursive:    plan.recursive,
				Embed:        plan.embed,
				SkipExisting: plan.skipExisting,
				ResultsCSV:   plan.resultsCSV,
				MetadataCSV:  plan.metadataCSV,
				FrameRate:    plan.frameRate,
			})
			return
		}
		job, runErr = orchestrator.ConvertFile(runCtx, batch.FileRequest{
			Input:       plan.input,
			OutputRoot:  plan.outputRoot,
			Embed:       plan.embed,
			ResultsCSV:  plan.resultsCSV,
			MetadataCSV: plan.metadataCSV,
			FrameRate:   plan.frameRate,
		})
	}()
	drainProgress(out, lines, interactive)
	<-done

	if !plan.isDir {
		summary = singleFileSummary(plan, job, time.Since(started))
	}
	recordHistory(runCtx, cfg, logger, runID, plan, started, summary)

	if !plan.isDir {
		if runErr != nil {
			if batch.IsSourceMissing(runErr, plan.input) {
				return fmt.Errorf("source not found: the file is no longer available or cannot be accessed: %s", plan.input)
			}
			return fmt.Errorf("convert %s: %w", filepath.Base(plan.input), runErr)
		}
		if jsonOutput {
			return writeJSON(cmd, newRunView(runID, plan, summary))
		}
		fmt.Fprintf(out, "✓ Created: %s\n", job.DestinationPath)
		fmt.Fprintf(out, "Duration: %.1fs\n", summary.TotalDuration.Seconds())
		return nil
	}

	if runErr != nil {
		return runErr
	}
	if jsonOutput {
		if err := writeJSON(cmd, newRunView(runID, plan, summary)); err != nil {
			return err
		}
	} else {
		renderSummary(out, summary)
	}
	if summary.Cancelled {
		return context.Canceled
	}
	return nil
}

// drainProgress prints sink lines until the channel closes. On a terminal
// the n/total lines overwrite each other in place.
func drainProgress(out io.Writer, lines <-chan string, interactive bool) {
	inPlace := false
	for line := range lines {
		_, _, isProgress := progress.ParseProgress(line)
		if interactive && isProgress {
			fmt.Fprintf(out, "\r\x1b[2K%s", line)
			inPlace = true
			continue
		}
		if inPlace {
			fmt.Fprintln(out)
			inPlace = false
		}
		fmt.Fprintln(out, line)
	}
	if inPlace {
		fmt.Fprintln(out)
	}
}

func singleFileSummary(plan convertPlan, job batch.Job, elapsed time.Duration) batch.Summary {
	if job.DestinationPath == "" {
		job.DestinationPath = batch.DestinationFor(plan.outputRoot, plan.input)
	}
	summary := batch.Summary{OutputRoot: plan.outputRoot, TotalDuration: elapsed}
	switch job.Outcome {
	case batch.OutcomeSuccess:
		summary.SuccessCount = 1
	default:
		summary.FailedCount = 1
	}
	summary.Jobs = []batch.Job{job}
	return summary
}

// recordHistory writes the run ledger. Failures are logged; the conversion
// result stands regardless.
func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID string, plan convertPlan, started time.Time, summary batch.Summary) {
	if strings.TrimSpace(cfg.Paths.HistoryDB) == "" {
		return
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		logger.Warn("history unavailable",
			logging.String(logging.FieldEventType, "history_open_failed"),
			logging.Error(err),
			logging.String("impact", "run not recorded"),
		)
		return
	}
	defer store.Close()

	run := history.Run{
		ID:             runID,
		StartedAt:      started,
		FinishedAt:     time.Now(),
		InputRoot:      plan.input,
		OutputRoot:     plan.outputRoot,
		FrameRate:      plan.frameRate,
		Embed:          plan.embed,
		SuccessCount:   summary.SuccessCount,
		FailedCount:    summary.FailedCount,
		SkippedCount:   summary.SkippedCount,
		CancelledCount: summary.CancelledCount,
		Cancelled:      summary.Cancelled,
	}
	jobs := make([]history.JobRecord, 0, len(summary.Jobs))
	for i, job := range summary.Jobs {
		jobs = append(jobs, history.JobRecord{
			Position:        i + 1,
			SourcePath:      job.SourcePath,
			DestinationPath: job.DestinationPath,
			Status:          string(job.Outcome),
			ErrorMessage:    job.ErrorMessage,
			Duration:        job.Duration,
			Transcoded:      job.Transcoded,
		})
	}
	if err := store.RecordRun(context.WithoutCancel(ctx), run, jobs); err != nil {
		logger.Warn("history write failed",
			logging.String(logging.FieldEventType, "history_write_failed"),
			logging.Error(err),
			logging.String("impact", "run not recorded"),
		)
	}
}

type jobView struct {
	Source          string  `json:"source"`
	Destination     string  `json:"destination"`
	Status          string  `json:"status"`
	Error           string  `json:"error,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
	Transcoded      bool    `json:"transcoded"`
}

type runView struct {
	RunID           string    `json:"run_id"`
	Input           string    `json:"input"`
	Output          string    `json:"output"`
	FrameRate       float64   `json:"fps"`
	Embed           bool      `json:"embed"`
	Success         int       `json:"success"`
	Failed          int       `json:"failed"`
	Skipped         int       `json:"skipped"`
	CancelledFiles  int       `json:"cancelled_files"`
	Cancelled       bool      `json:"cancelled"`
	DurationSeconds float64   `json:"duration_seconds"`
	Jobs            []jobView `json:"jobs"`
}

func newRunView(runID string, plan convertPlan, summary batch.Summary) runView {
	view := runView{
		RunID:           runID,
		Input:           plan.input,
		Output:          summary.OutputRoot,
		FrameRate:       plan.frameRate,
		Embed:           plan.embed,
		Success:         summary.SuccessCount,
		Failed:          summary.FailedCount,
		Skipped:         summary.SkippedCount,
		CancelledFiles:  summary.CancelledCount,
		Cancelled:       summary.Cancelled,
		DurationSeconds: summary.TotalDuration.Seconds(),
		Jobs:            make([]jobView, 0, len(summary.Jobs)),
	}
	for _, job := range summary.Jobs {
		view.Jobs = append(view.Jobs, jobView{
			Source:          job.SourcePath,
			Destination:     job.DestinationPath,
			Status:          string(job.Outcome),
			Error:           job.ErrorMessage,
			DurationSeconds: job.Duration.Seconds(),
			Transcoded:      job.Transcoded,
		})
	}
	return view
}

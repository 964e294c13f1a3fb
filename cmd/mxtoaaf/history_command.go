package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mxtoaaf/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent conversion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if jsonOutput {
				views := make([]historyRunView, 0, len(runs))
				for _, run := range runs {
					views = append(views, newHistoryRunView(run))
				}
				return writeJSON(cmd, views)
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					filepath.Base(run.InputRoot),
					strconv.Itoa(run.SuccessCount),
					strconv.Itoa(run.FailedCount),
					strconv.Itoa(run.SkippedCount),
					formatElapsed(run.Duration()),
					runState(run),
				})
			}
			fmt.Fprint(out, renderTable(
				[]string{"Run", "Started", "Input", "OK", "Failed", "Skipped", "Duration", "State"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
				40,
			))
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the files of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, history.ErrRunNotFound) {
					return fmt.Errorf("run %s not found", args[0])
				}
				return fmt.Errorf("load run: %w", err)
			}
			jobs, err := store.RunJobs(cmd.Context(), run.ID)
			if err != nil {
				return fmt.Errorf("load run files: %w", err)
			}

			if jsonOutput {
				view := newHistoryRunView(run)
				view.Jobs = make([]jobView, 0, len(jobs))
				for _, job := range jobs {
					view.Jobs = append(view.Jobs, jobView{
						Source:          job.SourcePath,
						Destination:     job.DestinationPath,
						Status:          job.Status,
						Error:           job.ErrorMessage,
						DurationSeconds: job.Duration.Seconds(),
						Transcoded:      job.Transcoded,
					})
				}
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run: %s\n", run.ID)
			fmt.Fprintf(out, "Input: %s\n", run.InputRoot)
			fmt.Fprintf(out, "Output: %s\n", run.OutputRoot)
			fmt.Fprintf(out, "Frame rate: %g fps\n", run.FrameRate)
			fmt.Fprintf(out, "Embed audio: %s\n", yesNo(run.Embed))
			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					strconv.Itoa(job.Position),
					filepath.Base(job.SourcePath),
					job.Status,
					formatElapsed(job.Duration),
					job.ErrorMessage,
				})
			}
			fmt.Fprint(out, renderTable(
				[]string{"#", "File", "Status", "Duration", "Error"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				60,
			))
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func runState(run history.Run) string {
	switch {
	case run.Cancelled:
		return "cancelled"
	case run.FailedCount > 0:
		return "with failures"
	default:
		return "ok"
	}
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

type historyRunView struct {
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
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
	Jobs            []jobView `json:"jobs,omitempty"`
}

func newHistoryRunView(run history.Run) historyRunView {
	return historyRunView{
		RunID:           run.ID,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
		Input:           run.InputRoot,
		Output:          run.OutputRoot,
		FrameRate:       run.FrameRate,
		Embed:           run.Embed,
		Success:         run.SuccessCount,
		Failed:          run.FailedCount,
		Skipped:         run.SkippedCount,
		CancelledFiles:  run.CancelledCount,
		Cancelled:       run.Cancelled,
		DurationSeconds: run.Duration().Seconds(),
	}
}

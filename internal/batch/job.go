package batch

import (
	"path/filepath"
	"strings"
	"time"

	"mxtoaaf/internal/metadata"
	"mxtoaaf/internal/report"
)

// Outcome is the terminal state of a Job. The zero value means pending.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeCancelled Outcome = "cancelled"
)

// Job is the conversion of one source file into one AAF.
type Job struct {
	SourcePath      string
	DestinationPath string
	Embed           bool
	FrameRate       float64

	Outcome      Outcome
	Err          error
	ErrorMessage string
	Duration     time.Duration
	Transcoded   bool
	Metadata     *metadata.Track
}

// DestinationFor returns <outputRoot>/<source basename without extension>.aaf.
func DestinationFor(outputRoot, source string) string {
	return filepath.Join(outputRoot, baseName(source)+".aaf")
}

// TempPathFor returns the temporary WAV used while embedding source.
func TempPathFor(outputRoot, source string) string {
	return filepath.Join(outputRoot, baseName(source)+tempSuffix)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Pending reports whether the job has not reached a terminal outcome.
func (j *Job) Pending() bool {
	return j.Outcome == ""
}

// finish moves a pending job to its terminal outcome. Later calls are ignored.
func (j *Job) finish(outcome Outcome, err error, elapsed time.Duration) {
	if !j.Pending() {
		return
	}
	j.Outcome = outcome
	j.Err = err
	if err != nil {
		j.ErrorMessage = err.Error()
	}
	j.Duration = elapsed
}

func (j Job) failed(err error, elapsed time.Duration) (Job, error) {
	j.finish(OutcomeFailed, err, elapsed)
	return j, err
}

func (j *Job) resultRow() report.ResultRow {
	row := report.ResultRow{
		Input:    j.SourcePath,
		Status:   j.reportStatus(),
		Error:    j.ErrorMessage,
		Duration: j.Duration,
	}
	if j.Outcome != OutcomeFailed {
		row.Output = j.DestinationPath
	}
	return row
}

func (j *Job) reportStatus() string {
	switch j.Outcome {
	case OutcomeSuccess:
		return report.StatusSuccess
	case OutcomeSkipped:
		return report.StatusSkipped
	default:
		return report.StatusFailed
	}
}

// Summary aggregates the jobs of one batch.
type Summary struct {
	SuccessCount   int
	FailedCount    int
	SkippedCount   int
	CancelledCount int
	TotalDuration  time.Duration
	Cancelled      bool
	OutputRoot     string
	Jobs           []Job
}

// Total returns the number of candidate files found.
func (s Summary) Total() int {
	return len(s.Jobs)
}

// Failures returns the failed jobs in processing order.
func (s Summary) Failures() []Job {
	var failed []Job
	for _, job := range s.Jobs {
		if job.Outcome == OutcomeFailed {
			failed = append(failed, job)
		}
	}
	return failed
}

func (s *Summary) record(job Job) {
	switch job.Outcome {
	case OutcomeSuccess:
		s.SuccessCount++
	case OutcomeFailed:
		s.FailedCount++
	case OutcomeSkipped:
		s.SkippedCount++
	case OutcomeCancelled:
		s.CancelledCount++
	}
}

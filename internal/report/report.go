package report

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"

	"mxtoaaf/internal/metadata"
)

const (
	// ResultsFileName is the results report written into the output root.
	ResultsFileName = "results.csv"
	// MetadataFileName is the metadata report written into the output root.
	MetadataFileName = "metadata.csv"
)

// Status values recorded in the status column.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

var resultsHeader = []string{"input", "output", "status", "error", "duration_s"}

// ResultRow is one line of the results report.
type ResultRow struct {
	Input    string
	Output   string
	Status   string
	Error    string
	Duration time.Duration
}

// MetadataRow is one line of the metadata report.
type MetadataRow struct {
	ResultRow
	Track metadata.Track
}

// ResultsHeader returns the results report column names.
func ResultsHeader() []string {
	return append([]string(nil), resultsHeader...)
}

// MetadataHeader returns the metadata report column names.
func MetadataHeader() []string {
	return append(ResultsHeader(), metadata.FieldNames()...)
}

func (r ResultRow) record() []string {
	return []string{r.Input, r.Output, r.Status, r.Error, FormatSeconds(r.Duration)}
}

func (r MetadataRow) record() []string {
	return append(r.ResultRow.record(), r.Track.Values()...)
}

// FormatSeconds renders a duration as seconds with millisecond precision.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

// AppendResults appends rows to the results report at path.
func AppendResults(path string, rows ...ResultRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return appendRecords(path, resultsHeader, records)
}

// AppendMetadata appends rows to the metadata report at path.
func AppendMetadata(path string, rows ...MetadataRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return appendRecords(path, MetadataHeader(), records)
}

// lockPath returns the lock file guarding report path. It lives in the temp
// directory so the output folder only holds AAFs and reports.
func lockPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha256.Sum256([]byte(path))
	return filepath.Join(os.TempDir(), "mxtoaaf-report-"+hex.EncodeToString(sum[:8])+".lock")
}

func appendRecords(path string, header []string, records [][]string) error {
	if path == "" {
		return fmt.Errorf("append report: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure report directory: %w", err)
	}

	lock := flock.New(lockPath(path))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock report %s: %w", path, err)
	}
	defer func() { _ = lock.Unlock() }()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open report %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat report %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("write report header: %w", err)
		}
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("write report rows: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close report %s: %w", path, err)
	}
	return nil
}

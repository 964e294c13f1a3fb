// Package progress carries human-readable status lines from a running batch
// to whatever is displaying it.
package progress

import (
	"fmt"
	"strconv"
	"strings"
)

// Sink receives progress and status lines. Implementations must tolerate
// being called from the goroutine running the batch.
type Sink interface {
	Emit(line string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(line string)

// Emit calls f(line).
func (f SinkFunc) Emit(line string) { f(line) }

// Discard drops every line.
var Discard Sink = SinkFunc(func(string) {})

// Channel returns a Sink that forwards lines to ch. Sends block until the
// receiver drains them.
func Channel(ch chan<- string) Sink {
	return SinkFunc(func(line string) { ch <- line })
}

// Recorder keeps every emitted line in order.
type Recorder struct {
	Lines []string
}

// Emit appends line.
func (r *Recorder) Emit(line string) { r.Lines = append(r.Lines, line) }

// FormatProgress renders the per-job progress line, e.g. "3/12 (25.0%)".
func FormatProgress(completed, total int) string {
	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	return fmt.Sprintf("%d/%d (%.1f%%)", completed, total, pct)
}

// ParseProgress extracts the completed and total counts from a progress line.
// Only lines containing both "/" and "%" are considered; the first
// whitespace-separated token that starts with a digit and contains "/" is
// parsed.
func ParseProgress(line string) (completed, total int, ok bool) {
	if !strings.Contains(line, "/") || !strings.Contains(line, "%") {
		return 0, 0, false
	}
	for _, field := range strings.Fields(line) {
		if field[0] < '0' || field[0] > '9' || !strings.Contains(field, "/") {
			continue
		}
		left, right, _ := strings.Cut(field, "/")
		n, err := strconv.Atoi(left)
		if err != nil {
			return 0, 0, false
		}
		d, err := strconv.Atoi(right)
		if err != nil {
			return 0, 0, false
		}
		return n, d, true
	}
	return 0, 0, false
}

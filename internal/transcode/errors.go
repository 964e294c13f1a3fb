package transcode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable reports that no ffmpeg binary could be resolved.
	ErrUnavailable = errors.New("transcoder unavailable")
	// ErrNoOutput reports that ffmpeg exited cleanly but the destination is missing.
	ErrNoOutput = errors.New("transcode produced no output")
)

// FailedError reports a non-zero ffmpeg exit.
type FailedError struct {
	Source   string
	ExitCode int
	Stderr   string
	Stdout   string
	Err      error
}

func (e *FailedError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(e.Stdout)
	}
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}
	return fmt.Sprintf("ffmpeg failed to convert %s (exit %d): %s", e.Source, e.ExitCode, detail)
}

func (e *FailedError) Unwrap() error { return e.Err }

// SuspiciousOutputError reports a destination file too small to be a real WAV.
type SuspiciousOutputError struct {
	Path      string
	SizeBytes int64
}

func (e *SuspiciousOutputError) Error() string {
	return fmt.Sprintf("transcode output %s is suspiciously small (%d bytes)", e.Path, e.SizeBytes)
}

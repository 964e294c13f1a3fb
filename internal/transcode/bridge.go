package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"mxtoaaf/internal/logging"
)

// MinOutputBytes is the smallest size accepted for a produced WAV. Any real
// PCM WAV with audible content exceeds it; anything smaller is a truncated
// write that ffmpeg failed to report.
const MinOutputBytes = 1000

// DefaultSettleDelay is the pause after a verified transcode before the file
// is handed to the next tool.
const DefaultSettleDelay = 250 * time.Millisecond

// Options configures a Bridge.
type Options struct {
	Resolver    *Resolver
	Params      Params
	SettleDelay time.Duration
	Logger      *slog.Logger
}

// Bridge runs ffmpeg to produce standard PCM WAV files.
type Bridge struct {
	resolver *Resolver
	params   Params
	settle   time.Duration
	logger   *slog.Logger
}

// New constructs a Bridge. A nil Resolver uses the process-wide Default.
// A negative SettleDelay disables the pause.
func New(opts Options) *Bridge {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = Default()
	}
	settle := opts.SettleDelay
	if settle < 0 {
		settle = 0
	}
	return &Bridge{
		resolver: resolver,
		params:   opts.Params.withDefaults(),
		settle:   settle,
		logger:   logging.NewComponentLogger(opts.Logger, "transcode"),
	}
}

// Available reports whether an ffmpeg binary resolves.
func (b *Bridge) Available() bool {
	return b.resolver.Available()
}

// Resolution returns the resolved binary, or ErrUnavailable.
func (b *Bridge) Resolution() (Resolution, error) {
	return b.resolver.Resolve()
}

// Params returns the forced output parameters.
func (b *Bridge) Params() Params {
	return b.params
}

// Transcode converts src into a PCM WAV at dst, overwriting dst. Callers must
// not read dst before Transcode returns.
func (b *Bridge) Transcode(ctx context.Context, src, dst string) error {
	res, err := b.resolver.Resolve()
	if err != nil {
		return err
	}

	logger := logging.WithContext(ctx, b.logger)
	args := BuildArgs(b.params, src, dst)
	logger.Debug("running ffmpeg",
		logging.String("binary", res.Path),
		logging.Bool("bundled", res.Bundled),
		logging.String("args", strings.Join(args, " ")),
	)

	// A started conversion runs to completion regardless of cancellation.
	cmd := exec.CommandContext(context.WithoutCancel(ctx), res.Path, args...)
	configureCommand(cmd, res)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &FailedError{
			Source:   src,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Stdout:   stdout.String(),
			Err:      err,
		}
	}

	info, err := os.Stat(dst)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoOutput, dst)
		}
		return fmt.Errorf("inspect transcode output: %w", err)
	}
	if info.Size() < MinOutputBytes {
		return &SuspiciousOutputError{Path: dst, SizeBytes: info.Size()}
	}

	logger.Info("transcode complete",
		logging.String("output", dst),
		logging.Int64("size_bytes", info.Size()),
		logging.Duration("elapsed", time.Since(started)),
	)

	if b.settle > 0 {
		time.Sleep(b.settle)
	}
	return nil
}

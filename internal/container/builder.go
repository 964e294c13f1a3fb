package container

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"mxtoaaf/internal/logging"
	"mxtoaaf/internal/metadata"
	"mxtoaaf/internal/procattr"
)

// ErrBuildFailed reports that the AAF container could not be produced.
var ErrBuildFailed = errors.New("aaf build failed")

// BuildRequest describes one AAF to produce.
type BuildRequest struct {
	AudioPath       string            `json:"audio_path"`
	Metadata        metadata.Track    `json:"metadata"`
	DestinationPath string            `json:"destination_path"`
	Embed           bool              `json:"embed"`
	TagMap          map[string]string `json:"tag_map,omitempty"`
	FrameRate       float64           `json:"fps"`
}

// Builder produces AAF containers.
type Builder interface {
	Build(ctx context.Context, req BuildRequest) (string, error)
}

// ExecBuilder runs an external writer for every build.
type ExecBuilder struct {
	command string
	args    []string
	logger  *slog.Logger
}

// NewExecBuilder returns a builder that runs command with args.
func NewExecBuilder(command string, args []string, logger *slog.Logger) *ExecBuilder {
	return &ExecBuilder{
		command: strings.TrimSpace(command),
		args:    append([]string(nil), args...),
		logger:  logging.NewComponentLogger(logger, "container"),
	}
}

// Command returns the writer executable.
func (b *ExecBuilder) Command() string {
	return b.command
}

// Build implements Builder. The writer runs to completion once started.
func (b *ExecBuilder) Build(ctx context.Context, req BuildRequest) (string, error) {
	if b.command == "" {
		return "", fmt.Errorf("%w: no writer configured", ErrBuildFailed)
	}
	if strings.TrimSpace(req.DestinationPath) == "" {
		return "", fmt.Errorf("%w: empty destination", ErrBuildFailed)
	}
	if req.FrameRate <= 0 {
		return "", fmt.Errorf("%w: frame rate must be positive", ErrBuildFailed)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", ErrBuildFailed, err)
	}

	logger := logging.WithContext(ctx, b.logger)
	logger.Debug("running aaf writer",
		logging.String("writer", b.command),
		logging.String("audio", req.AudioPath),
		logging.Bool("embed", req.Embed),
	)

	cmd := exec.CommandContext(context.WithoutCancel(ctx), b.command, b.args...)
	procattr.Detach(cmd)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail == "" {
			return "", fmt.Errorf("%w: %w", ErrBuildFailed, err)
		}
		return "", fmt.Errorf("%w: %w: %s", ErrBuildFailed, err, detail)
	}

	info, err := os.Stat(req.DestinationPath)
	if err != nil {
		return "", fmt.Errorf("%w: destination not created: %w", ErrBuildFailed, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: destination %s is a directory", ErrBuildFailed, req.DestinationPath)
	}

	logger.Debug("aaf writer finished",
		logging.String("output", req.DestinationPath),
		logging.Int64("size_bytes", info.Size()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return req.DestinationPath, nil
}

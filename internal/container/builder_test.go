package container

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mxtoaaf/internal/metadata"
	"mxtoaaf/internal/testsupport"
)

func TestExecBuilderSendsRequest(t *testing.T) {
	testsupport.RequireShell(t)

	dir := t.TempDir()
	captured := filepath.Join(dir, "request.json")
	dst := filepath.Join(dir, "out", "song.aaf")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writer := testsupport.WriteScript(t, dir, "writer", "cat > '"+captured+"'\n: > '"+dst+"'\n")

	builder := NewExecBuilder(writer, nil, nil)
	req := BuildRequest{
		AudioPath:       "/tmp/song.tmp.wav",
		Metadata:        metadata.Track{TrackName: "Song", TrackNumber: 2},
		DestinationPath: dst,
		Embed:           true,
		TagMap:          map[string]string{"catalog_number": "Catalog #"},
		FrameRate:       25,
	}
	got, err := builder.Build(context.Background(), req)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got != dst {
		t.Fatalf("unexpected output path %q", got)
	}

	data, err := os.ReadFile(captured)
	if err != nil {
		t.Fatalf("read captured request: %v", err)
	}
	var decoded BuildRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if decoded.AudioPath != req.AudioPath || !decoded.Embed || decoded.FrameRate != 25 {
		t.Fatalf("unexpected request: %+v", decoded)
	}
	if decoded.Metadata.TrackName != "Song" || decoded.TagMap["catalog_number"] != "Catalog #" {
		t.Fatalf("unexpected metadata or tag map: %+v", decoded)
	}
}

func TestExecBuilderPassesArgs(t *testing.T) {
	testsupport.RequireShell(t)

	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	dst := filepath.Join(dir, "a.aaf")
	writer := testsupport.WriteScript(t, dir, "writer", "echo \"$@\" > '"+argsFile+"'\n: > '"+dst+"'\n")

	builder := NewExecBuilder(writer, []string{"--mode", "music"}, nil)
	if _, err := builder.Build(context.Background(), BuildRequest{DestinationPath: dst, FrameRate: 24}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, _ := os.ReadFile(argsFile)
	if strings.TrimSpace(string(data)) != "--mode music" {
		t.Fatalf("unexpected writer args %q", data)
	}
}

func TestExecBuilderFailures(t *testing.T) {
	testsupport.RequireShell(t)

	dir := t.TempDir()
	dst := filepath.Join(dir, "a.aaf")

	failing := testsupport.WriteScript(t, dir, "failing", "echo 'bad essence' >&2\nexit 3\n")
	_, err := NewExecBuilder(failing, nil, nil).Build(context.Background(), BuildRequest{DestinationPath: dst, FrameRate: 24})
	if !errors.Is(err, ErrBuildFailed) || !strings.Contains(err.Error(), "bad essence") {
		t.Fatalf("expected ErrBuildFailed with stderr, got %v", err)
	}

	silent := testsupport.WriteScript(t, dir, "silent", "exit 0\n")
	_, err = NewExecBuilder(silent, nil, nil).Build(context.Background(), BuildRequest{DestinationPath: dst, FrameRate: 24})
	if !errors.Is(err, ErrBuildFailed) || !strings.Contains(err.Error(), "not created") {
		t.Fatalf("expected missing destination error, got %v", err)
	}

	_, err = NewExecBuilder("", nil, nil).Build(context.Background(), BuildRequest{DestinationPath: dst, FrameRate: 24})
	if !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("expected ErrBuildFailed without writer, got %v", err)
	}

	_, err = NewExecBuilder(silent, nil, nil).Build(context.Background(), BuildRequest{DestinationPath: dst})
	if !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("expected ErrBuildFailed for zero fps, got %v", err)
	}
}

package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const samplePayload = `{
  "streams": [
    {"index": 0, "codec_name": "mjpeg", "codec_type": "video", "tags": {"title": "cover"}},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "44100", "channels": 2,
     "duration": "181.5", "tags": {"language": "und", "COMPOSER": "Stream Composer"}}
  ],
  "format": {
    "filename": "song.m4a",
    "nb_streams": 2,
    "duration": "181.493",
    "size": "2900000",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "tags": {"title": "Night Drive", "ARTIST": "The Example", "track": "3/12", "genre": "  "}
  }
}`

func TestParseAndHelpers(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 181.493 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 2900000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if got := result.Tag("artist"); got != "The Example" {
		t.Fatalf("expected case-insensitive artist lookup, got %q", got)
	}
	if got := result.Tag("composer"); got != "Stream Composer" {
		t.Fatalf("expected stream tag fallback, got %q", got)
	}
	if got := result.Tag("genre"); got != "" {
		t.Fatalf("expected blank genre ignored, got %q", got)
	}
	if got := result.Tag("album_artist", "artist"); got != "The Example" {
		t.Fatalf("expected fallback key, got %q", got)
	}
}

func TestDurationFallsBackToAudioStream(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio", Duration: "12.5"}}}
	if result.DurationSeconds() != 12.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestInspectUsesBinaryOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are not supported on windows")
	}
	dir := t.TempDir()
	payloadPath := filepath.Join(dir, "payload.json")
	if err := os.WriteFile(payloadPath, []byte(samplePayload), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho 'warning on stderr' >&2\ncat '" + payloadPath + "'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "song.m4a")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if result.Tag("title") != "Night Drive" {
		t.Fatalf("unexpected title: %q", result.Tag("title"))
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", "  "); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

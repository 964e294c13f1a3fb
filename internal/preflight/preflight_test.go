package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"mxtoaaf/internal/testsupport"
	"mxtoaaf/internal/transcode"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckInputAccess(t *testing.T) {
	f := filepath.Join(t.TempDir(), "song.mp3")
	testsupport.WriteFile(t, f, 10)
	if result := CheckInputAccess("input", f); !result.Passed {
		t.Fatalf("expected readable file to pass, got %s", result.Detail)
	}
	if result := CheckInputAccess("input", filepath.Join(t.TempDir(), "gone.mp3")); result.Passed {
		t.Fatal("expected missing input to fail")
	}
}

func TestCheckOutputTarget(t *testing.T) {
	base := t.TempDir()
	if result := CheckOutputTarget("out", filepath.Join(base, "AAFs", "Artist", "Album")); !result.Passed {
		t.Fatalf("expected creatable output to pass, got %s", result.Detail)
	}
	blocker := filepath.Join(base, "file")
	testsupport.WriteFile(t, blocker, 1)
	if result := CheckOutputTarget("out", filepath.Join(blocker, "AAFs")); result.Passed {
		t.Fatal("expected output under a file to fail")
	}
}

func TestRunAll(t *testing.T) {
	if RunAll(nil, "", "") != nil {
		t.Fatal("expected nil results for nil config")
	}
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	input := t.TempDir()
	results := RunAll(cfg, input, filepath.Join(input, "AAFs"))
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}
}

func TestCheckSystemDeps(t *testing.T) {
	testsupport.RequireShell(t)
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	statuses := CheckSystemDeps(cfg, transcode.NewResolver(t.TempDir()))
	if len(statuses) != 3 {
		t.Fatalf("expected ffmpeg, ffprobe, writer statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if !status.Available {
			t.Fatalf("expected %s available, got %+v", status.Name, status)
		}
	}
	if statuses[0].Detail != "system" {
		t.Fatalf("expected stubbed ffmpeg from PATH, got %q", statuses[0].Detail)
	}
}

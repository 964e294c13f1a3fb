package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mxtoaaf/internal/testsupport"
)

func writeMusicTree(t *testing.T, root string) {
	t.Helper()
	testsupport.WriteFile(t, filepath.Join(root, "01 song.mp3"), 4096)
	testsupport.WriteFile(t, filepath.Join(root, "02 take.wav"), 4096)
	testsupport.WriteFile(t, filepath.Join(root, "cover.jpg"), 128)
}

func TestConvertDirectoryThenRerunSkips(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "music", "Band", "Album")
	writeMusicTree(t, input)
	outDir := filepath.Join(env.baseDir, "out")
	outputRoot := filepath.Join(outDir, "AAFs")

	out, _, err := runCLI(t, []string{"convert", input, "-o", outDir, "--results-csv"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v\n%s", err, out)
	}
	requireContains(t, out, "Frame rate: 24 fps")
	requireContains(t, out, "Embed audio: Yes")
	requireContains(t, out, "Output: "+outputRoot)
	requireContains(t, out, "Found 2 audio file(s)")
	requireContains(t, out, "2/2 (100.0%)")
	requireContains(t, out, "Success: 2")
	requireContains(t, out, "Failed: 0")

	for _, name := range []string{"01 song.aaf", "02 take.aaf", "results.csv"} {
		if _, err := os.Stat(filepath.Join(outputRoot, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	leftovers, _ := filepath.Glob(filepath.Join(outputRoot, "*.tmp.wav"))
	if len(leftovers) != 0 {
		t.Fatalf("temporary wav files left behind: %v", leftovers)
	}

	out, _, err = runCLI(t, []string{"convert", input, "-o", outDir}, env.configPath)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	requireContains(t, out, "Skip (exists): 01 song.aaf")
	requireContains(t, out, "Skipped: 2")

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var runs []historyRunView
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Skipped != 2 || runs[1].Success != 2 {
		t.Fatalf("unexpected history order or counts: %+v", runs)
	}
}

func TestConvertSingleFileUsesSiblingFolder(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "music", "track.flac")
	testsupport.WriteFile(t, input, 4096)

	out, _, err := runCLI(t, []string{"convert", input}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := filepath.Join(env.baseDir, "music", "AAFs", "track.aaf")
	requireContains(t, out, "Created: "+want)
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected output: %v", err)
	}
}

func TestConvertSingleFileJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "music", "take.wav")
	testsupport.WriteFile(t, input, 4096)

	out, _, err := runCLI(t, []string{"convert", input, "--json", "--embed=false"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	var view runView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if view.Success != 1 || view.Embed || len(view.Jobs) != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Jobs[0].Transcoded {
		t.Fatal("linked build must not transcode")
	}
}

func TestConvertSingleFileJSONReportsTranscode(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "music", "song.mp3")
	testsupport.WriteFile(t, input, 4096)

	out, _, err := runCLI(t, []string{"convert", input, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	var view runView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(view.Jobs) != 1 || !view.Jobs[0].Transcoded {
		t.Fatalf("embedded mp3 should report a transcode: %+v", view)
	}
}

func TestConvertMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"convert", filepath.Join(env.baseDir, "gone.mp3")}, env.configPath)
	if err == nil {
		t.Fatal("expected error")
	}
	requireContains(t, err.Error(), "source not found")
}

func TestConvertInvalidFrameRateFallsBack(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "music", "take.wav")
	testsupport.WriteFile(t, input, 4096)

	out, _, err := runCLI(t, []string{"convert", input, "--fps", "fast"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Frame rate: 24 fps")

	out, _, err = runCLI(t, []string{"convert", input, "--fps", "29.97", "--skip-existing=false"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Frame rate: 29.97 fps")
}

func TestConvertReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Container.Writer = testsupport.WriteScript(t, env.binDir, "broken-writer", "cat >/dev/null\necho 'writer exploded' >&2\nexit 3\n")
	writeTestConfig(t, env.configPath, env.cfg)

	input := filepath.Join(env.baseDir, "music", "Band", "Album")
	writeMusicTree(t, input)

	out, _, err := runCLI(t, []string{"convert", input, "-o", filepath.Join(env.baseDir, "out")}, env.configPath)
	if err != nil {
		t.Fatalf("batch failures must not fail the command: %v", err)
	}
	requireContains(t, out, "Failed: 2")
	requireContains(t, out, "writer exploded")
	requireContains(t, out, "02 take.wav")
}

func TestParseFrameRate(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"25", 25, true},
		{" 23.976 ", 23.976, true},
		{"0", fallbackFrameRate, false},
		{"-30", fallbackFrameRate, false},
		{"NaN", fallbackFrameRate, false},
		{"abc", fallbackFrameRate, false},
		{"", fallbackFrameRate, false},
	}
	for _, tc := range cases {
		got, ok := parseFrameRate(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseFrameRate(%q) = %v, %v; want %v, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDrainProgressInPlace(t *testing.T) {
	lines := make(chan string, 4)
	lines <- "Found 2 audio file(s)"
	lines <- "1/2 (50.0%)"
	lines <- "2/2 (100.0%)"
	close(lines)

	var buf bytes.Buffer
	drainProgress(&buf, lines, true)
	out := buf.String()
	if strings.Count(out, "\r") != 2 {
		t.Fatalf("expected two in-place updates, got %q", out)
	}
	if !strings.HasSuffix(out, "2/2 (100.0%)\n") {
		t.Fatalf("expected trailing newline after last progress line, got %q", out)
	}

	lines = make(chan string, 2)
	lines <- "1/1 (100.0%)"
	close(lines)
	buf.Reset()
	drainProgress(&buf, lines, false)
	if buf.String() != "1/1 (100.0%)\n" {
		t.Fatalf("unexpected plain output %q", buf.String())
	}
}

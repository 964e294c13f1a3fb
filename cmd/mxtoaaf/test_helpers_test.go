package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mxtoaaf/internal/config"
	"mxtoaaf/internal/testsupport"
)

const probeJSON = `{"streams":[{"index":0,"codec_type":"audio","codec_name":"mp3","channels":2}],"format":{"duration":"12.5","tags":{"title":"Song","artist":"Band","track":"3/12"}}}`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	binDir     string
}

// setupCLITestEnv writes stub ffprobe, ffmpeg, and writer executables plus a
// config file pointing at them.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	testsupport.RequireShell(t)

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	binDir := filepath.Join(base, "bin")
	testsupport.WriteScript(t, binDir, "ffprobe", "cat <<'JSON'\n"+probeJSON+"\nJSON\n")
	testsupport.WriteScript(t, binDir, "ffmpeg", "for last; do :; done\n"+testsupport.FillCommand(2048, `"$last"`))
	writer := testsupport.WriteScript(t, binDir, "aaf-writer",
		"payload=$(cat)\ndest=$(printf '%s' \"$payload\" | sed -n 's/.*\"destination_path\":\"\\([^\"]*\\)\".*/\\1/p')\nprintf 'AAF' > \"$dest\"\n")
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	cfg := testsupport.NewConfig(t, testsupport.WithWriter(writer))
	cfg.Logging.Level = "error"

	configPath := filepath.Join(homeDir, ".config", "mxtoaaf", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, binDir: binDir}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

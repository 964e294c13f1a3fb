package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database locations.
type Paths struct {
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// Convert contains the default conversion options used by the CLI.
type Convert struct {
	FrameRate        float64 `toml:"fps"`
	Embed            bool    `toml:"embed"`
	SkipExisting     bool    `toml:"skip_existing"`
	Recursive        bool    `toml:"recursive"`
	ResultsCSV       bool    `toml:"results_csv"`
	MetadataCSV      bool    `toml:"metadata_csv"`
	OutputFolderName string  `toml:"output_folder_name"`
}

// Transcode contains the forced PCM parameters passed to ffmpeg.
type Transcode struct {
	SampleRate int `toml:"sample_rate"`
	BitDepth   int `toml:"bit_depth"`
	Channels   int `toml:"channels"`
	// BundleDir overrides the application base directory searched for
	// binaries/ffmpeg. Empty means the directory of the running executable.
	BundleDir    string `toml:"bundle_dir"`
	SettleMillis int    `toml:"settle_ms"`
}

// Metadata contains configuration for tag extraction.
type Metadata struct {
	FFprobe string `toml:"ffprobe"`
}

// Container contains configuration for the external AAF writer.
type Container struct {
	Writer string            `toml:"writer"`
	Args   []string          `toml:"args"`
	TagMap map[string]string `toml:"tag_map"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for MXToAAF.
//
// Configuration sections by subsystem:
//   - Paths: log directory and run history database
//   - Convert: default batch options (fps, embed, skip, reports)
//   - Transcode: ffmpeg PCM parameters and bundled binary location
//   - Metadata: ffprobe binary used for tag extraction
//   - Container: external AAF writer command and tag mapping
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Convert   Convert   `toml:"convert"`
	Transcode Transcode `toml:"transcode"`
	Metadata  Metadata  `toml:"metadata"`
	Container Container `toml:"container"`
	Logging   Logging   `toml:"logging"`

	warnings []string
}

// Warnings lists values that Load replaced with defaults instead of rejecting.
func (c *Config) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mxtoaaf/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mxtoaaf.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the CLI writes into.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// SettleDelay returns the post-transcode pause as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Transcode.SettleMillis) * time.Millisecond
}

// FFprobeBinary returns the ffprobe executable used for tag extraction.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Metadata.FFprobe); bin != "" {
		return bin
	}
	return defaultFFprobe
}

// WriterCommand returns the AAF writer executable and its leading arguments.
func (c *Config) WriterCommand() (string, []string) {
	args := make([]string, len(c.Container.Args))
	copy(args, c.Container.Args)
	return strings.TrimSpace(c.Container.Writer), args
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTranscode(); err != nil {
		return err
	}
	c.normalizeConvert()
	c.normalizeContainer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = filepath.Join(c.Paths.LogDir, defaultHistoryFile)
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscode() error {
	c.Transcode.BundleDir = strings.TrimSpace(c.Transcode.BundleDir)
	if c.Transcode.BundleDir == "" {
		if value, ok := os.LookupEnv("MXTOAAF_FFMPEG_DIR"); ok {
			c.Transcode.BundleDir = strings.TrimSpace(value)
		}
	}
	if c.Transcode.BundleDir != "" {
		var err error
		if c.Transcode.BundleDir, err = expandPath(c.Transcode.BundleDir); err != nil {
			return fmt.Errorf("transcode.bundle_dir: %w", err)
		}
	}
	if c.Transcode.SampleRate == 0 {
		c.Transcode.SampleRate = defaultSampleRate
	}
	if c.Transcode.BitDepth == 0 {
		c.Transcode.BitDepth = defaultBitDepth
	}
	if c.Transcode.Channels == 0 {
		c.Transcode.Channels = defaultChannels
	}
	return nil
}

func (c *Config) normalizeConvert() {
	if fps := c.Convert.FrameRate; !(fps > 0) || math.IsInf(fps, 0) {
		c.warnings = append(c.warnings, fmt.Sprintf("convert.fps %v is not a positive number; using %v", fps, defaultFrameRate))
		c.Convert.FrameRate = defaultFrameRate
	}
	c.Convert.OutputFolderName = strings.TrimSpace(c.Convert.OutputFolderName)
	if c.Convert.OutputFolderName == "" {
		c.Convert.OutputFolderName = defaultOutputFolderName
	}
}

func (c *Config) normalizeContainer() {
	c.Container.Writer = strings.TrimSpace(c.Container.Writer)
	if c.Container.Writer == "" {
		c.Container.Writer = defaultWriter
	}
	if len(c.Container.TagMap) == 0 {
		c.Container.TagMap = nil
		return
	}
	cleaned := make(map[string]string, len(c.Container.TagMap))
	for field, tag := range c.Container.TagMap {
		field = strings.TrimSpace(field)
		tag = strings.TrimSpace(tag)
		if field == "" || tag == "" {
			continue
		}
		cleaned[field] = tag
	}
	c.Container.TagMap = cleaned
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateTranscode(); err != nil {
		return err
	}
	if err := c.validateContainer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.FrameRate <= 0 {
		return errors.New("convert.fps must be positive")
	}
	if strings.ContainsAny(c.Convert.OutputFolderName, `/\`) {
		return fmt.Errorf("convert.output_folder_name must be a single folder name, got %q", c.Convert.OutputFolderName)
	}
	return nil
}

func (c *Config) validateTranscode() error {
	if c.Transcode.SampleRate < 8000 {
		return fmt.Errorf("transcode.sample_rate must be at least 8000, got %d", c.Transcode.SampleRate)
	}
	switch c.Transcode.BitDepth {
	case 16, 24:
	default:
		return fmt.Errorf("transcode.bit_depth must be 16 or 24, got %d", c.Transcode.BitDepth)
	}
	if c.Transcode.Channels <= 0 {
		return errors.New("transcode.channels must be positive")
	}
	if c.Transcode.SettleMillis < 0 {
		return errors.New("transcode.settle_ms must not be negative")
	}
	return nil
}

func (c *Config) validateContainer() error {
	if c.Container.Writer == "" {
		return errors.New("container.writer must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

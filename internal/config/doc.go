// Package config loads, normalizes, and validates MXToAAF configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MXTOAAF_FFMPEG_DIR. The Config type centralizes every knob the CLI and the
// conversion pipeline need, so transcoder parameters, container writer
// settings, and report toggles are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio stream properties and stream-level tags
//   - Format: container-level metadata (duration, size, tags)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Tag lookups are case-insensitive because containers disagree on casing
// ("TITLE" in FLAC/Vorbis, "title" in MP4 and ID3 as surfaced by ffprobe).
package ffprobe

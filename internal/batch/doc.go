// Package batch converts music files into AAF containers, one file at a time.
//
// The Orchestrator enumerates audio files under an input root, then for each
// file in a stable order: skips it when its AAF already exists (if asked to),
// extracts tags, transcodes compressed audio to a temporary PCM WAV when the
// essence is embedded, and hands the result to the container builder. A
// failing file is recorded and the batch moves on; only a missing input root
// or an uncreatable output root abort the run. Cancellation is observed
// between files and leaves the remaining files marked cancelled.
//
// ConvertFile runs the same steps for a single file but returns errors to the
// caller instead of recording them.
package batch

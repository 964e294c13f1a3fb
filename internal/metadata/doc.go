// Package metadata defines the track tag record attached to every AAF and the
// Extractor contract used by the batch pipeline to read it.
//
// FFprobeExtractor is the bundled implementation: it runs ffprobe, maps the
// common tag spellings found in MP3, MP4, AIFF, and WAV files onto Track, and
// derives a title-cased track name from the file name when the title tag is
// missing.
package metadata

// Package container defines how AAF files are produced from an audio file and
// its tags.
//
// The AAF format itself is handled by an external writer program. ExecBuilder
// starts the configured writer, sends it one JSON build request on stdin, and
// treats the job as successful only when the writer exits cleanly and the
// destination file exists.
package container

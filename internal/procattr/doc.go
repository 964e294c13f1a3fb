// Package procattr prepares external tool commands (ffmpeg, ffprobe, the AAF
// writer) so a terminal interrupt aimed at the CLI does not reach them, and so
// they never open a console window on Windows.
package procattr

// Package report appends per-job rows to the optional results and metadata
// CSV files written next to the produced AAFs.
//
// Files are opened, appended to, and closed for every call so a crash never
// leaves buffered rows behind. The header is written only when the file is
// new or empty. Appends hold an advisory lock on a sibling ".lock" file so
// two concurrent runs targeting the same output folder do not interleave
// rows.
package report

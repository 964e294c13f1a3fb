// Package history records every CLI batch run in a SQLite ledger so past
// conversions can be listed without re-reading CSV reports.
//
// A run row stores the request and the final counts; one job row per
// processed file stores its outcome. Run identifiers are random UUIDs that
// also appear as run_id in the structured logs.
package history

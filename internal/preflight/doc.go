// Package preflight provides readiness checks for the filesystem paths and
// external programs MXToAAF depends on.
//
// The CLI "mxtoaaf status" command renders these results, and "convert"
// runs the directory checks before starting a batch so a read-only output
// location fails immediately instead of once per file.
package preflight

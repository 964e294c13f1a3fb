package preflight

import (
	"mxtoaaf/internal/config"
	"mxtoaaf/internal/deps"
	"mxtoaaf/internal/transcode"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for the given config and, when
// non-empty, the input path and output root of a conversion.
func RunAll(cfg *config.Config, input, outputRoot string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if input != "" {
		results = append(results, CheckInputAccess("Input", input))
	}
	if outputRoot != "" {
		results = append(results, CheckOutputTarget("Output directory", outputRoot))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// CheckSystemDeps evaluates every external program for the given config.
// Both the status command and convert use this to avoid duplicating the
// requirements list.
func CheckSystemDeps(cfg *config.Config, resolver *transcode.Resolver) []deps.Status {
	statuses := []deps.Status{deps.CheckFFmpeg(resolver)}
	return append(statuses, deps.CheckBinaries(deps.Requirements(cfg))...)
}

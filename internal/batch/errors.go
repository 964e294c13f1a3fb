package batch

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"mxtoaaf/internal/transcode"
)

// ErrConfiguration reports a batch-level problem detected before any file is
// processed: the input is missing or the output root cannot be created.
var ErrConfiguration = errors.New("configuration error")

// IsSourceMissing reports whether err means the input vanished or could not
// be opened, as opposed to a conversion failure.
func IsSourceMissing(err error, input string) bool {
	if err == nil {
		return false
	}
	if input != "" {
		if _, statErr := os.Stat(input); errors.Is(statErr, fs.ErrNotExist) {
			return true
		}
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var failed *transcode.FailedError
	if errors.As(err, &failed) && strings.Contains(failed.Stderr, "No such file") {
		return true
	}
	return strings.Contains(err.Error(), "No such file")
}

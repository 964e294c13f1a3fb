package batch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mxtoaaf/internal/logging"
)

// Recognized audio extensions (lowercase, with leading dot).
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
	".aif":  true,
	".aiff": true,
}

const tempSuffix = ".tmp.wav"

// candidate is one discovered audio file.
type candidate struct {
	path string
	rel  string
}

// IsAudioFile reports whether path has a recognized audio extension and is
// not an AppleDouble sidecar or a leftover temporary transcode.
func IsAudioFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "._") {
		return false
	}
	if strings.HasSuffix(strings.ToLower(name), tempSuffix) {
		return false
	}
	return audioExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsWAV reports whether path already holds PCM WAV audio, judged by extension.
func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// Discover returns the audio files under root sorted by relative path, ties
// broken by full path. A root that is itself a file yields that file alone.
// Unreadable subdirectories are logged and skipped.
func Discover(root string, recursive bool, logger *slog.Logger) ([]string, error) {
	candidates, err := discover(root, recursive, logger)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.path
	}
	return paths, nil
}

func discover(root string, recursive bool, logger *slog.Logger) ([]candidate, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !IsAudioFile(root) {
			return nil, nil
		}
		return []candidate{{path: root, rel: filepath.Base(root)}}, nil
	}

	var found []candidate
	add := func(path string) {
		if !IsAudioFile(path) {
			return
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		found = append(found, candidate{path: path, rel: filepath.ToSlash(rel)})
	}

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read input directory: %w", err)
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				add(filepath.Join(root, entry.Name()))
			}
		}
	} else {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				if logger != nil {
					logger.Warn("skipping unreadable path",
						logging.String("path", path),
						logging.Error(err),
					)
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk input directory: %w", err)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].rel != found[j].rel {
			return found[i].rel < found[j].rel
		}
		return found[i].path < found[j].path
	})
	return found, nil
}

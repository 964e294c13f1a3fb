package batch

import (
	"path/filepath"
	"strings"
)

// DefaultOutputFolder is the folder name every output root ends in.
const DefaultOutputFolder = "AAFs"

// DefaultOutputRoot derives the output root when none was given. A file
// input writes into <dir>/AAFs. A directory input keeps one level of
// structure: <grandparent>/AAFs/<parent name>/<dir name>, or
// <parent>/AAFs/<dir name> when the directory sits at the filesystem root.
func DefaultOutputRoot(input string, isDir bool, folder string) string {
	if folder == "" {
		folder = DefaultOutputFolder
	}
	cleaned := filepath.Clean(input)
	if !isDir {
		return filepath.Join(filepath.Dir(cleaned), folder)
	}
	dirName := filepath.Base(cleaned)
	parent := filepath.Dir(cleaned)
	parentName := filepath.Base(parent)
	if isRoot(parent) || parentName == "." {
		return filepath.Join(parent, folder, dirName)
	}
	return filepath.Join(filepath.Dir(parent), folder, parentName, dirName)
}

// ForceOutputFolder makes an explicit output path end in folder.
func ForceOutputFolder(output, folder string) string {
	if folder == "" {
		folder = DefaultOutputFolder
	}
	trimmed := strings.TrimRight(output, `/\`)
	if trimmed == "" {
		trimmed = output
	}
	if filepath.Base(trimmed) == folder {
		return trimmed
	}
	return filepath.Join(trimmed, folder)
}

func isRoot(path string) bool {
	return filepath.Dir(path) == path
}

//go:build windows

package preflight

import (
	"os"
)

// checkAccess approximates access(2): open for reading and, when write is
// requested, create and remove a probe file.
func checkAccess(path string, write bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	_ = f.Close()
	if !write {
		return nil
	}
	probe, err := os.CreateTemp(path, ".mxtoaaf-probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}

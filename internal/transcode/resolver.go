package transcode

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const (
	binaryName = "ffmpeg"
	bundleDir  = "binaries"
)

// Resolution describes where the ffmpeg binary was found.
type Resolution struct {
	Path    string
	Bundled bool
}

// Resolver finds ffmpeg once and caches the outcome, found or not, until Reset.
type Resolver struct {
	baseDir  string
	lookPath func(string) (string, error)

	mu       sync.Mutex
	resolved bool
	result   Resolution
	err      error
}

// NewResolver returns a resolver that checks baseDir/binaries first. An empty
// baseDir means the directory of the running executable.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{baseDir: strings.TrimSpace(baseDir), lookPath: exec.LookPath}
}

var defaultResolver = sync.OnceValue(func() *Resolver { return NewResolver("") })

// Default returns the process-wide resolver.
func Default() *Resolver {
	return defaultResolver()
}

// Resolve returns the ffmpeg location, preferring the bundled binary over PATH.
func (r *Resolver) Resolve() (Resolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.resolved {
		r.result, r.err = r.lookup()
		r.resolved = true
	}
	return r.result, r.err
}

// Available reports whether Resolve succeeds.
func (r *Resolver) Available() bool {
	_, err := r.Resolve()
	return err == nil
}

// Reset clears the cached outcome so the next Resolve probes again.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = false
	r.result = Resolution{}
	r.err = nil
}

// BundledPath returns the location probed for a bundled ffmpeg.
func (r *Resolver) BundledPath() string {
	base := r.baseDir
	if base == "" {
		base = executableDir()
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, bundleDir, ExecutableName(binaryName))
}

func (r *Resolver) lookup() (Resolution, error) {
	if candidate := r.BundledPath(); candidate != "" {
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return Resolution{Path: candidate, Bundled: true}, nil
		}
	}
	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath(binaryName); err == nil {
		return Resolution{Path: path}, nil
	}
	return Resolution{}, fmt.Errorf("%w: %s not bundled and not found in PATH", ErrUnavailable, binaryName)
}

// ExecutableName appends the platform executable suffix.
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

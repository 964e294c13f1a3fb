package batch

import (
	"context"
	"errors"
	"os"
	"sync"

	"mxtoaaf/internal/container"
	"mxtoaaf/internal/metadata"
	"mxtoaaf/internal/transcode"
)

type fakeExtractor struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	// during runs inside Extract before the context is consulted.
	during func()
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (metadata.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	if f.during != nil {
		f.during()
	}
	if err := ctx.Err(); err != nil {
		return metadata.Track{}, err
	}
	if err := f.fail[path]; err != nil {
		return metadata.Track{}, err
	}
	return metadata.Track{TrackName: metadata.TitleFromFilename(path), Duration: 12.5}, nil
}

type fakeTranscoder struct {
	unavailable bool
	size        int
	err         error
	calls       []string
}

func (f *fakeTranscoder) Available() bool { return !f.unavailable }

func (f *fakeTranscoder) Transcode(_ context.Context, src, dst string) error {
	f.calls = append(f.calls, src)
	if f.unavailable {
		return transcode.ErrUnavailable
	}
	if f.err != nil {
		return f.err
	}
	size := f.size
	if size == 0 {
		size = 4096
	}
	return os.WriteFile(dst, make([]byte, size), 0o644)
}

type buildCall struct {
	req         container.BuildRequest
	audioExists bool
}

type fakeBuilder struct {
	calls []buildCall
	fail  error
}

func (f *fakeBuilder) Build(_ context.Context, req container.BuildRequest) (string, error) {
	_, statErr := os.Stat(req.AudioPath)
	f.calls = append(f.calls, buildCall{req: req, audioExists: statErr == nil})
	if f.fail != nil {
		return "", f.fail
	}
	if err := os.WriteFile(req.DestinationPath, []byte("aaf"), 0o644); err != nil {
		return "", errors.Join(container.ErrBuildFailed, err)
	}
	return req.DestinationPath, nil
}

package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mxtoaaf/internal/history"
	"mxtoaaf/internal/testsupport"
)

func TestRecordAndListRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	first := history.Run{
		ID:           history.NewRunID(),
		StartedAt:    base,
		FinishedAt:   base.Add(90 * time.Second),
		InputRoot:    "/music/album",
		OutputRoot:   "/music/AAFs/album",
		FrameRate:    23.976,
		Embed:        true,
		SuccessCount: 2,
		FailedCount:  1,
	}
	jobs := []history.JobRecord{
		{Position: 1, SourcePath: "/music/album/a.mp3", DestinationPath: "/music/AAFs/album/a.aaf", Status: "success", Duration: 1500 * time.Millisecond, Transcoded: true},
		{Position: 2, SourcePath: "/music/album/b.wav", DestinationPath: "/music/AAFs/album/b.aaf", Status: "success", Duration: 300 * time.Millisecond},
		{Position: 3, SourcePath: "/music/album/c.mp3", DestinationPath: "/music/AAFs/album/c.aaf", Status: "failed", ErrorMessage: "transcode: transcoder unavailable"},
	}
	if err := store.RecordRun(ctx, first, jobs); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	second := history.Run{
		ID:           history.NewRunID(),
		StartedAt:    base.Add(time.Hour),
		FinishedAt:   base.Add(time.Hour + time.Second),
		InputRoot:    "/music/album",
		OutputRoot:   "/music/AAFs/album",
		FrameRate:    24,
		SkippedCount: 3,
		Cancelled:    true,
	}
	if err := store.RecordRun(ctx, second, nil); err != nil {
		t.Fatalf("RecordRun second: %v", err)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", runs)
	}
	if !runs[0].Cancelled || runs[0].Total() != 3 {
		t.Fatalf("unexpected second run: %+v", runs[0])
	}
	if runs[1].FrameRate != 23.976 || !runs[1].Embed || runs[1].Duration() != 90*time.Second {
		t.Fatalf("unexpected first run: %+v", runs[1])
	}

	limited, err := store.ListRuns(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected one run with limit, got %v %v", limited, err)
	}

	gotJobs, err := store.RunJobs(ctx, first.ID)
	if err != nil {
		t.Fatalf("RunJobs: %v", err)
	}
	if len(gotJobs) != 3 || !gotJobs[0].Transcoded || gotJobs[0].Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected jobs: %+v", gotJobs)
	}
	if gotJobs[2].Status != "failed" || gotJobs[2].ErrorMessage == "" {
		t.Fatalf("unexpected failed job: %+v", gotJobs[2])
	}
}

func TestGetRunNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	if _, err := store.GetRun(context.Background(), "missing"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	run := history.Run{ID: history.NewRunID(), StartedAt: time.Now(), FinishedAt: time.Now(), FrameRate: 24}
	if err := store.RecordRun(context.Background(), run, nil); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.GetRun(context.Background(), run.ID)
	if err != nil || got.ID != run.ID {
		t.Fatalf("expected run after reopen, got %+v %v", got, err)
	}
}

func TestRecordRunRequiresID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	if err := store.RecordRun(context.Background(), history.Run{}, nil); err == nil {
		t.Fatal("expected error for empty run id")
	}
}

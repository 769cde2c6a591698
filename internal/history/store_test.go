package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"leximi/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	runs := []history.Run{
		{ID: "a", Kind: history.KindSync, StartedAt: base, FinishedAt: base.Add(3 * time.Second), FeedItems: 15, Added: 1},
		{ID: "b", Kind: history.KindAudio, Outcome: history.OutcomeFailed, StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour), Message: "yt-dlp missing"},
		{ID: "c", Kind: history.KindSync, Outcome: history.OutcomeNoop, DryRun: true, StartedAt: base.Add(2 * time.Hour), FinishedAt: base.Add(2 * time.Hour)},
	}
	for _, run := range runs {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record(%s): %v", run.ID, err)
		}
	}

	got, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 || got[0].ID != "c" || got[2].ID != "a" {
		t.Fatalf("unexpected order: %#v", got)
	}
	if !got[0].DryRun || got[0].Outcome != history.OutcomeNoop {
		t.Fatalf("dry run fields lost: %#v", got[0])
	}
	if got[1].Message != "yt-dlp missing" || got[1].Outcome != history.OutcomeFailed {
		t.Fatalf("message/outcome lost: %#v", got[1])
	}
	if got[2].Outcome != history.OutcomeOK {
		t.Fatalf("expected default outcome ok, got %q", got[2].Outcome)
	}
	if got[2].Duration() != 3*time.Second || !got[2].StartedAt.Equal(base) {
		t.Fatalf("unexpected times: %#v", got[2])
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "c" {
		t.Fatalf("unexpected limited list: %#v", limited)
	}
}

func TestRecordRequiresIdentity(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if err := store.Record(ctx, history.Run{Kind: history.KindSync}); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := store.Record(ctx, history.Run{ID: "x"}); err == nil {
		t.Fatal("expected error for missing kind")
	}
	run := history.Run{ID: "dup", Kind: history.KindSync, StartedAt: time.Now(), FinishedAt: time.Now()}
	if err := store.Record(ctx, run); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Record(ctx, run); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	now := time.Now()
	if err := store.Record(context.Background(), history.Run{ID: "r1", Kind: history.KindSync, StartedAt: now, FinishedAt: now}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "r1" {
		t.Fatalf("unexpected runs after reopen: %#v", runs)
	}
	if reopened.Path() != path {
		t.Fatalf("Path = %q", reopened.Path())
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
	var s *history.Store
	if err := s.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestListOrdersRunsWithinTheSameSecond(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	// Formatted as text, the whole second sorts after its fractions.
	for _, run := range []history.Run{
		{ID: "whole", Kind: history.KindSync, StartedAt: base, FinishedAt: base},
		{ID: "later", Kind: history.KindSync, StartedAt: base.Add(100 * time.Millisecond), FinishedAt: base.Add(time.Second)},
	} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record(%s): %v", run.ID, err)
		}
	}

	got, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "later" || got[1].ID != "whole" {
		t.Fatalf("unexpected order: %#v", got)
	}
	if !got[0].StartedAt.Equal(base.Add(100*time.Millisecond)) || got[0].StartedAt.Location() != time.UTC {
		t.Fatalf("start time not preserved: %v", got[0].StartedAt)
	}
}

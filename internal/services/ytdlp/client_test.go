package ytdlp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"leximi/internal/services"
	"leximi/internal/services/ytdlp"
)

type stubExecutor struct {
	lines  []string
	err    error
	calls  int
	args   [][]string
	onCall func(args []string)
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	s.calls++
	cloned := append([]string(nil), args...)
	s.args = append(s.args, cloned)
	if s.onCall != nil {
		s.onCall(cloned)
	}
	for _, line := range s.lines {
		onStdout(line)
	}
	return s.err
}

func TestChaptersBuildsArguments(t *testing.T) {
	exec := &stubExecutor{lines: []string{"[{'start_time': 0.0, 'title': 'Mateu 1', 'end_time': 60.0}]"}}
	client, err := ytdlp.New("/usr/bin/yt-dlp",
		ytdlp.WithExecutor(exec),
		ytdlp.WithRemoteComponents("ejs:github"),
		ytdlp.WithCookiesFile("/tmp/cookies.txt"),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	out, err := client.Chapters(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Chapters returned error: %v", err)
	}
	if !strings.Contains(out, "Mateu 1") {
		t.Fatalf("unexpected output %q", out)
	}
	want := []string{
		"--print", "%(chapters)s", "--no-download", "--ignore-errors",
		"--remote-components", "ejs:github",
		"--cookies", "/tmp/cookies.txt",
		"https://www.youtube.com/watch?v=abc123",
	}
	if !reflect.DeepEqual(exec.args[0], want) {
		t.Fatalf("args mismatch:\n got %v\nwant %v", exec.args[0], want)
	}
}

func TestChaptersOmitsOptionalFlags(t *testing.T) {
	exec := &stubExecutor{lines: []string{"NA"}}
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	out, err := client.Chapters(context.Background(), "xyz")
	if err != nil {
		t.Fatalf("Chapters returned error: %v", err)
	}
	if out != "NA" {
		t.Fatalf("expected sentinel passthrough, got %q", out)
	}
	for _, arg := range exec.args[0] {
		if arg == "--cookies" || arg == "--remote-components" {
			t.Fatalf("unexpected optional flag in %v", exec.args[0])
		}
	}
}

func TestChaptersFailures(t *testing.T) {
	tests := []struct {
		name string
		exec *stubExecutor
	}{
		{"exit error", &stubExecutor{err: errors.New("exit status 1")}},
		{"empty output", &stubExecutor{lines: []string{"", "  "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(tt.exec))
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			_, err = client.Chapters(context.Background(), "abc")
			if !errors.Is(err, services.ErrExternalTool) {
				t.Fatalf("expected ErrExternalTool, got %v", err)
			}
			if services.Classify(err) != services.DispositionSkip {
				t.Fatalf("tool failure must be skippable: %v", err)
			}
		})
	}
}

type blockingExecutor struct{}

func (blockingExecutor) Run(ctx context.Context, _ string, _ []string, _ func(string)) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestChaptersTimeoutIsSkippable(t *testing.T) {
	client, err := ytdlp.New("yt-dlp",
		ytdlp.WithExecutor(blockingExecutor{}),
		ytdlp.WithTimeouts(20*time.Millisecond, 0),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Chapters(context.Background(), "abc")
	if !errors.Is(err, services.ErrTimeout) || !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected timeout tool failure, got %v", err)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ytdlp.New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestDownloadAudioRenamesOpus(t *testing.T) {
	dir := t.TempDir()
	exec := &stubExecutor{}
	exec.onCall = func(args []string) {
		for i, arg := range args {
			if arg == "-o" {
				out := strings.Replace(args[i+1], "%(ext)s", "opus", 1)
				if err := os.WriteFile(out, []byte("audio"), 0o644); err != nil {
					t.Errorf("write stub output: %v", err)
				}
			}
		}
	}
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec), ytdlp.WithCookiesFile("c.txt"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	path, err := client.DownloadAudio(context.Background(), "vid1", dir, "february-3", "webm")
	if err != nil {
		t.Fatalf("DownloadAudio returned error: %v", err)
	}
	if path != filepath.Join(dir, "february-3.webm") {
		t.Fatalf("unexpected path %q", path)
	}
	if _, err := os.Stat(filepath.Join(dir, "february-3.opus")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected intermediate opus file to be renamed, err=%v", err)
	}
	want := []string{
		"-x", "--audio-format", "opus",
		"--cookies", "c.txt",
		"-o", filepath.Join(dir, "february-3.%(ext)s"),
		"https://www.youtube.com/watch?v=vid1",
	}
	if !reflect.DeepEqual(exec.args[0], want) {
		t.Fatalf("args mismatch:\n got %v\nwant %v", exec.args[0], want)
	}
}

func TestDownloadAudioWithoutOutputFails(t *testing.T) {
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.DownloadAudio(context.Background(), "vid1", t.TempDir(), "march-1", "webm")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestMinIntervalSpacesInvocations(t *testing.T) {
	exec := &stubExecutor{lines: []string{"NA"}}
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec), ytdlp.WithMinInterval(40*time.Millisecond))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	start := time.Now()
	for range 3 {
		if _, err := client.Chapters(context.Background(), "abc"); err != nil {
			t.Fatalf("Chapters: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 70*time.Millisecond {
		t.Fatalf("expected limiter to space calls, elapsed %s", elapsed)
	}
}

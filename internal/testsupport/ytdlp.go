package testsupport

import (
	"context"
	"os"
	"slices"
	"strings"
	"sync"
)

// FakeYtDlp is an in-memory yt-dlp executor. Chapter dumps and failures are
// keyed by video id; downloads write a small file at the -o template.
type FakeYtDlp struct {
	mu       sync.Mutex
	Chapters map[string]string
	Fail     map[string]error
	calls    []Call
}

// Call records one invocation.
type Call struct {
	Op      string
	VideoID string
	Args    []string
}

// NewFakeYtDlp returns a fake with empty tables.
func NewFakeYtDlp() *FakeYtDlp {
	return &FakeYtDlp{Chapters: map[string]string{}, Fail: map[string]error{}}
}

// Run implements ytdlp.Executor.
func (f *FakeYtDlp) Run(_ context.Context, _ string, args []string, onStdout func(string)) error {
	videoID := ""
	if len(args) > 0 {
		last := args[len(args)-1]
		if idx := strings.LastIndex(last, "v="); idx >= 0 {
			videoID = last[idx+2:]
		}
	}
	op := "other"
	switch {
	case slices.Contains(args, "--print"):
		op = "chapters"
	case slices.Contains(args, "-x"):
		op = "download"
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Op: op, VideoID: videoID, Args: append([]string(nil), args...)})
	failure := f.Fail[videoID]
	chapters := f.Chapters[videoID]
	f.mu.Unlock()

	if failure != nil {
		return failure
	}
	switch op {
	case "chapters":
		if chapters != "" {
			onStdout(chapters)
		}
	case "download":
		format := argAfter(args, "--audio-format")
		target := strings.ReplaceAll(argAfter(args, "-o"), "%(ext)s", format)
		if err := os.WriteFile(target, []byte("audio"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// Calls returns a copy of the recorded invocations.
func (f *FakeYtDlp) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsFor counts invocations of op.
func (f *FakeYtDlp) CallsFor(op string) int {
	n := 0
	for _, call := range f.Calls() {
		if call.Op == op {
			n++
		}
	}
	return n
}

func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

package ffprobe

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
)

const sampleOpus = `{
  "streams": [{"index": 0, "codec_name": "opus", "codec_type": "audio", "sample_rate": "48000", "channels": 2}],
  "format": {"filename": "february-3.webm", "duration": "1234.5", "size": "9800000", "format_name": "matroska,webm"}
}`

func TestVerifyAudioAcceptsAudioStream(t *testing.T) {
	var gotArgs []string
	p := New("", WithRunner(func(_ context.Context, binary string, args []string) ([]byte, error) {
		if binary != DefaultBinary {
			t.Fatalf("unexpected binary %q", binary)
		}
		gotArgs = args
		return []byte(sampleOpus), nil
	}))

	result, err := p.VerifyAudio(context.Background(), "/audio/february-3.webm")
	if err != nil {
		t.Fatalf("VerifyAudio: %v", err)
	}
	if result.AudioStreamCount() != 1 || result.DurationSeconds() != 1234.5 || result.SizeBytes() != 9800000 {
		t.Fatalf("unexpected result %#v", result)
	}
	if gotArgs[len(gotArgs)-1] != "/audio/february-3.webm" || !slices.Contains(gotArgs, "-show_streams") {
		t.Fatalf("unexpected args %v", gotArgs)
	}
}

func TestVerifyAudioRejectsVideoOnly(t *testing.T) {
	p := New("ffprobe", WithRunner(func(context.Context, string, []string) ([]byte, error) {
		return []byte(`{"streams":[{"codec_type":"video"}],"format":{}}`), nil
	}))
	if _, err := p.VerifyAudio(context.Background(), "x.webm"); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}

func TestInspectErrors(t *testing.T) {
	failing := New("ffprobe", WithRunner(func(context.Context, string, []string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}))
	if _, err := failing.Inspect(context.Background(), "x"); err == nil {
		t.Fatal("expected runner error")
	}
	garbage := New("ffprobe", WithRunner(func(context.Context, string, []string) ([]byte, error) {
		return []byte("not json"), nil
	}))
	if _, err := garbage.Inspect(context.Background(), "x"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := garbage.Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

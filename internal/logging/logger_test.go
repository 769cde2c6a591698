package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leximi/internal/config"
	"leximi/internal/services"
)

func newTestPretty(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return slog.New(newPrettyHandler(buf, lvl, false))
}

func TestPrettyHandlerRendersComponentAndSubject(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestPretty(&buf, slog.LevelInfo), "sync")

	logger.Info("entry added",
		String(FieldPeriod, "february"),
		String(FieldVideoID, "abc123"),
		String(FieldRunID, "run-1"),
		Int("day", 3),
		String("title", "Zanafilla 1"),
	)

	line := buf.String()
	for _, want := range []string{"INFO ", "sync: entry added", "[february/abc123]", "day=3", `title="Zanafilla 1"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "run-1") {
		t.Fatalf("run id should not be rendered on console: %q", line)
	}
	if strings.Count(line, "\n") != 1 {
		t.Fatalf("expected a single line, got %q", line)
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestPretty(&buf, slog.LevelWarn)
	logger.Info("hidden")
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "WARN  shown") {
		t.Fatalf("unexpected warn output %q", buf.String())
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestPretty(&buf, slog.LevelInfo).WithGroup("report")
	logger.Info("done", Int("added", 2))
	if !strings.Contains(buf.String(), "report.added=2") {
		t.Fatalf("expected grouped key, got %q", buf.String())
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl, false))
	logger.Warn("skipped", Error(fmt.Errorf("boom")))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v (%q)", err, buf.String())
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected lower-case level, got %v", payload["level"])
	}
	if payload["error"] != "boom" {
		t.Fatalf("expected error string, got %v", payload["error"])
	}
}

func TestWarnErrUsesErrorMarker(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestPretty(&buf, slog.LevelInfo)
	err := services.Wrap(services.ErrUnknownPeriod, "sync", "resolve title", "no such month", nil)

	WarnErr(logger, "skipped item", err, "check the title", "entry not added")

	line := buf.String()
	for _, want := range []string{"event_type=unknown_period", `error_hint="check the title"`, `impact="entry not added"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	WarnWithContext(newTestPretty(&buf, slog.LevelInfo), "odd", "day_conflict")
	line := buf.String()
	for _, want := range []string{"event_type=day_conflict", "error_hint=", "impact="} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	WarnWithContext(nil, "ignored", "x")
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := services.WithRunID(context.Background(), "run-9")
	ctx = services.WithStage(ctx, "extract")
	ctx = services.WithPeriod(ctx, "march")
	ctx = services.WithVideoID(ctx, "vid")

	fields := ContextFields(ctx)
	if len(fields) != 4 {
		t.Fatalf("expected 4 context fields, got %v", fields)
	}

	WithContext(ctx, newTestPretty(&buf, slog.LevelInfo)).Info("working")
	line := buf.String()
	if !strings.Contains(line, "[march/vid]") || !strings.Contains(line, "stage=extract") {
		t.Fatalf("unexpected line %q", line)
	}
	if WithContext(context.Background(), nil) == nil {
		t.Fatal("expected nop logger for nil base")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "warn"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("not written")
	logger.Warn("written", String(FieldEventType, "test"))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one JSON line, got %q", data)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["msg"] != "written" || payload["event_type"] != "test" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

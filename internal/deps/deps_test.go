package deps

import (
	"os"
	"path/filepath"
	"testing"

	"leximi/internal/config"
)

func writeStub(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), mode); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present", 0o755)
	notExec := writeStub(t, binDir, "plain", 0o644)

	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
		{Name: "Plain", Command: notExec},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected unset status %#v", results[2])
	}
	if results[3].Available {
		t.Fatalf("non-executable file reported available: %#v", results[3])
	}
}

func TestRequirementsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.YtDlp.Binary = "/opt/yt-dlp"
	cfg.Audio.FFprobeBinary = ""

	reqs := Requirements(&cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "/opt/yt-dlp" || reqs[0].Optional {
		t.Fatalf("unexpected yt-dlp requirement %#v", reqs[0])
	}
	if reqs[1].Command != "ffprobe" {
		t.Fatalf("expected ffprobe default, got %#v", reqs[1])
	}
	if reqs[1].Optional == cfg.Audio.Verify {
		t.Fatalf("ffprobe optional flag should mirror audio.verify (%v): %#v", cfg.Audio.Verify, reqs[1])
	}
	if Requirements(nil) != nil {
		t.Fatal("expected nil requirements for nil config")
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "a", Available: true},
		{Name: "b", Optional: true},
		{Name: "c"},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0].Name != "c" {
		t.Fatalf("unexpected missing %#v", missing)
	}
}

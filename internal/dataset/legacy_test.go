package dataset

import (
	"strings"
	"testing"
)

const legacyModule = `// Auto-generated by scripts/fetch-playlist.mjs - do not edit manually
export const january = [
  {
    "day": 1,
    "date": "1 Janar",
    "videoId": "aaa",
    "readings": [
      { "title": "Zanafilla 1", "start": 0 },
      { "title": "Mateu 1", "start": 300 }, // fixed by hand
    ],
  },
  /* broken entry below */
  {
    "day": 2,
    "date": "2 Janar",
    "videoId": "bbb",
    "readings": [ { "title": "Zanafilla 2" "start": 0 } ]
  },
  {
    "day": 3,
    "date": "3 Janar",
    "videoId": "ccc",
    "readings": [ { "title": "https://example.test // not a comment", "start": 5 } ],
    "audioFile": "january-3.webm",
  },
]
`

func TestDecodeLegacyModule(t *testing.T) {
	entries, warnings := DecodeLegacyModule("january.js", []byte(legacyModule))
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %#v", len(entries), entries)
	}
	if entries[0].VideoID != "aaa" || len(entries[0].Readings) != 2 || entries[0].Readings[1].Start != 300 {
		t.Fatalf("unexpected first entry: %#v", entries[0])
	}
	if entries[1].AudioFile != "january-3.webm" {
		t.Fatalf("audioFile lost: %#v", entries[1])
	}
	if !strings.Contains(entries[1].Readings[0].Title, "// not a comment") {
		t.Fatalf("comment stripping touched a string: %q", entries[1].Readings[0].Title)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning for the broken entry, got %v", warnings)
	}
	if warnings[0].Line != 13 {
		t.Fatalf("warning line = %d, want 13", warnings[0].Line)
	}
}

func TestDecodeLegacyModuleWithoutArray(t *testing.T) {
	entries, warnings := DecodeLegacyModule("x.js", []byte("export const x = null\n"))
	if len(entries) != 0 || len(warnings) != 1 {
		t.Fatalf("entries=%v warnings=%v", entries, warnings)
	}
}

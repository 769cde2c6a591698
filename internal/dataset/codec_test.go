package dataset

import (
	"errors"
	"strings"
	"testing"

	"leximi/internal/services"
)

func TestEncodePeriodCanonicalForm(t *testing.T) {
	entries := []DayEntry{
		{Day: 3, Date: "3 Shkurt", VideoID: "vid3", Readings: []Reading{{Title: "Zanafilla 1", Start: 0}}},
		{Day: 4, Date: "4 Shkurt", VideoID: "vid4", Readings: []Reading{{Title: "Jobi 1 & 2", Start: 12}}, AudioFile: "february-4.webm"},
	}
	data, err := EncodePeriod("february", entries)
	if err != nil {
		t.Fatalf("EncodePeriod: %v", err)
	}
	want := strings.Join([]string{
		"# leximi dataset v1 period=february (generated, do not edit)",
		`{"day":3,"date":"3 Shkurt","videoId":"vid3","readings":[{"title":"Zanafilla 1","start":0}]}`,
		`{"day":4,"date":"4 Shkurt","videoId":"vid4","readings":[{"title":"Jobi 1 & 2","start":12}],"audioFile":"february-4.webm"}`,
		"",
	}, "\n")
	if string(data) != want {
		t.Fatalf("unexpected encoding:\n%s\nwant:\n%s", data, want)
	}
}

func TestDecodePeriodToleratesHandEdits(t *testing.T) {
	input := strings.Join([]string{
		"# leximi dataset v1 period=march (generated, do not edit)",
		"",
		"// added by hand",
		`{"day":1,"date":"1 Mars","videoId":"a","readings":[{"title":"Luka 1","start":0}]},`,
		`{"day":2,"date":"2 Mars","videoId":"b","readings":[{"title":"Luka 2","start":0}]}` + "\r",
		`{"day":3,"date":"3 Mars","videoId":`,
		`{"day":40,"date":"40 Mars","videoId":"c","readings":[]}`,
		`{"day":4,"date":"4 Mars","readings":[]}`,
		`{"day":5,"date":"5 Mars","videoId":"d","readings":[{"title":"Luka 5","start":3}]}`,
	}, "\n")

	entries, warnings := DecodePeriod("march.jsonl", []byte(input))
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %#v", len(entries), entries)
	}
	if entries[0].VideoID != "a" || entries[1].VideoID != "b" || entries[2].VideoID != "d" {
		t.Fatalf("unexpected entries: %#v", entries)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Line != 6 {
		t.Fatalf("warning line = %d, want 6", warnings[0].Line)
	}
	for _, w := range warnings {
		if !errors.Is(w, services.ErrMalformedRecord) {
			t.Fatalf("warning not tagged malformed: %v", w)
		}
	}
}

func TestEncodeDecodeRoundTripIsStable(t *testing.T) {
	entries := []DayEntry{{Day: 9, Date: "9 Prill", VideoID: "z", Readings: []Reading{{Title: "Romakëve 1", Start: 61}}}}
	first, err := EncodePeriod("april", entries)
	if err != nil {
		t.Fatal(err)
	}
	decoded, warnings := DecodePeriod("april.jsonl", first)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	second, err := EncodePeriod("april", decoded)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatalf("re-encoding changed bytes:\n%s\n%s", first, second)
	}
}

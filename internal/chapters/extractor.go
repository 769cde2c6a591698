package chapters

import (
	"context"
	"math"
	"strings"

	"leximi/internal/dataset"
	"leximi/internal/textutil"
)

// DefaultIntroMarker is the chapter title the channel uses for its spoken
// introduction.
const DefaultIntroMarker = "Hyrje"

// Source returns the raw chapter dump for a video.
type Source interface {
	Chapters(ctx context.Context, videoID string) (string, error)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithIntroMarker overrides the introduction chapter title.
func WithIntroMarker(marker string) Option {
	return func(e *Extractor) {
		if marker = strings.TrimSpace(marker); marker != "" {
			e.introMarker = marker
		}
	}
}

// Extractor turns chapter dumps into ordered readings.
type Extractor struct {
	source      Source
	normalizer  *textutil.Normalizer
	introMarker string
}

// NewExtractor builds an extractor. source may be nil when only Parse is used.
func NewExtractor(source Source, normalizer *textutil.Normalizer, opts ...Option) *Extractor {
	if normalizer == nil {
		normalizer = textutil.NewDefaultNormalizer()
	}
	e := &Extractor{source: source, normalizer: normalizer, introMarker: DefaultIntroMarker}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches and parses the chapters of videoID. Tool failures are
// returned as-is; an unavailable chapter list yields no readings and no error.
func (e *Extractor) Extract(ctx context.Context, videoID string) ([]dataset.Reading, error) {
	raw, err := e.source.Chapters(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return e.Parse(raw), nil
}

// Parse converts a chapter dump into readings in source order. It accepts the
// python-style listing printed by %(chapters)s and a JSON array.
func (e *Extractor) Parse(raw string) []dataset.Reading {
	trimmed := strings.TrimSpace(raw)
	if isUnavailable(trimmed) {
		return nil
	}
	records, ok := decodeJSON(trimmed)
	if !ok {
		records = decodeRepr(trimmed)
	}

	readings := make([]dataset.Reading, 0, len(records))
	for _, rec := range records {
		title := e.normalizer.Normalize(rec.title)
		if title == "" {
			continue
		}
		readings = append(readings, dataset.Reading{Title: title, Start: roundStart(rec.start)})
	}
	return e.dropIntro(readings)
}

// dropIntro removes introduction chapters when real readings exist. A lone
// chapter is kept even if it is the introduction.
func (e *Extractor) dropIntro(readings []dataset.Reading) []dataset.Reading {
	if len(readings) <= 1 {
		return readings
	}
	kept := readings[:0:0]
	for _, r := range readings {
		if strings.EqualFold(r.Title, e.introMarker) {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return readings[:1]
	}
	return kept
}

func isUnavailable(s string) bool {
	switch s {
	case "", "NA", "None", "null", "[]":
		return true
	}
	return false
}

func roundStart(seconds float64) int {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	if seconds > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(seconds))
}

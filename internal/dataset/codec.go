package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"leximi/internal/services"
)

// RecordWarning describes a persisted record that was skipped on read.
type RecordWarning struct {
	File string
	Line int
	Err  error
}

func (w RecordWarning) Error() string {
	return fmt.Sprintf("%s:%d: %v", w.File, w.Line, w.Err)
}

func (w RecordWarning) Unwrap() error {
	return w.Err
}

// HeaderLine returns the provenance comment written first in a period file.
func HeaderLine(key string) string {
	return fmt.Sprintf("# leximi dataset v%d period=%s (generated, do not edit)", FormatVersion, key)
}

// EncodePeriod renders entries as the canonical line-oriented period file.
func EncodePeriod(key string, entries []DayEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(HeaderLine(key))
	buf.WriteByte('\n')
	for _, entry := range entries {
		line, err := marshalCompact(entry)
		if err != nil {
			return nil, fmt.Errorf("encode %s day %d: %w", key, entry.Day, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// DecodePeriod parses a period file. Blank lines, '#' and '//' comments,
// trailing commas and CRLF endings are tolerated. A record that fails to
// parse or validate is skipped and reported; the rest still load.
func DecodePeriod(file string, data []byte) ([]DayEntry, []RecordWarning) {
	var (
		entries  []DayEntry
		warnings []RecordWarning
	)
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		line = strings.TrimSpace(strings.TrimSuffix(line, ","))
		entry, err := decodeEntry([]byte(line))
		if err != nil {
			warnings = append(warnings, RecordWarning{File: file, Line: i + 1, Err: err})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, warnings
}

func decodeEntry(data []byte) (DayEntry, error) {
	var entry DayEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return DayEntry{}, fmt.Errorf("%w: %w", services.ErrMalformedRecord, err)
	}
	if err := entry.Validate(); err != nil {
		return DayEntry{}, fmt.Errorf("%w: %w", services.ErrMalformedRecord, err)
	}
	return entry, nil
}

// marshalCompact encodes v without HTML escaping so titles stay readable.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func marshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

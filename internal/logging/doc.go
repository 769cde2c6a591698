// Package logging assembles structured slog loggers and formatting helpers used
// across leximi commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs, stages, periods and video IDs. The package also provides
// a no-op logger for tests and wiring code that cannot fail.
//
// Warnings go through WarnWithContext so every one carries an event_type, an
// error_hint and an impact.
package logging

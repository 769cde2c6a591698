package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFeedUnavailable  = errors.New("feed unavailable")
	ErrUnparseableTitle = errors.New("unparseable title")
	ErrUnknownPeriod    = errors.New("unknown period")
	ErrExternalTool     = errors.New("external tool error")
	ErrMalformedRecord  = errors.New("malformed persisted record")
	ErrValidation       = errors.New("validation error")
	ErrConfiguration    = errors.New("configuration error")
	ErrTimeout          = errors.New("timeout")
)

// Disposition tells the batch loop what to do after an operation failed.
type Disposition int

const (
	// DispositionSkip drops the current item or entry and continues the run.
	DispositionSkip Disposition = iota
	// DispositionAbortClean stops the run without touching persisted state
	// and reports success to the scheduler.
	DispositionAbortClean
	// DispositionFatal stops the run and reports failure.
	DispositionFatal
)

func (d Disposition) String() string {
	switch d {
	case DispositionSkip:
		return "skip"
	case DispositionAbortClean:
		return "abort_clean"
	default:
		return "fatal"
	}
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps a failure to the disposition the sync and audio loops apply.
// Per-item problems never stop a run; only a missing feed ends it early, and
// that is a clean exit.
func Classify(err error) Disposition {
	switch {
	case err == nil:
		return DispositionSkip
	case errors.Is(err, ErrFeedUnavailable):
		return DispositionAbortClean
	case errors.Is(err, ErrUnparseableTitle),
		errors.Is(err, ErrUnknownPeriod),
		errors.Is(err, ErrExternalTool),
		errors.Is(err, ErrMalformedRecord),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrValidation):
		return DispositionSkip
	default:
		return DispositionFatal
	}
}

// EventType returns the structured log event name for a marker.
func EventType(err error) string {
	switch {
	case errors.Is(err, ErrFeedUnavailable):
		return "feed_unavailable"
	case errors.Is(err, ErrUnparseableTitle):
		return "unparseable_title"
	case errors.Is(err, ErrUnknownPeriod):
		return "unknown_period"
	case errors.Is(err, ErrTimeout):
		return "tool_timeout"
	case errors.Is(err, ErrExternalTool):
		return "tool_invocation_failed"
	case errors.Is(err, ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	default:
		return "unexpected_error"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

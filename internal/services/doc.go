// Package services defines shared utilities consumed by the sync pipeline,
// the audio backfill and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, video IDs and period
//     keys for logging.
//   - Structured error markers plus the Wrap helper, and Classify, which turns
//     a failure into the skip / clean-abort / fatal decision the batch loops
//     apply.
//
// Use these helpers when wiring new stage logic so failure handling stays
// uniform: a bad item is skipped with a warning, a missing feed ends the run
// cleanly, and only storage or configuration problems are fatal.
package services

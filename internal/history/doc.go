// Package history keeps a small SQLite log of sync and audio runs.
//
// The dataset files remain the source of truth; history only answers "when
// did this last run and what did it do" for the history and status commands.
// The schema is embedded and versioned; a mismatched database is reported
// rather than migrated.
package history

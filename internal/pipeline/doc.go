// Package pipeline runs the discovery pass: feed items are filtered against
// the dataset, their titles resolved to a period and day, their chapters
// turned into readings, and the result merged and saved.
//
// A run never edits existing entries. Per-item failures are warnings; the
// item is simply picked up again by a later run.
package pipeline

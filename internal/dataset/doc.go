// Package dataset owns the persisted reading-plan data: the record types, the
// merge that folds newly discovered days into existing periods, and the Store
// that reads and writes the data directory.
//
// On disk every period is a "<key>.jsonl" file: a provenance header comment
// followed by one JSON day entry per line. index.json lists populated periods
// in calendar order. Older "<key>.js" modules are read only when no line file
// exists and are migrated on the next write. When module emission is enabled
// the Store also writes "<key>.js" and "months.js" for the client.
//
// All writes go through a temp file and rename, and are skipped when the
// bytes on disk already match.
package dataset

package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"leximi/internal/fileutil"
	"leximi/internal/period"
	"leximi/internal/services"
)

const (
	periodExt     = ".jsonl"
	moduleExt     = ".js"
	indexFileName = "index.json"
	monthsModule  = "months.js"
	filePerm      = 0o644
)

// Option configures a Store.
type Option func(*Store)

// WithModules toggles emission of the client-facing JavaScript modules.
func WithModules(enabled bool) Option {
	return func(s *Store) {
		s.emitModules = enabled
	}
}

// Store reads and writes the dataset directory. It performs no locking;
// callers serialize runs.
type Store struct {
	dir         string
	periods     *period.Table
	emitModules bool
}

// NewStore binds a store to dir and the period table.
func NewStore(dir string, table *period.Table, opts ...Option) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "dataset", "open", "data directory required", nil)
	}
	if table == nil || table.Len() == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "dataset", "open", "period table required", nil)
	}
	s := &Store{dir: dir, periods: table}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the dataset directory.
func (s *Store) Dir() string {
	return s.dir
}

// Periods returns the table the store files periods under.
func (s *Store) Periods() *period.Table {
	return s.periods
}

// PeriodPath returns the line-oriented file for key.
func (s *Store) PeriodPath(key string) string {
	return filepath.Join(s.dir, key+periodExt)
}

// LoadResult is the outcome of Load.
type LoadResult struct {
	Dataset  Dataset
	Warnings []RecordWarning
	// Migrated lists periods read from a legacy module because no
	// line-oriented file existed yet.
	Migrated []string
	// Held lists periods whose file contains malformed records. Save never
	// rewrites a held period, so hand edits survive until they are repaired.
	Held []string
}

// IsHeld reports whether key is in the held list.
func (r LoadResult) IsHeld(key string) bool {
	return slices.Contains(r.Held, key)
}

// Load reads every period in the table. Missing files are empty periods.
// Malformed records are skipped and reported and their period is held; only
// I/O failures are errors.
func (s *Store) Load() (LoadResult, error) {
	result := LoadResult{Dataset: make(Dataset)}
	for _, p := range s.periods.All() {
		entries, warnings, migrated, err := s.loadPeriod(p.Key)
		if err != nil {
			return LoadResult{}, err
		}
		result.Warnings = append(result.Warnings, warnings...)
		if len(warnings) > 0 {
			result.Held = append(result.Held, p.Key)
		}
		if len(entries) > 0 {
			result.Dataset[p.Key] = entries
		}
		if migrated {
			result.Migrated = append(result.Migrated, p.Key)
		}
	}
	return result, nil
}

func (s *Store) loadPeriod(key string) ([]DayEntry, []RecordWarning, bool, error) {
	path := s.PeriodPath(key)
	data, err := os.ReadFile(path)
	if err == nil {
		entries, warnings := DecodePeriod(filepath.Base(path), data)
		return entries, warnings, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	legacyPath := filepath.Join(s.dir, key+moduleExt)
	data, err = os.ReadFile(legacyPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("read %s: %w", legacyPath, err)
	}
	entries, warnings := DecodeLegacyModule(filepath.Base(legacyPath), data)
	return entries, warnings, len(entries) > 0 && len(warnings) == 0, nil
}

// heldSizes reads every period file and returns, for each one holding
// malformed records, the number of records it contains including the
// malformed ones.
func (s *Store) heldSizes() (map[string]int, error) {
	held := make(map[string]int)
	for _, p := range s.periods.All() {
		entries, warnings, _, err := s.loadPeriod(p.Key)
		if err != nil {
			return nil, err
		}
		if len(warnings) > 0 {
			held[p.Key] = len(entries) + len(warnings)
		}
	}
	return held, nil
}

// SaveResult lists the files Save rewrote.
type SaveResult struct {
	Written   []string
	Unchanged []string
	// Held lists requested periods left untouched because their file on
	// disk contains malformed records.
	Held []string
}

// Save writes the given periods of d, then the index. Files whose bytes would
// not change are left alone, so repeated saves of the same data are no-ops.
// A period whose current file holds malformed records is never rewritten;
// its index size counts the records on disk.
func (s *Store) Save(d Dataset, keys []string) (SaveResult, error) {
	var result SaveResult
	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		if _, ok := s.periods.ByKey(key); !ok {
			return result, services.Wrap(services.ErrValidation, "dataset", "save", "unknown period "+key, nil)
		}
		wanted[key] = true
	}
	held, err := s.heldSizes()
	if err != nil {
		return result, err
	}

	for _, p := range s.periods.All() {
		entries := d[p.Key]
		if !wanted[p.Key] || len(entries) == 0 {
			continue
		}
		if _, ok := held[p.Key]; ok {
			result.Held = append(result.Held, p.Key)
			continue
		}
		data, err := EncodePeriod(p.Key, entries)
		if err != nil {
			return result, err
		}
		if err := s.write(&result, p.Key+periodExt, data); err != nil {
			return result, err
		}
		if s.emitModules {
			module, err := EncodeModule(p.Key, entries)
			if err != nil {
				return result, err
			}
			if err := s.write(&result, p.Key+moduleExt, module); err != nil {
				return result, err
			}
		}
	}

	idx := buildIndex(s.periods, d, held)
	data, err := EncodeIndex(idx)
	if err != nil {
		return result, err
	}
	if err := s.write(&result, indexFileName, data); err != nil {
		return result, err
	}
	if s.emitModules {
		var populated []period.Period
		for _, entry := range idx.Periods {
			p, _ := s.periods.ByKey(entry.Key)
			populated = append(populated, p)
		}
		if err := s.write(&result, monthsModule, EncodeMonthsModule(populated)); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *Store) write(result *SaveResult, name string, data []byte) error {
	changed, err := fileutil.WriteFileIfChanged(filepath.Join(s.dir, name), data, filePerm)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if changed {
		result.Written = append(result.Written, name)
	} else {
		result.Unchanged = append(result.Unchanged, name)
	}
	return nil
}

// ReadIndex loads index.json. The boolean is false when no index exists yet.
func (s *Store) ReadIndex() (Index, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFileName))
	if errors.Is(err, os.ErrNotExist) {
		return Index{}, false, nil
	}
	if err != nil {
		return Index{}, false, fmt.Errorf("read index: %w", err)
	}
	idx, err := DecodeIndex(data)
	if err != nil {
		return Index{}, true, err
	}
	return idx, true, nil
}

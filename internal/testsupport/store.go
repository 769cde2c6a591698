package testsupport

import (
	"testing"

	"leximi/internal/config"
	"leximi/internal/dataset"
	"leximi/internal/period"
)

// MustDatasetStore builds a dataset store over the config's data directory
// using the default period table.
func MustDatasetStore(t testing.TB, cfg *config.Config) *dataset.Store {
	t.Helper()

	store, err := dataset.NewStore(cfg.Paths.DataDir, period.Default(), dataset.WithModules(cfg.Dataset.EmitModules))
	if err != nil {
		t.Fatalf("dataset.NewStore: %v", err)
	}
	return store
}

// MustSave seeds the data directory with the given dataset.
func MustSave(t testing.TB, store *dataset.Store, d dataset.Dataset) {
	t.Helper()

	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	if _, err := store.Save(d, keys); err != nil {
		t.Fatalf("seed dataset: %v", err)
	}
}

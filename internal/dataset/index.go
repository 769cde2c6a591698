package dataset

import (
	"encoding/json"
	"fmt"

	"leximi/internal/period"
)

// BuildIndex lists the populated periods of d in calendar order.
func BuildIndex(table *period.Table, d Dataset) Index {
	return buildIndex(table, d, nil)
}

// buildIndex takes the size of each period in sizes from there instead of d.
func buildIndex(table *period.Table, d Dataset, sizes map[string]int) Index {
	idx := Index{Version: FormatVersion, Periods: []IndexEntry{}}
	for _, p := range table.All() {
		n, ok := sizes[p.Key]
		if !ok {
			n = len(d[p.Key])
		}
		if n > 0 {
			idx.Periods = append(idx.Periods, IndexEntry{Key: p.Key, Label: p.Label, Size: n})
		}
	}
	return idx
}

// EncodeIndex renders index.json.
func EncodeIndex(idx Index) ([]byte, error) {
	data, err := marshalIndented(idx)
	if err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	return data, nil
}

// DecodeIndex parses index.json.
func DecodeIndex(data []byte) (Index, error) {
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return Index{}, fmt.Errorf("decode index: %w", err)
	}
	if idx.Version != FormatVersion {
		return Index{}, fmt.Errorf("decode index: unsupported version %d", idx.Version)
	}
	return idx, nil
}

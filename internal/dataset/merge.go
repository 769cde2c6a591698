package dataset

import (
	"slices"
	"sort"
)

// DayConflict records two or more entries sharing a day within a period.
type DayConflict struct {
	PeriodKey string
	Day       int
	VideoIDs  []string
}

// MergeResult is the outcome of Merge.
type MergeResult struct {
	Dataset      Dataset
	Added        []Candidate
	Skipped      []Candidate
	Modified     []string
	DayConflicts []DayConflict
}

// Changed reports whether any period was modified.
func (r MergeResult) Changed() bool {
	return len(r.Modified) > 0
}

// Merge appends candidates whose video id is not yet present anywhere in
// existing. Modified periods are re-sorted by day (stable); unmodified periods
// are returned as-is. existing is never mutated and existing entries are never
// edited. Candidates sharing a day with another entry are kept and reported;
// conflicts among existing entries alone are not reported again.
func Merge(existing Dataset, candidates []Candidate) MergeResult {
	seen := existing.VideoIDs()
	result := MergeResult{Dataset: make(Dataset, len(existing))}
	for key, entries := range existing {
		result.Dataset[key] = entries
	}

	modified := make(map[string]bool)
	added := make(map[string]bool)
	for _, candidate := range candidates {
		id := candidate.Entry.VideoID
		if _, dup := seen[id]; dup {
			result.Skipped = append(result.Skipped, candidate)
			continue
		}
		seen[id] = struct{}{}
		added[id] = true

		key := candidate.PeriodKey
		if !modified[key] {
			modified[key] = true
			result.Modified = append(result.Modified, key)
			result.Dataset[key] = slices.Clone(existing[key])
		}
		result.Dataset[key] = append(result.Dataset[key], candidate.Entry)
		result.Added = append(result.Added, candidate)
	}

	for _, key := range result.Modified {
		entries := result.Dataset[key]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Day < entries[j].Day
		})
		result.DayConflicts = append(result.DayConflicts, dayConflicts(key, entries, added)...)
	}
	return result
}

// dayConflicts expects entries sorted by day. Only groups containing an id in
// added are returned.
func dayConflicts(key string, entries []DayEntry, added map[string]bool) []DayConflict {
	var conflicts []DayConflict
	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) && entries[j].Day == entries[i].Day {
			j++
		}
		if j-i > 1 {
			conflict := DayConflict{PeriodKey: key, Day: entries[i].Day}
			fresh := false
			for _, entry := range entries[i:j] {
				conflict.VideoIDs = append(conflict.VideoIDs, entry.VideoID)
				fresh = fresh || added[entry.VideoID]
			}
			if fresh {
				conflicts = append(conflicts, conflict)
			}
		}
		i = j
	}
	return conflicts
}

package period

import (
	"fmt"
	"strings"
)

// Period describes one of the fixed calendar buckets a day entry belongs to.
type Period struct {
	Key    string // stable identifier used for file names ("january")
	Label  string // label as published in feed titles ("Janar")
	Number int    // 1-based calendar position
}

// Table is an immutable, calendar-ordered set of periods.
type Table struct {
	periods []Period
	byKey   map[string]int
	byLabel map[string]int
}

// NewTable validates and indexes the provided periods. Order is taken as
// calendar order; keys and labels must be unique and non-empty.
func NewTable(periods []Period) (*Table, error) {
	t := &Table{
		periods: make([]Period, 0, len(periods)),
		byKey:   make(map[string]int, len(periods)),
		byLabel: make(map[string]int, len(periods)),
	}
	for i, p := range periods {
		p.Key = strings.TrimSpace(p.Key)
		p.Label = strings.TrimSpace(p.Label)
		if p.Key == "" || p.Label == "" {
			return nil, fmt.Errorf("period %d: key and label are required", i+1)
		}
		if _, dup := t.byKey[p.Key]; dup {
			return nil, fmt.Errorf("period %d: duplicate key %q", i+1, p.Key)
		}
		if _, dup := t.byLabel[p.Label]; dup {
			return nil, fmt.Errorf("period %d: duplicate label %q", i+1, p.Label)
		}
		p.Number = i + 1
		t.byKey[p.Key] = len(t.periods)
		t.byLabel[p.Label] = len(t.periods)
		t.periods = append(t.periods, p)
	}
	return t, nil
}

// MustTable is NewTable for static tables.
func MustTable(periods []Period) *Table {
	t, err := NewTable(periods)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the Albanian month table used by the reading plan.
func Default() *Table {
	return MustTable([]Period{
		{Key: "january", Label: "Janar"},
		{Key: "february", Label: "Shkurt"},
		{Key: "march", Label: "Mars"},
		{Key: "april", Label: "Prill"},
		{Key: "may", Label: "Maj"},
		{Key: "june", Label: "Qershor"},
		{Key: "july", Label: "Korrik"},
		{Key: "august", Label: "Gusht"},
		{Key: "september", Label: "Shtator"},
		{Key: "october", Label: "Tetor"},
		{Key: "november", Label: "Nëntor"},
		{Key: "december", Label: "Dhjetor"},
	})
}

// ByLabel looks a period up by its published label. Matching is exact.
func (t *Table) ByLabel(label string) (Period, bool) {
	if t == nil {
		return Period{}, false
	}
	idx, ok := t.byLabel[label]
	if !ok {
		return Period{}, false
	}
	return t.periods[idx], true
}

// ByKey looks a period up by its key.
func (t *Table) ByKey(key string) (Period, bool) {
	if t == nil {
		return Period{}, false
	}
	idx, ok := t.byKey[key]
	if !ok {
		return Period{}, false
	}
	return t.periods[idx], true
}

// All returns a copy of the periods in calendar order.
func (t *Table) All() []Period {
	if t == nil {
		return nil
	}
	return append([]Period(nil), t.periods...)
}

// Len returns the number of periods in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.periods)
}

// DateLabel renders the display date for a day within the period ("3 Shkurt").
func (p Period) DateLabel(day int) string {
	return fmt.Sprintf("%d %s", day, p.Label)
}

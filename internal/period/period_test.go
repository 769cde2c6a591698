package period

import "testing"

func TestDefaultTableOrderAndLookups(t *testing.T) {
	table := Default()
	if table.Len() != 12 {
		t.Fatalf("expected 12 periods, got %d", table.Len())
	}
	all := table.All()
	if all[0].Key != "january" || all[11].Key != "december" {
		t.Fatalf("unexpected calendar order: first=%q last=%q", all[0].Key, all[11].Key)
	}
	for i, p := range all {
		if p.Number != i+1 {
			t.Fatalf("period %q numbered %d, want %d", p.Key, p.Number, i+1)
		}
	}

	feb, ok := table.ByLabel("Shkurt")
	if !ok || feb.Key != "february" {
		t.Fatalf("expected Shkurt -> february, got %#v ok=%v", feb, ok)
	}
	if _, ok := table.ByLabel("shkurt"); ok {
		t.Fatal("label lookup must be case-sensitive")
	}
	nov, ok := table.ByKey("november")
	if !ok || nov.Label != "Nëntor" {
		t.Fatalf("unexpected november lookup: %#v", nov)
	}
	if got := feb.DateLabel(3); got != "3 Shkurt" {
		t.Fatalf("DateLabel = %q", got)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	table := Default()
	all := table.All()
	all[0].Key = "mutated"
	if p, _ := table.ByLabel("Janar"); p.Key != "january" {
		t.Fatalf("table mutated through All(): %#v", p)
	}
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		periods []Period
	}{
		{"duplicate key", []Period{{Key: "a", Label: "A"}, {Key: "a", Label: "B"}}},
		{"duplicate label", []Period{{Key: "a", Label: "A"}, {Key: "b", Label: "A"}}},
		{"missing label", []Period{{Key: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable(tt.periods); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

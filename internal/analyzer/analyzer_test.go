package analyzer

import (
	"testing"

	"github.com/refdiff/refdiff/internal/record"
)

func TestAnalyze_Counts(t *testing.T) {
	recs := []record.Record{
		{"title": "A", "year": "2020", "doi": "10.1/a", "abstract": "x", "type_of_reference": "JOUR"},
		{"title": "B", "year": "2021", "type_of_reference": "JOUR"},
		{"title": "C", "type_of_reference": "CONF"},
		{"title": "D"},
	}

	stats := Analyze(recs)
	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.WithDOI != 1 {
		t.Errorf("WithDOI = %d, want 1", stats.WithDOI)
	}
	if stats.WithYear != 2 {
		t.Errorf("WithYear = %d, want 2", stats.WithYear)
	}
	if stats.WithAbstract != 1 {
		t.Errorf("WithAbstract = %d, want 1", stats.WithAbstract)
	}
	if stats.TypeCounts["JOUR"] != 2 || stats.TypeCounts["CONF"] != 1 || stats.TypeCounts["UNKNOWN"] != 1 {
		t.Errorf("TypeCounts = %v", stats.TypeCounts)
	}
	if len(stats.DuplicateGroups) != 0 {
		t.Errorf("DuplicateGroups = %v, want none", stats.DuplicateGroups)
	}
}

func TestAnalyze_DuplicateGroups(t *testing.T) {
	recs := []record.Record{
		{"title": "Same Paper", "year": "2020"},
		{"title": "The Same Paper", "year": "2020"}, // article stripped: same key
		{"title": "Different Paper", "year": "2020"},
		{"doi": "10.1/dup", "title": "X"},
		{"doi": "10.1/DUP", "title": "Y"},
	}

	stats := Analyze(recs)
	if len(stats.DuplicateGroups) != 2 {
		t.Fatalf("DuplicateGroups = %d, want 2", len(stats.DuplicateGroups))
	}
	for _, g := range stats.DuplicateGroups {
		if g.Count != 2 || len(g.Titles) != 2 {
			t.Errorf("group %q has count %d titles %v", g.Key, g.Count, g.Titles)
		}
	}
}

func TestAnalyze_Empty(t *testing.T) {
	stats := Analyze(nil)
	if stats.Total != 0 || len(stats.TypeCounts) != 0 || len(stats.DuplicateGroups) != 0 {
		t.Errorf("Analyze(nil) = %+v, want zero stats", stats)
	}
}

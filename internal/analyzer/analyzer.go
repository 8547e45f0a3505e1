// Package analyzer computes summary statistics over a reference collection.
package analyzer

import (
	"sort"

	"github.com/refdiff/refdiff/internal/dedupe"
	"github.com/refdiff/refdiff/internal/record"
)

// Stats summarizes a parsed reference collection.
type Stats struct {
	Total           int              `json:"total"`
	WithDOI         int              `json:"with_doi"`
	WithYear        int              `json:"with_year"`
	WithAbstract    int              `json:"with_abstract"`
	TypeCounts      map[string]int   `json:"type_counts"`
	DuplicateGroups []DuplicateGroup `json:"duplicate_groups,omitempty"`
}

// DuplicateGroup reports records within one collection that share a match
// key. They are reported, never collapsed; within-side dedup is not this
// tool's job.
type DuplicateGroup struct {
	Key    string   `json:"key"`
	Count  int      `json:"count"`
	Titles []string `json:"titles"`
}

// Analyze computes statistics for a reference collection.
func Analyze(recs []record.Record) Stats {
	stats := Stats{
		Total:      len(recs),
		TypeCounts: make(map[string]int),
	}

	byKey := make(map[string][]record.Record)
	var keyOrder []string

	for _, rec := range recs {
		if rec.DOI() != "" {
			stats.WithDOI++
		}
		if rec.Year() != "" {
			stats.WithYear++
		}
		if rec.Abstract() != "" {
			stats.WithAbstract++
		}

		rtype := rec.Type()
		if rtype == "" {
			rtype = "UNKNOWN"
		}
		stats.TypeCounts[rtype]++

		key := dedupe.GenerateKey(rec)
		if _, seen := byKey[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		byKey[key] = append(byKey[key], rec)
	}

	for _, key := range keyOrder {
		group := byKey[key]
		if len(group) < 2 {
			continue
		}
		titles := make([]string, len(group))
		for i, rec := range group {
			titles[i] = rec.Title()
		}
		stats.DuplicateGroups = append(stats.DuplicateGroups, DuplicateGroup{
			Key:    key,
			Count:  len(group),
			Titles: titles,
		})
	}
	sort.Slice(stats.DuplicateGroups, func(i, j int) bool {
		if stats.DuplicateGroups[i].Count != stats.DuplicateGroups[j].Count {
			return stats.DuplicateGroups[i].Count > stats.DuplicateGroups[j].Count
		}
		return stats.DuplicateGroups[i].Key < stats.DuplicateGroups[j].Key
	})

	return stats
}

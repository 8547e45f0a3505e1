package main

import (
	"testing"

	"github.com/refdiff/refdiff/internal/record"
)

func TestFindInLibrary(t *testing.T) {
	library := []record.Record{
		{"title": "Machine Learning in Healthcare", "year": "2023"},
		{"title": "Quantum Error Correction", "year": "2019", "doi": "10.1234/qec"},
		{"title": "Deep Learning for Genomics"},
	}

	tests := []struct {
		name      string
		rec       record.Record
		wantTitle string
		wantFound bool
	}{
		{
			name:      "DOI match ignores title text",
			rec:       record.Record{"doi": "10.1234/QEC", "title": "completely different"},
			wantTitle: "Quantum Error Correction",
			wantFound: true,
		},
		{
			name:      "typo'd title matches dated library entry without a year",
			rec:       record.Record{"title": "Machine Learing in Healthcare"},
			wantTitle: "Machine Learning in Healthcare",
			wantFound: true,
		},
		{
			name:      "exact normalized title matches dated entry without a year",
			rec:       record.Record{"title": "The Machine Learning in Healthcare"},
			wantTitle: "Machine Learning in Healthcare",
			wantFound: true,
		},
		{
			name:      "exact key match when neither side has a year",
			rec:       record.Record{"title": "Deep Learning for Genomics"},
			wantTitle: "Deep Learning for Genomics",
			wantFound: true,
		},
		{
			name:      "unrelated title not found",
			rec:       record.Record{"title": "Organic Chemistry of Soils"},
			wantFound: false,
		},
		{
			name:      "empty title not found",
			rec:       record.Record{"title": ""},
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, conf, reason := findInLibrary(tt.rec, library, 0.90)
			if tt.wantFound {
				if match == nil {
					t.Fatalf("findInLibrary() = nil, want match for %q", tt.wantTitle)
				}
				if got := match.Title(); got != tt.wantTitle {
					t.Errorf("matched title = %q, want %q", got, tt.wantTitle)
				}
				if conf <= 0 || reason == "" {
					t.Errorf("confidence = %v, reason = %q, want both set", conf, reason)
				}
			} else if match != nil {
				t.Errorf("findInLibrary() matched %q, want no match", match.Title())
			}
		})
	}
}

func TestFindInLibrary_ThresholdRespected(t *testing.T) {
	library := []record.Record{
		{"title": "Machine Learning in Healthcare", "year": "2023"},
	}
	rec := record.Record{"title": "Machine Learing in Healthcare"}

	if match, _, _ := findInLibrary(rec, library, 0.99); match != nil {
		t.Errorf("findInLibrary() matched at threshold 0.99, want no match")
	}
	if match, _, _ := findInLibrary(rec, library, 0.95); match == nil {
		t.Errorf("findInLibrary() found no match at threshold 0.95")
	}
}

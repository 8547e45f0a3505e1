package pdfmeta

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain doi", "See 10.1234/abc.def for details", "10.1234/abc.def"},
		{"doi with label", "doi: 10.1038/s41586-020-2649-2", "10.1038/s41586-020-2649-2"},
		{"trailing period stripped", "available at 10.1234/xyz. More text", "10.1234/xyz"},
		{"trailing comma stripped", "10.5555/a1b2, published 2021", "10.5555/a1b2"},
		{"long registrant", "10.123456789/suffix", "10.123456789/suffix"},
		{"no doi", "nothing bibliographic here", ""},
		{"too few registrant digits", "10.123/short", ""},
		{"first of several", "10.1111/first then 10.2222/second", "10.1111/first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindTitle(t *testing.T) {
	text := "Journal of Examples Vol. 3\n" +
		"Downloaded from example.org\n" +
		"Deep Learning Methods for Reference Deduplication\n" +
		"John Smith, Jane Doe\n"

	if got := findTitle(text); got != "Deep Learning Methods for Reference Deduplication" {
		t.Errorf("findTitle() = %q", got)
	}
}

func TestFindTitle_ShortLinesSkipped(t *testing.T) {
	if got := findTitle("Abstract\n3\nIntro\n"); got != "" {
		t.Errorf("findTitle() = %q, want empty for short lines", got)
	}
}

func TestMetadata_Record(t *testing.T) {
	m := Metadata{DOI: "10.1/x", Title: "T"}
	rec := m.Record()
	if rec.DOI() != "10.1/x" || rec.Title() != "T" {
		t.Errorf("Record() = %v", rec)
	}

	if got := (Metadata{}).Record(); got != nil {
		t.Errorf("empty metadata should yield nil record, got %v", got)
	}
}

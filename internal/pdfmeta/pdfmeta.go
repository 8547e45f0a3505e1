// Package pdfmeta extracts bibliographic metadata from PDF files so a paper
// on disk can be checked against a reference library.
package pdfmeta

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/refdiff/refdiff/internal/record"
)

// metaPageLimit is how many leading pages are scanned for metadata; the DOI
// and title are on the first page of almost every published PDF.
const metaPageLimit = 3

// doiPattern matches DOIs: 10.<4-9 digit registrant>/<suffix>.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// Metadata holds what could be recovered from a PDF.
type Metadata struct {
	DOI   string `json:"doi,omitempty"`
	Title string `json:"title,omitempty"`
}

// Extract scans the leading pages of a PDF for a DOI and a plausible title.
// Absence of either is not an error; a file that cannot be opened or parsed
// as a PDF is.
func Extract(path string) (Metadata, error) {
	text, err := leadingText(path, metaPageLimit)
	if err != nil {
		return Metadata{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return Metadata{
		DOI:   FindDOI(text),
		Title: findTitle(text),
	}, nil
}

// Record converts the metadata to an engine record. Returns nil when the PDF
// yielded nothing usable for matching.
func (m Metadata) Record() record.Record {
	if m.DOI == "" && m.Title == "" {
		return nil
	}
	rec := record.Record{}
	if m.DOI != "" {
		rec["doi"] = m.DOI
	}
	if m.Title != "" {
		rec["title"] = m.Title
	}
	return rec
}

// FindDOI returns the first DOI-shaped token in text, with trailing
// punctuation from the surrounding sentence removed.
func FindDOI(text string) string {
	match := doiPattern.FindString(text)
	if match == "" {
		return ""
	}
	return strings.TrimRight(match, ".,;:")
}

// findTitle picks the first substantial line of the text as a best-effort
// title guess.
func findTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isBoilerplate(line) {
			return line
		}
	}
	return ""
}

// isBoilerplate filters running heads, license lines and similar noise that
// often precedes the title in extracted text.
func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range []string{
		"downloaded from",
		"all rights reserved",
		"creative commons",
		"preprint",
		"doi:",
		"https://",
		"http://",
		"copyright",
		"vol.",
		"journal of",
	} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// leadingText extracts plain text from the first maxPages pages.
func leadingText(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	var b strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // a damaged page should not sink the whole scan
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

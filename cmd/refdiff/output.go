package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/refdiff/refdiff/internal/record"
)

// Title truncation length for human-readable listings.
const listTitleMaxLen = 70

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON)
// and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RecordSummary is the JSON projection of a record in command output.
type RecordSummary struct {
	Title   string   `json:"title,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Year    string   `json:"year,omitempty"`
	Journal string   `json:"journal,omitempty"`
	DOI     string   `json:"doi,omitempty"`
	Fuzzy   bool     `json:"fuzzy_match,omitempty"`
}

// summarize converts records to their output projection.
func summarize(recs []record.Record) []RecordSummary {
	out := make([]RecordSummary, len(recs))
	for i, rec := range recs {
		out[i] = RecordSummary{
			Title:   rec.Title(),
			Authors: rec.Authors(),
			Year:    rec.Year(),
			Journal: rec.Journal(),
			DOI:     rec.DOI(),
			Fuzzy:   rec.IsFuzzyMatch(),
		}
	}
	return out
}

// printRecordListHuman prints a numbered record listing.
func printRecordListHuman(recs []record.Record) {
	for i, rec := range recs {
		marker := ""
		if rec.IsFuzzyMatch() {
			marker = " [fuzzy]"
		}
		fmt.Printf("%d. %s%s\n", i+1, truncateString(rec.Title(), listTitleMaxLen), marker)
		var details []string
		if authors := rec.Authors(); len(authors) > 0 {
			details = append(details, formatAuthorsShort(authors, 3))
		}
		if year := rec.Year(); year != "" {
			details = append(details, year)
		}
		if doi := rec.DOI(); doi != "" {
			details = append(details, doi)
		}
		if len(details) > 0 {
			fmt.Printf("   %s\n", strings.Join(details, " · "))
		}
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatAuthorsShort joins authors with "et al." after maxCount entries.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}
	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, a)
	}
	return strings.Join(names, ", ")
}

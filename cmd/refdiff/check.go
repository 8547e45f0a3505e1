package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refdiff/refdiff/internal/dedupe"
	"github.com/refdiff/refdiff/internal/pdfmeta"
	"github.com/refdiff/refdiff/internal/record"
)

var checkThreshold float64

func init() {
	checkCmd.Flags().Float64Var(&checkThreshold, "threshold", dedupe.DefaultThreshold, "minimum title similarity for a fuzzy match")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check LIBRARY.ris PAPER.pdf",
	Short: "Check whether a PDF is already in a RIS library",
	Long: `Check whether a PDF is already present in a RIS library. The PDF's
leading pages are scanned for a DOI and a title, and the extracted
metadata is matched against the library by exact key first, then by
title similarity alone (a PDF carries no year to compare).

Examples:
  refdiff check library.ris paper.pdf
  refdiff check --threshold 0.85 library.ris paper.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

// CheckResult reports whether and how a PDF matched a library entry.
type CheckResult struct {
	Found        bool           `json:"found"`
	DOI          string         `json:"doi,omitempty"`
	Title        string         `json:"title,omitempty"`
	Match        *RecordSummary `json:"match,omitempty"`
	Confidence   float64        `json:"confidence,omitempty"`
	Reason       string         `json:"reason,omitempty"`
	LibraryCount int            `json:"library_count"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkThreshold <= 0 || checkThreshold > 1 {
		exitWithError(ExitError, "threshold must be in (0, 1], got %g", checkThreshold)
	}

	library := mustParseLibrary(args[0])

	meta, err := pdfmeta.Extract(args[1])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[1], err)
	}
	rec := meta.Record()
	if rec == nil {
		exitWithError(ExitDataError, "no DOI or title found in %s", args[1])
	}

	result := CheckResult{
		DOI:          meta.DOI,
		Title:        meta.Title,
		LibraryCount: len(library),
	}

	if match, conf, reason := findInLibrary(rec, library, checkThreshold); match != nil {
		s := summarize([]record.Record{match})[0]
		result.Found = true
		result.Match = &s
		result.Confidence = conf
		result.Reason = reason
	}

	if !humanOutput {
		return outputJSON(result)
	}

	if meta.DOI != "" {
		fmt.Printf("PDF DOI:   %s\n", meta.DOI)
	}
	if meta.Title != "" {
		fmt.Printf("PDF title: %s\n", truncateString(meta.Title, listTitleMaxLen))
	}
	if result.Found {
		fmt.Printf("\nFound in library (%s, confidence %.2f):\n", result.Reason, result.Confidence)
		fmt.Printf("  %s\n", truncateString(result.Match.Title, listTitleMaxLen))
	} else {
		fmt.Printf("\nNot found in library (%d references checked)\n", len(library))
	}
	return nil
}

// findInLibrary looks for the record by exact key first, then by title
// similarity alone. Extracted PDF metadata carries no year, so the fuzzy
// scan must not require year agreement the way the residual pass does.
func findInLibrary(rec record.Record, library []record.Record, threshold float64) (record.Record, float64, string) {
	key := dedupe.GenerateKey(rec)
	for _, entry := range library {
		if dedupe.GenerateKey(entry) == key {
			conf, reason := dedupe.Score(rec, entry)
			return entry, conf, reason
		}
	}

	norm := dedupe.NormalizeTitle(rec.Title())
	if norm == "" {
		return nil, 0, ""
	}
	for _, entry := range library {
		entryNorm := dedupe.NormalizeTitle(entry.Title())
		if entryNorm == "" {
			continue
		}
		if entryNorm == norm || dedupe.Ratio(norm, entryNorm) >= threshold {
			conf, reason := dedupe.Score(rec, entry)
			return entry, conf, reason
		}
	}
	return nil, 0, ""
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refdiff/refdiff/internal/dedupe"
	"github.com/refdiff/refdiff/internal/record"
	"github.com/refdiff/refdiff/internal/ris"
)

var (
	compareNoFuzzy   bool
	compareThreshold float64
	compareMatches   bool
)

func init() {
	compareCmd.Flags().BoolVar(&compareNoFuzzy, "no-fuzzy", false, "Disable the fuzzy pass for near-duplicate titles")
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", dedupe.DefaultThreshold, "Fuzzy similarity threshold (0-1]")
	compareCmd.Flags().BoolVar(&compareMatches, "matches", false, "Include fuzzy match pairs with confidence scores")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare A.ris B.ris",
	Short: "Compare two RIS libraries",
	Long: `Compare two RIS libraries and report overlap and unique references.

Matching runs in two passes. The exact pass matches on DOI (authoritative)
or normalized title plus year. The fuzzy pass then recovers near-duplicate
titles among the leftovers, requiring equal years.

Inputs are RIS files; .json files holding an array of records are also
accepted.

Examples:
  refdiff compare a.ris b.ris
  refdiff compare --no-fuzzy a.ris b.ris
  refdiff compare --threshold 0.95 --matches a.ris exported.json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

// CompareResult is the JSON output of the compare command.
type CompareResult struct {
	TotalA       int             `json:"total_a"`
	TotalB       int             `json:"total_b"`
	OverlapCount int             `json:"overlap_count"`
	UniqueACount int             `json:"unique_a_count"`
	UniqueBCount int             `json:"unique_b_count"`
	Overlap      []RecordSummary `json:"overlap"`
	UniqueA      []RecordSummary `json:"unique_a"`
	UniqueB      []RecordSummary `json:"unique_b"`
	FuzzyMatches []FuzzyMatchOut `json:"fuzzy_matches,omitempty"`
}

// FuzzyMatchOut reports one fuzzy pair with both sides and its confidence.
type FuzzyMatchOut struct {
	TitleA     string  `json:"title_a"`
	TitleB     string  `json:"title_b"`
	Year       string  `json:"year,omitempty"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	if compareThreshold <= 0 || compareThreshold > 1 {
		return fmt.Errorf("threshold must be in (0, 1], got %v", compareThreshold)
	}

	recsA := mustParseLibrary(args[0])
	recsB := mustParseLibrary(args[1])

	opts := dedupe.Options{UseFuzzy: !compareNoFuzzy, Threshold: compareThreshold}
	overlap, uniqueA, uniqueB := dedupe.Compare(recsA, recsB, opts)

	result := CompareResult{
		TotalA:       len(recsA),
		TotalB:       len(recsB),
		OverlapCount: len(overlap),
		UniqueACount: len(uniqueA),
		UniqueBCount: len(uniqueB),
		Overlap:      summarize(overlap),
		UniqueA:      summarize(uniqueA),
		UniqueB:      summarize(uniqueB),
	}

	if compareMatches && !compareNoFuzzy {
		result.FuzzyMatches = fuzzyMatchDetails(recsA, recsB, compareThreshold)
	}

	if humanOutput {
		printCompareHuman(args[0], args[1], result, overlap, uniqueA, uniqueB)
		return nil
	}
	return outputJSON(result)
}

// fuzzyMatchDetails re-runs the partition and fuzzy pass to recover the
// full pairs, since Compare's output keeps only the A side of each fuzzy
// match.
func fuzzyMatchDetails(recsA, recsB []record.Record, threshold float64) []FuzzyMatchOut {
	_, uniqueAKeys, uniqueBKeys := dedupe.PartitionKeys(recsA, recsB)
	residualA := dedupe.FilterByKeys(recsA, uniqueAKeys)
	residualB := dedupe.FilterByKeys(recsB, uniqueBKeys)

	matches, _, _ := dedupe.FuzzyPass(residualA, residualB, threshold)
	out := make([]FuzzyMatchOut, len(matches))
	for i, m := range matches {
		out[i] = FuzzyMatchOut{
			TitleA:     m.A.Title(),
			TitleB:     m.B.Title(),
			Year:       m.A.Year(),
			Confidence: m.Confidence,
			Reason:     m.Reason,
		}
	}
	return out
}

func printCompareHuman(nameA, nameB string, result CompareResult, overlap, uniqueA, uniqueB []record.Record) {
	fmt.Printf("%s: %d references\n", nameA, result.TotalA)
	fmt.Printf("%s: %d references\n\n", nameB, result.TotalB)

	fmt.Printf("Overlap (%d):\n", result.OverlapCount)
	printRecordListHuman(overlap)

	fmt.Printf("\nUnique to %s (%d):\n", nameA, result.UniqueACount)
	printRecordListHuman(uniqueA)

	fmt.Printf("\nUnique to %s (%d):\n", nameB, result.UniqueBCount)
	printRecordListHuman(uniqueB)

	if len(result.FuzzyMatches) > 0 {
		fmt.Printf("\nFuzzy matches (%d):\n", len(result.FuzzyMatches))
		for _, m := range result.FuzzyMatches {
			fmt.Printf("  [%.2f] %q ~ %q (%s)\n", m.Confidence, m.TitleA, m.TitleB, m.Reason)
		}
	}
}

// mustParseLibrary reads a reference library from disk, exiting on failure.
// RIS is the native format; .json files holding an array of field mappings
// (as exported by other reference managers) are accepted too.
func mustParseLibrary(path string) []record.Record {
	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			exitWithError(ExitDataError, "parsing %s: %v", path, err)
		}
		recs, err := record.Slice(raw)
		if err != nil {
			exitWithError(ExitDataError, "parsing %s: %v", path, err)
		}
		return recs
	}

	recs, err := ris.Parse(data)
	if err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", path, err)
	}
	return recs
}

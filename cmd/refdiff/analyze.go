package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/refdiff/refdiff/internal/analyzer"
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE.ris",
	Short: "Summarize a RIS library",
	Long: `Summarize a RIS library: totals, field coverage, reference types,
and groups of entries within the file that share a match key (likely
duplicates). Duplicate groups are reported, never removed.

Examples:
  refdiff analyze library.ris
  refdiff analyze --human library.ris`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	recs := mustParseLibrary(args[0])
	stats := analyzer.Analyze(recs)

	if !humanOutput {
		return outputJSON(stats)
	}

	fmt.Printf("%s: %d references\n\n", args[0], stats.Total)
	fmt.Printf("  With DOI:      %d\n", stats.WithDOI)
	fmt.Printf("  With year:     %d\n", stats.WithYear)
	fmt.Printf("  With abstract: %d\n", stats.WithAbstract)

	if len(stats.TypeCounts) > 0 {
		fmt.Println("\nReference types:")
		types := make([]string, 0, len(stats.TypeCounts))
		for t := range stats.TypeCounts {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Printf("  %-8s %d\n", t, stats.TypeCounts[t])
		}
	}

	if len(stats.DuplicateGroups) > 0 {
		fmt.Printf("\nPossible duplicates (%d groups):\n", len(stats.DuplicateGroups))
		for _, g := range stats.DuplicateGroups {
			fmt.Printf("  %d entries:\n", g.Count)
			for _, title := range g.Titles {
				fmt.Printf("    - %s\n", truncateString(title, listTitleMaxLen))
			}
		}
	}

	return nil
}

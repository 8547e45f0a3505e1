package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/refdiff/refdiff/internal/dedupe"
	"github.com/refdiff/refdiff/internal/record"
	"github.com/refdiff/refdiff/internal/ris"
)

var (
	exportSubset    string
	exportOut       string
	exportNoFuzzy   bool
	exportThreshold float64
)

func init() {
	exportCmd.Flags().StringVar(&exportSubset, "subset", "overlap", "which subset to export: overlap, unique-a, or unique-b")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write RIS to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportNoFuzzy, "no-fuzzy", false, "disable the fuzzy title matching pass")
	exportCmd.Flags().Float64Var(&exportThreshold, "threshold", dedupe.DefaultThreshold, "minimum title similarity for a fuzzy match")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export FILE_A.ris FILE_B.ris",
	Short: "Export a comparison subset as RIS",
	Long: `Compare two RIS files and write one subset of the result as RIS.
The subset is one of overlap (records found in both files), unique-a,
or unique-b.

Examples:
  refdiff export a.ris b.ris
  refdiff export --subset unique-a -o only_in_a.ris a.ris b.ris`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportThreshold <= 0 || exportThreshold > 1 {
		exitWithError(ExitError, "threshold must be in (0, 1], got %g", exportThreshold)
	}

	recsA := mustParseLibrary(args[0])
	recsB := mustParseLibrary(args[1])

	overlap, uniqueA, uniqueB := dedupe.Compare(recsA, recsB, dedupe.Options{
		UseFuzzy:  !exportNoFuzzy,
		Threshold: exportThreshold,
	})

	var subset []record.Record
	switch exportSubset {
	case "overlap":
		subset = overlap
	case "unique-a":
		subset = uniqueA
	case "unique-b":
		subset = uniqueB
	default:
		exitWithError(ExitError, "unknown subset %q (want overlap, unique-a, or unique-b)", exportSubset)
	}

	out := ris.Write(subset)
	if exportOut == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(exportOut, []byte(out), 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", exportOut, err)
	}
	if humanOutput {
		fmt.Printf("Wrote %d references to %s\n", len(subset), exportOut)
	}
	return nil
}

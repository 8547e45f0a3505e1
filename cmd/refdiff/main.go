// Package main provides the refdiff CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refdiff",
	Short: "Compare RIS reference libraries",
	Long: `refdiff compares two RIS bibliographic libraries and reports which
references appear in both, and which are unique to each side.

Matching is DOI-first: references sharing a DOI always match regardless of
title differences. References without DOIs match on normalized title plus
year, with an optional fuzzy pass that recovers near-duplicate titles
(typos, re-typed entries) among the leftovers.

Commands output JSON by default for scripting; pass --human for tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

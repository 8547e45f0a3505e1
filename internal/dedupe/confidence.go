package dedupe

import (
	"fmt"
	"strings"

	"github.com/refdiff/refdiff/internal/record"
)

// Score rates the strength of a candidate pair and explains the rating.
// First applicable rule wins:
//
//  1. Equal non-empty DOIs (case/space-insensitive) -> 1.0
//  2. Equal normalized titles and equal non-empty truncated years -> 0.95
//  3. Title similarity with equal truncated years:
//     >= 0.95 -> 0.90, >= 0.90 -> 0.85, >= 0.85 -> 0.75
//  4. Otherwise -> 0.50
//
// Advisory only; the exact and fuzzy matchers decide membership, Score
// explains it. Callable on any pair independently of a comparison run.
func Score(a, b record.Record) (float64, string) {
	doiA := strings.ToLower(strings.TrimSpace(a.DOI()))
	doiB := strings.ToLower(strings.TrimSpace(b.DOI()))
	if doiA != "" && doiA == doiB {
		return 1.0, "DOI match"
	}

	titleA := NormalizeTitle(a.Title())
	titleB := NormalizeTitle(b.Title())
	yearA := truncateYear(a.Year())
	yearB := truncateYear(b.Year())

	if titleA == titleB && yearA == yearB && yearA != "" {
		return 0.95, "exact title+year match"
	}

	if titleA != "" && titleB != "" {
		similarity := Ratio(titleA, titleB)
		switch {
		case similarity >= 0.95 && yearA == yearB:
			return 0.90, fmt.Sprintf("high similarity (%.2f)", similarity)
		case similarity >= 0.90 && yearA == yearB:
			return 0.85, fmt.Sprintf("good similarity (%.2f)", similarity)
		case similarity >= 0.85 && yearA == yearB:
			return 0.75, fmt.Sprintf("fair similarity (%.2f)", similarity)
		}
	}

	return 0.50, "low confidence match"
}

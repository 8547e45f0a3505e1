package dedupe

import (
	"github.com/refdiff/refdiff/internal/record"
)

// DefaultThreshold is the similarity ratio above which two normalized titles
// are considered the same reference in the fuzzy pass.
const DefaultThreshold = 0.90

// Match pairs a record from each side with an advisory confidence rating.
type Match struct {
	A          record.Record `json:"record_a"`
	B          record.Record `json:"record_b"`
	Confidence float64       `json:"confidence"`
	Reason     string        `json:"reason"`
	Fuzzy      bool          `json:"fuzzy"`
}

// FuzzyPass recovers near-duplicate titles among records left unmatched by
// the exact partition. Greedy and order-preserving: each A-side record takes
// the first B-side record whose truncated year matches and whose normalized
// title similarity reaches the threshold, then stops scanning. This is not a
// globally optimal assignment; stable iteration order keeps the outcome
// deterministic.
//
// Years must agree on their first four characters, including the case where
// both are empty. That relaxation is deliberate: this pass only sees records
// that already failed year-based exact keying, so an empty-year pair here is
// a typo candidate, not a collision risk.
//
// O(len(uniqueA) * len(uniqueB)); acceptable because it runs on the residual
// left after exact matching, which is expected to be small.
func FuzzyPass(uniqueA, uniqueB []record.Record, threshold float64) (matches []Match, remainingA, remainingB []record.Record) {
	matchedA := make(map[int]bool)
	matchedB := make(map[int]bool)

	for i, ra := range uniqueA {
		titleA := ra.Title()
		if titleA == "" {
			continue
		}
		normA := NormalizeTitle(titleA)
		yearA := truncateYear(ra.Year())

		for j, rb := range uniqueB {
			if matchedB[j] {
				continue
			}
			titleB := rb.Title()
			if titleB == "" {
				continue
			}
			if yearA != truncateYear(rb.Year()) {
				continue
			}
			normB := NormalizeTitle(titleB)
			if normA == "" || normB == "" {
				continue
			}

			if Ratio(normA, normB) >= threshold {
				confidence, reason := Score(ra, rb)
				matches = append(matches, Match{
					A:          ra,
					B:          rb,
					Confidence: confidence,
					Reason:     reason,
					Fuzzy:      true,
				})
				matchedA[i] = true
				matchedB[j] = true
				break // first qualifying match wins for this A record
			}
		}
	}

	for i, rec := range uniqueA {
		if !matchedA[i] {
			remainingA = append(remainingA, rec)
		}
	}
	for j, rec := range uniqueB {
		if !matchedB[j] {
			remainingB = append(remainingB, rec)
		}
	}

	return matches, remainingA, remainingB
}

package dedupe

import (
	"github.com/refdiff/refdiff/internal/record"
)

// Options configure a comparison run.
type Options struct {
	// UseFuzzy enables the residual fuzzy pass after exact matching.
	UseFuzzy bool
	// Threshold is the fuzzy similarity cutoff; 0 means DefaultThreshold.
	Threshold float64
}

// DefaultOptions enables the fuzzy pass at the default threshold.
func DefaultOptions() Options {
	return Options{UseFuzzy: true, Threshold: DefaultThreshold}
}

// Compare partitions two record collections into overlap, unique-to-A and
// unique-to-B. Exact key matching runs first; when fuzzy matching is enabled
// and both residual sets are non-empty, the fuzzy pass recovers
// near-duplicate titles from them.
//
// Fuzzy matches contribute only their A-side record to overlap, flagged with
// fuzzy_match=true; the B-side record is dropped from the output entirely.
// Full pairs with both sides and confidence are available from FuzzyPass
// directly when provenance matters.
//
// Input records are never mutated. Output order follows input order within
// each collection, with fuzzy-recovered records appended after the exact
// overlap. Each call is independent and deterministic given its inputs.
func Compare(a, b []record.Record, opts Options) (overlap, uniqueA, uniqueB []record.Record) {
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}

	// Empty-side shortcuts: nothing to partition.
	if len(a) == 0 && len(b) == 0 {
		return nil, nil, nil
	}
	if len(a) == 0 {
		return nil, nil, stripInternal(b)
	}
	if len(b) == 0 {
		return nil, stripInternal(a), nil
	}

	overlapKeys, uniqueAKeys, uniqueBKeys := PartitionKeys(a, b)
	overlap = FilterByKeys(a, overlapKeys)
	uniqueA = FilterByKeys(a, uniqueAKeys)
	uniqueB = FilterByKeys(b, uniqueBKeys)

	if opts.UseFuzzy && len(uniqueA) > 0 && len(uniqueB) > 0 {
		matches, remainingA, remainingB := FuzzyPass(uniqueA, uniqueB, opts.Threshold)
		for _, m := range matches {
			rec := m.A.Clone()
			rec[record.FuzzyMatchField] = true
			overlap = append(overlap, rec)
		}
		uniqueA = remainingA
		uniqueB = remainingB
	}

	return stripInternal(overlap), stripInternal(uniqueA), stripInternal(uniqueB)
}

// stripInternal removes engine-internal annotations from every record.
func stripInternal(recs []record.Record) []record.Record {
	if len(recs) == 0 {
		return recs
	}
	out := make([]record.Record, len(recs))
	for i, rec := range recs {
		out[i] = rec.StripInternal()
	}
	return out
}

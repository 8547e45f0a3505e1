package dedupe

import (
	"github.com/refdiff/refdiff/internal/record"
)

// keySet is a set of generated match keys. Keys are ephemeral: they exist
// only for the duration of one comparison and are never persisted as
// identities.
type keySet map[string]struct{}

func (s keySet) has(key string) bool {
	_, ok := s[key]
	return ok
}

// PartitionKeys generates keys for both collections and splits them into the
// intersection and the two side-only sets. O(n+m).
func PartitionKeys(a, b []record.Record) (overlap, uniqueA, uniqueB keySet) {
	keysA := make(keySet, len(a))
	for _, rec := range a {
		keysA[GenerateKey(rec)] = struct{}{}
	}
	keysB := make(keySet, len(b))
	for _, rec := range b {
		keysB[GenerateKey(rec)] = struct{}{}
	}

	overlap = make(keySet)
	uniqueA = make(keySet)
	uniqueB = make(keySet)
	for key := range keysA {
		if keysB.has(key) {
			overlap[key] = struct{}{}
		} else {
			uniqueA[key] = struct{}{}
		}
	}
	for key := range keysB {
		if !keysA.has(key) {
			uniqueB[key] = struct{}{}
		}
	}
	return overlap, uniqueA, uniqueB
}

// FilterByKeys returns the records whose generated key is in keys, preserving
// input order. Records on one side that share a key all pass through; within-
// side dedup is deliberately not performed here.
func FilterByKeys(recs []record.Record, keys keySet) []record.Record {
	var out []record.Record
	for _, rec := range recs {
		if keys.has(GenerateKey(rec)) {
			out = append(out, rec)
		}
	}
	return out
}

package dedupe

// Ratio computes a similarity ratio in [0, 1] between two strings using
// Gestalt pattern matching: the strings are recursively decomposed around
// their longest matching blocks and the ratio is 2*M/T, where M is the total
// number of matched characters and T the combined length. 1.0 means
// identical; 0.0 means no characters in common (or one side empty).
//
// The tie-break (lowest starting index in a, then in b) keeps results stable
// for equal-length candidate blocks.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		if len(ra) == 0 && len(rb) == 0 {
			return 1.0
		}
		return 0.0
	}

	m := newBlockMatcher(ra, rb)
	matched := m.matchedCount(0, len(ra), 0, len(rb))
	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

// blockMatcher finds longest matching blocks between two rune sequences.
type blockMatcher struct {
	a, b []rune
	b2j  map[rune][]int // positions of each rune in b, ascending
}

func newBlockMatcher(a, b []rune) *blockMatcher {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	return &blockMatcher{a: a, b: b, b2j: b2j}
}

// matchedCount returns the total length of all matching blocks within
// a[alo:ahi] and b[blo:bhi].
func (m *blockMatcher) matchedCount(alo, ahi, blo, bhi int) int {
	i, j, size := m.longestMatch(alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		m.matchedCount(alo, i, blo, j) +
		m.matchedCount(i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest block of runes common to a[alo:ahi] and
// b[blo:bhi], returning its start in a, start in b, and length. Among blocks
// of equal length the earliest in a, then earliest in b, wins.
func (m *blockMatcher) longestMatch(alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	// j2len[j] is the length of the longest match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	return besti, bestj, bestsize
}

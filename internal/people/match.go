package people

import "strings"

// DefaultMatchThreshold is the contract similarity threshold for name
// resolution. Callers may rely on it staying at 0.85.
const DefaultMatchThreshold = 0.85

// Ratio computes a sequence-alignment similarity between two strings in
// [0, 1]. Both inputs are trimmed and case-folded first, then compared over
// runes so multi-byte characters count once. The score is
// 2*M / (len(a)+len(b)) where M is the total size of the longest matching
// blocks: identical strings score 1.0, strings with no common characters
// score 0.0, and the measure is symmetric. Empty input on either side is
// treated as a non-match (0.0).
func Ratio(a, b string) float64 {
	ar := []rune(strings.ToLower(strings.TrimSpace(a)))
	br := []rune(strings.ToLower(strings.TrimSpace(b)))
	if len(ar) == 0 || len(br) == 0 {
		return 0
	}
	m := matchedSize(ar, br, 0, len(ar), 0, len(br))
	return 2 * float64(m) / float64(len(ar)+len(br))
}

// Similar reports whether Ratio(a, b) clears the given threshold. A zero or
// negative threshold falls back to DefaultMatchThreshold.
func Similar(a, b string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return Ratio(a, b) >= threshold
}

// matchedSize sums the sizes of matching blocks by recursively splitting
// around the longest common block, mirroring the classic sequence-matcher
// decomposition.
func matchedSize(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, k := longestMatch(a, b, alo, ahi, blo, bhi)
	if k == 0 {
		return 0
	}
	return k + matchedSize(a, b, alo, i, blo, j) + matchedSize(a, b, i+k, ahi, j+k, bhi)
}

// longestMatch finds the longest contiguous matching block within
// a[alo:ahi] and b[blo:bhi]. Earliest block wins on equal lengths, which
// keeps the decomposition deterministic.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestsize
}

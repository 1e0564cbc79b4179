// Package typoutil provides the edit-distance primitives behind fuzzy term
// matching.
package typoutil

import "context"

// LevenshteinDistance computes the classic Levenshtein distance between two
// strings: the minimum number of single-character insertions, deletions, or
// substitutions required to turn one into the other. It works on runes so
// multi-byte characters count as single edits.
func LevenshteinDistance(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// matrix[i][j] is the distance between the first i runes of a and the
	// first j runes of b.
	matrix := make([][]int, lenA+1)
	for i := range matrix {
		matrix[i] = make([]int, lenB+1)
	}
	for i := 0; i <= lenA; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= lenB; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= lenA; i++ {
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost

			matrix[i][j] = min3(deletion, insertion, substitution)
		}
	}

	return matrix[lenA][lenB]
}

// LevenshteinDistanceWithLimit computes the Levenshtein distance with early
// termination. It returns maxDistance + 1 as soon as the distance is known
// to exceed maxDistance, which keeps vocabulary scans cheap.
func LevenshteinDistanceWithLimit(a, b string, maxDistance int) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	lengthDiff := lenA - lenB
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	if lengthDiff > maxDistance {
		return maxDistance + 1
	}

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		minInRow := i

		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := prevRow[j] + 1
			insertion := currRow[j-1] + 1
			substitution := prevRow[j-1] + cost

			currRow[j] = min3(deletion, insertion, substitution)
			if currRow[j] < minInRow {
				minInRow = currRow[j]
			}
		}

		// Once every cell in a row exceeds maxDistance the final result
		// cannot come back under it.
		if minInRow > maxDistance {
			return maxDistance + 1
		}

		prevRow, currRow = currRow, prevRow
	}

	return prevRow[lenB]
}

// checkCancelEvery bounds how often the vocabulary scan polls the context.
const checkCancelEvery = 256

// FindNearTerms scans vocabulary for terms within maxDistance edits of term.
// The scan honors ctx so a pathological query against a large vocabulary can
// be cut short; the terms found so far are discarded and ctx.Err() returned.
func FindNearTerms(ctx context.Context, term string, vocabulary []string, maxDistance int) ([]string, error) {
	near := make([]string, 0)
	if maxDistance <= 0 || term == "" || len(vocabulary) == 0 {
		return near, nil
	}

	termLen := len([]rune(term))

	for i, candidate := range vocabulary {
		if i%checkCancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		// Length prefilter: a length gap wider than maxDistance can never
		// close.
		candidateLen := len([]rune(candidate))
		lengthDiff := candidateLen - termLen
		if lengthDiff < 0 {
			lengthDiff = -lengthDiff
		}
		if lengthDiff > maxDistance {
			continue
		}

		if LevenshteinDistanceWithLimit(term, candidate, maxDistance) <= maxDistance {
			near = append(near, candidate)
		}
	}
	return near, nil
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

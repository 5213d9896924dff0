// Package similarity scores how alike two free-text descriptions are.
package similarity

import (
	"math"
	"strings"
)

// Score returns a 0-100 similarity between a and b. Comparison ignores case and
// surrounding whitespace; equal inputs (including two empty strings) score 100.
func Score(a, b string) int {
	na := normalize(a)
	nb := normalize(b)
	if na == nb {
		return 100
	}
	ra := []rune(na)
	rb := []rune(nb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	dist := distance(ra, rb)
	return int(math.Round(100 * float64(maxLen-dist) / float64(maxLen)))
}

// Distance is the Levenshtein edit distance between a and b, counted in runes.
// Unlike Score it is case sensitive.
func Distance(a, b string) int {
	return distance([]rune(a), []rune(b))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	// matrix[i][j] is the distance between a[:i] and b[:j]
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}
	return matrix[len(a)][len(b)]
}

package errors

import "strings"

// Keywords lists the reserved words, for fuzzy matching against typos.
var Keywords = []string{
	"and", "class", "else", "false", "fun", "for", "if", "nil", "or",
	"print", "return", "super", "this", "true", "var", "while",
}

// FindClosestMatch returns the candidate nearest to input by edit distance,
// or "" when input is an exact match or nothing is close enough. Inputs
// shorter than two runes never match. The allowed distance grows with the
// input: one edit up to three runes, then one more per three runes, at
// most three.
func FindClosestMatch(input string, candidates []string) string {
	target := []rune(strings.ToLower(input))
	if len(target) < 2 {
		return ""
	}

	best, bestDist := "", -1
	for _, c := range candidates {
		d := editDistance(target, []rune(strings.ToLower(c)))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}

	limit := min(3, max(1, (len(target)+2)/3))
	if bestDist <= 0 || bestDist > limit {
		return ""
	}
	return best
}

// editDistance is the Levenshtein distance, computed with two rows.
func editDistance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub++
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

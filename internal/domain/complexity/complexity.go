// Package complexity defines a total order over algorithmic complexity classes.
//
// The canonical ladder runs from O(1) up to O(n!). Unrecognized strings
// rank one step worse than O(n!) so malformed annotations degrade to
// "maximally suboptimal" instead of aborting scoring.
package complexity

import "strings"

// ladder lists the canonical classes from best to worst. Rank is the
// index into this slice.
var ladder = []string{
	"O(1)",
	"O(log n)",
	"O(n)",
	"O(n log n)",
	"O(n^2)",
	"O(n^2 log n)",
	"O(n^3)",
	"O(2^n)",
	"O(n!)",
}

// variants maps common spellings to their canonical form. Keys are
// lowercased with spaces stripped.
var variants = map[string]string{
	"o(1)":          "O(1)",
	"o(logn)":       "O(log n)",
	"o(log(n))":     "O(log n)",
	"o(n)":          "O(n)",
	"o(nlogn)":      "O(n log n)",
	"o(n*logn)":     "O(n log n)",
	"o(n*log(n))":   "O(n log n)",
	"o(nlog(n))":    "O(n log n)",
	"o(n^2)":        "O(n^2)",
	"o(n*n)":        "O(n^2)",
	"o(n²)":         "O(n^2)",
	"o(n2)":         "O(n^2)",
	"o(n^2logn)":    "O(n^2 log n)",
	"o(n²logn)":     "O(n^2 log n)",
	"o(n^3)":        "O(n^3)",
	"o(n³)":         "O(n^3)",
	"o(2^n)":        "O(2^n)",
	"o(2ⁿ)":         "O(2^n)",
	"o(n!)":         "O(n!)",
}

// SentinelRank is the rank assigned to unrecognized complexity strings,
// one step worse than O(n!).
var SentinelRank = len(ladder)

// Normalize maps a raw complexity string to its canonical spelling.
// The second return is false when the string is not a known class.
func Normalize(s string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "")
	canonical, ok := variants[key]
	return canonical, ok
}

// Rank returns the position of s in the canonical ladder; lower is
// better. Unknown strings return SentinelRank.
func Rank(s string) int {
	canonical, ok := Normalize(s)
	if !ok {
		return SentinelRank
	}
	for i, c := range ladder {
		if c == canonical {
			return i
		}
	}
	return SentinelRank
}

// LevelsWorse reports how many ladder steps actual is below expected.
// An actual complexity at or better than expected yields 0.
func LevelsWorse(actual, expected string) int {
	diff := Rank(actual) - Rank(expected)
	if diff < 0 {
		return 0
	}
	return diff
}

// Efficiency rating labels and their cutoffs over an efficiency score
// in [0,1].
const (
	RatingOptimal    = "optimal"
	RatingSuboptimal = "suboptimal"
	RatingBruteForce = "brute_force"
)

// RateEfficiency labels an efficiency score.
func RateEfficiency(score float64) string {
	switch {
	case score >= 0.8:
		return RatingOptimal
	case score >= 0.5:
		return RatingSuboptimal
	default:
		return RatingBruteForce
	}
}

// IsBruteForce reports whether an actual complexity is far enough below
// the expected one to count as brute force.
func IsBruteForce(actual, expected string) bool {
	return LevelsWorse(actual, expected) >= 2
}

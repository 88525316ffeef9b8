package grouping

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Score calculates a lexical similarity score between two normalized
// strings. Returns a value between 0 (unrelated) and 100 (identical up
// to token order). Symmetric; any empty or token-free side scores 0.
//
// The metric is token-order tolerant: each side's tokens are sorted and
// rejoined before a Levenshtein-distance ratio is taken, so
// "hello world" and "world hello" score 100.
func Score(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	sortedA := sortTokens(a)
	sortedB := sortTokens(b)
	if sortedA == "" || sortedB == "" {
		return 0
	}
	if sortedA == sortedB {
		return 100
	}

	dist := levenshtein.ComputeDistance(sortedA, sortedB)
	longest := utf8.RuneCountInString(sortedA)
	if l := utf8.RuneCountInString(sortedB); l > longest {
		longest = l
	}

	ratio := 1.0 - float64(dist)/float64(longest)
	return int(math.Round(ratio * 100))
}

// sortTokens splits a string into whitespace-separated tokens, sorts
// them, and rejoins with single spaces.
func sortTokens(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return ""
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

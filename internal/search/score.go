package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Normalize prepares a query or title for comparison: trimmed and
// lower-cased.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// tokenSort splits a string into word tokens, sorts them, and rejoins
// them, making word order and punctuation irrelevant to scoring
// ("Park, Jurassic" and "Jurassic Park" token-sort to the same string).
func tokenSort(s string) string {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TokenSortRatio scores the similarity of two strings in [0, 100].
// Both sides are normalized and token-sorted, then compared with a
// length-normalized edit distance, so "Park Jurassic" scores identically
// to "Jurassic Park". 100 means the token-sorted forms are equal.
func TokenSortRatio(a, b string) int {
	a = tokenSort(Normalize(a))
	b = tokenSort(Normalize(b))

	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	dist := fuzzy.LevenshteinDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return (longest - dist) * 100 / longest
}

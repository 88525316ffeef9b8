// Package grouping implements the response-grouping engine: text
// normalization, lexical similarity scoring, greedy clustering of raw
// answers into canonical groups, and the rename/move edits applied to a
// persisted grouping result. Everything here is pure computation; I/O,
// queuing, and persistence live with the callers.
package grouping

import (
	"strings"
	"unicode"
)

// Normalizer canonicalizes raw answer text for comparison: lower-case,
// punctuation and symbol runes stripped, tokens rejoined with single
// spaces, optionally with stopwords removed. The stopword set is fixed
// at construction; a Normalizer is safe for concurrent use.
type Normalizer struct {
	stopwords       map[string]bool
	removeStopwords bool
}

// NewNormalizer creates a Normalizer. When removeStopwords is set, the
// built-in English stopword set plus any extra words are dropped during
// normalization. Extra words are matched in their own normalized form.
func NewNormalizer(removeStopwords bool, extraStopwords []string) *Normalizer {
	n := &Normalizer{
		removeStopwords: removeStopwords,
		stopwords:       defaultStopwords,
	}
	if len(extraStopwords) > 0 {
		// Copy so the shared default set is never mutated
		merged := make(map[string]bool, len(defaultStopwords)+len(extraStopwords))
		for w := range defaultStopwords {
			merged[w] = true
		}
		for _, w := range extraStopwords {
			w = stripPunctuation(strings.ToLower(strings.TrimSpace(w)))
			if w != "" {
				merged[w] = true
			}
		}
		n.stopwords = merged
	}
	return n
}

// Normalize returns the canonical comparison form of text. Empty and
// whitespace-only input normalizes to the empty string, as does input
// consisting only of punctuation or stopwords.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := stripPunctuation(strings.ToLower(text))
	tokens := strings.Fields(lowered)
	if !n.removeStopwords {
		return strings.Join(tokens, " ")
	}

	kept := tokens[:0]
	for _, tok := range tokens {
		if !n.stopwords[tok] {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// stripPunctuation removes punctuation and symbol runes, keeping
// letters, digits, and whitespace.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

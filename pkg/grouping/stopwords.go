package grouping

// defaultStopwords is the built-in English stopword set applied when a
// Normalizer is configured to drop stopwords. Kept intentionally small:
// function words that add no grouping signal for short survey answers.
var defaultStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "must": true, "shall": true, "can": true,
	"this": true, "that": true, "these": true, "those": true,
	"and": true, "or": true, "but": true, "if": true, "then": true,
	"for": true, "from": true, "with": true, "about": true, "into": true,
	"to": true, "of": true, "in": true, "on": true, "at": true, "by": true,
	"it": true, "its": true, "as": true, "so": true, "not": true, "no": true,
	"i": true, "me": true, "my": true, "we": true, "our": true, "you": true,
	"your": true, "he": true, "she": true, "they": true, "them": true,
	"am": true, "im": true, "dont": true,
	"which": true, "who": true, "what": true,
	"when": true, "where": true, "how": true, "why": true,
}

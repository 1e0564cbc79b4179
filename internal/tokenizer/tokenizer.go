// Package tokenizer turns raw field text into the normalized terms the index
// and the query pipeline share. Both sides must run the exact same pipeline
// or postings and lookups drift apart.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// nonWordRegex matches runs of anything that is not a Unicode letter or digit.
var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// stopwords is the fixed set of English function words dropped during
// normalization.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {},
	"but": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"for": {}, "of": {}, "with": {}, "by": {}, "is": {},
	"are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "could": {}, "should": {},
}

// suffixes is the ordered suffix list for the single stripping pass. The
// first matching suffix wins, not the longest one.
var suffixes = []string{"ing", "ed", "er", "est", "ly", "ion", "tion", "sion", "ness", "ment"}

// Tokenize converts text into an ordered sequence of normalized terms:
// non-alphanumeric runs become separators, everything is lowercased, tokens
// shorter than two runes and stopwords are dropped, and each surviving token
// gets one suffix-stripping pass. Malformed byte sequences are replaced by
// the regexp engine and never surface as errors.
func Tokenize(text string) []string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, " ")
	}

	separated := nonWordRegex.ReplaceAllString(text, " ")
	words := strings.Fields(strings.ToLower(separated))

	terms := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) < 2 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		terms = append(terms, stripSuffix(word))
	}
	return terms
}

// stripSuffix removes the first matching suffix from the fixed list, but
// only when the word is more than two characters longer than the suffix.
// A single pass only; the stem is never re-stripped.
func stripSuffix(word string) string {
	for _, suffix := range suffixes {
		if strings.HasSuffix(word, suffix) && len(word) > len(suffix)+2 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

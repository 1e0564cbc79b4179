package search

import (
	"math"

	"github.com/securedesk/policysearch/index"
)

// IDF computes the inverse document frequency of a term against a snapshot:
// ln(N/n) where N is the number of active documents and n the number of
// distinct documents containing the term. Terms absent from the corpus get
// 0, which also guards the division for an empty corpus.
func IDF(snap *index.Snapshot, term string) float64 {
	n := snap.DocFrequency(term)
	if n == 0 {
		return 0
	}
	return math.Log(float64(snap.DocCount()) / float64(n))
}

// contribution is the score a single posting adds for a matched term:
// term frequency × idf × field weight.
func contribution(p index.Posting, idf float64) float64 {
	return float64(p.Frequency) * idf * index.FieldWeight(p.Field)
}

// Package search ranks documents from an index snapshot with TF-IDF scoring,
// per-field weights, and fuzzy fallback for unmatched query terms.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/securedesk/policysearch/index"
	"github.com/securedesk/policysearch/internal/tokenizer"
	"github.com/securedesk/policysearch/internal/typoutil"
)

const (
	// DefaultLimit is used when the caller passes a non-positive limit.
	DefaultLimit = 10
	// MaxLimit caps the result size regardless of what the caller asks for.
	MaxLimit = 200
	// MaxFuzzyDistance is the edit-distance bound for the fuzzy fallback.
	MaxFuzzyDistance = 2
)

// ClampLimit normalizes a caller-supplied limit: non-positive values fall
// back to DefaultLimit, anything above MaxLimit is capped.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Run searches a snapshot and returns hits ranked by descending score, ties
// broken by ascending document ID. Query terms without exact postings fall
// back to a fuzzy vocabulary scan; ctx bounds that scan. The snapshot is
// never mutated. An empty or stopword-only query yields an empty result,
// not an error.
func Run(ctx context.Context, snap *index.Snapshot, query string, limit int) ([]DocumentMatch, error) {
	limit = ClampLimit(limit)

	queryTerms := tokenizer.Tokenize(strings.TrimSpace(query))
	if len(queryTerms) == 0 {
		return []DocumentMatch{}, nil
	}

	scores := make(map[uint]float64)
	matches := make(map[uint][]Match)

	for _, term := range queryTerms {
		if postings := snap.Postings(term); len(postings) > 0 {
			accumulate(snap, term, term, false, postings, scores, matches)
			continue
		}

		// No exact postings: fall back to vocabulary terms within edit
		// distance. Each candidate contributes its full posting list scored
		// like an exact match of that candidate.
		near, err := typoutil.FindNearTerms(ctx, term, snap.Vocabulary(), MaxFuzzyDistance)
		if err != nil {
			return nil, err
		}
		for _, candidate := range near {
			accumulate(snap, term, candidate, true, snap.Postings(candidate), scores, matches)
		}
	}

	hits := make([]DocumentMatch, 0, len(scores))
	for docID, score := range scores {
		doc, ok := snap.Document(docID)
		if !ok {
			continue
		}
		hits = append(hits, DocumentMatch{
			Document: doc,
			Score:    score,
			Matches:  matches[docID],
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Document.ID < hits[j].Document.ID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// accumulate folds one matched term's postings into the per-document scores
// and match explanations.
func accumulate(snap *index.Snapshot, queryTerm, matchedTerm string, fuzzy bool, postings index.PostingList, scores map[uint]float64, matches map[uint][]Match) {
	idf := IDF(snap, matchedTerm)
	for _, p := range postings {
		score := contribution(p, idf)
		scores[p.DocID] += score
		matches[p.DocID] = append(matches[p.DocID], Match{
			Field:       p.Field,
			Term:        queryTerm,
			MatchedTerm: matchedTerm,
			Fuzzy:       fuzzy,
			Score:       score,
		})
	}
}

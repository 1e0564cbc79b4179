package search

import "github.com/securedesk/policysearch/model"

// Match explains one query-term contribution to a document's score: which
// field it hit, which indexed term matched (different from Term when the
// match was fuzzy), and how much the contribution was worth.
type Match struct {
	Field       string  `json:"field"`
	Term        string  `json:"term"`
	MatchedTerm string  `json:"matched_term"`
	Fuzzy       bool    `json:"fuzzy,omitempty"`
	Score       float64 `json:"score"`
}

// DocumentMatch is a single ranked search hit: the document, its total
// relevance score, and the per-term per-field match explanations.
type DocumentMatch struct {
	Document model.Document `json:"document"`
	Score    float64        `json:"score"`
	Matches  []Match        `json:"matches"`
}

// Result is the unit returned to API callers.
type Result struct {
	Hits    []DocumentMatch `json:"hits"`
	Total   int             `json:"total"`
	Took    int64           `json:"took"` // milliseconds
	QueryID string          `json:"query_id"`
}

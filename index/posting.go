package index

// Indexed field names. Every document field the engine searches is listed
// here; the order is the order fields are indexed in, which keeps rebuilds
// byte-for-byte reproducible.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldContent     = "content"
	FieldCategory    = "category"
	FieldTags        = "tags"
)

// indexedFields is the fixed indexing order.
var indexedFields = []string{FieldName, FieldDescription, FieldContent, FieldCategory, FieldTags}

// fieldWeights are the fixed relevance multipliers applied per field during
// scoring. A name match counts three times as much as a content match.
var fieldWeights = map[string]float64{
	FieldName:        3.0,
	FieldCategory:    2.5,
	FieldDescription: 2.0,
	FieldTags:        2.0,
	FieldContent:     1.0,
}

// FieldWeight returns the relevance weight for a field, defaulting to 1.0
// for unknown fields.
func FieldWeight(field string) float64 {
	if w, ok := fieldWeights[field]; ok {
		return w
	}
	return 1.0
}

// Posting records where and how often a term occurs in one field of one
// document. Positions are token offsets within that field, in ascending
// order; Frequency always equals len(Positions).
type Posting struct {
	DocID     uint   `json:"doc_id"`
	Field     string `json:"field"`
	Frequency int    `json:"frequency"`
	Positions []int  `json:"positions"`
}

// PostingList is the list of postings for a single term. A given
// (document, field) pair appears at most once.
type PostingList []Posting

// Package index implements the inverted index the search engine reads.
//
// A Snapshot is immutable once published: searches read it without locking,
// and every corpus mutation produces a fresh Snapshot (full rebuild or
// copy-on-write of the affected posting lists) that the engine swaps in
// atomically.
package index

import (
	"sort"
	"strings"

	"github.com/securedesk/policysearch/internal/tokenizer"
	"github.com/securedesk/policysearch/model"
)

// Snapshot is a point-in-time inverted index over the active documents of a
// corpus, together with read-only copies of the documents themselves.
type Snapshot struct {
	terms      map[string]PostingList
	vocabulary []string
	docs       map[uint]model.Document
}

// Build constructs a snapshot from a document corpus. Only documents with
// Active == true are indexed. Documents are processed in ascending ID order
// and fields in a fixed order, so building twice from the same corpus yields
// identical postings.
func Build(docs []model.Document) *Snapshot {
	s := &Snapshot{
		terms: make(map[string]PostingList),
		docs:  make(map[uint]model.Document),
	}

	active := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Active {
			active = append(active, doc)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	for _, doc := range active {
		s.docs[doc.ID] = doc.Clone()
		for _, field := range indexedFields {
			s.indexField(doc.ID, field, FieldText(doc, field))
		}
	}

	s.rebuildVocabulary()
	return s
}

// FieldText extracts the raw text of an indexed field from a document. Tags
// are joined with spaces so they tokenize like any other text.
func FieldText(doc model.Document, field string) string {
	switch field {
	case FieldName:
		return doc.Name
	case FieldDescription:
		return doc.Description
	case FieldContent:
		return doc.Content
	case FieldCategory:
		return doc.Category
	case FieldTags:
		return strings.Join(doc.Tags, " ")
	}
	return ""
}

// indexField tokenizes one field of one document and folds the terms into
// the index. Repeat occurrences of a term within the field accumulate into
// a single posting; positions are the token offsets in the normalized term
// sequence.
func (s *Snapshot) indexField(docID uint, field, text string) {
	terms := tokenizer.Tokenize(text)
	for pos, term := range terms {
		list := s.terms[term]
		// During a single field pass, a posting for this (doc, field) pair
		// can only be the last one appended.
		if n := len(list); n > 0 && list[n-1].DocID == docID && list[n-1].Field == field {
			list[n-1].Frequency++
			list[n-1].Positions = append(list[n-1].Positions, pos)
		} else {
			list = append(list, Posting{
				DocID:     docID,
				Field:     field,
				Frequency: 1,
				Positions: []int{pos},
			})
		}
		s.terms[term] = list
	}
}

func (s *Snapshot) rebuildVocabulary() {
	s.vocabulary = make([]string, 0, len(s.terms))
	for term := range s.terms {
		s.vocabulary = append(s.vocabulary, term)
	}
	sort.Strings(s.vocabulary)
}

// Postings returns the posting list for a term, or nil when the term is not
// in the vocabulary. Callers must not mutate the returned list.
func (s *Snapshot) Postings(term string) PostingList {
	return s.terms[term]
}

// Vocabulary returns the sorted list of distinct indexed terms. Callers must
// not mutate it.
func (s *Snapshot) Vocabulary() []string {
	return s.vocabulary
}

// DocCount returns the number of active documents in the snapshot.
func (s *Snapshot) DocCount() int {
	return len(s.docs)
}

// TermCount returns the vocabulary size.
func (s *Snapshot) TermCount() int {
	return len(s.terms)
}

// Document returns the snapshot's read-only copy of a document.
func (s *Snapshot) Document(id uint) (model.Document, bool) {
	doc, ok := s.docs[id]
	return doc, ok
}

// DocFrequency returns the number of distinct documents whose postings
// contain the term.
func (s *Snapshot) DocFrequency(term string) int {
	list, ok := s.terms[term]
	if !ok {
		return 0
	}
	seen := make(map[uint]struct{}, len(list))
	for _, p := range list {
		seen[p.DocID] = struct{}{}
	}
	return len(seen)
}

// WithUpsert returns a new snapshot with the document added or replaced.
// Inactive documents are removed rather than indexed. Only the posting lists
// touched by the document are copied; everything else is shared with the
// receiver, which stays valid for in-flight readers.
func (s *Snapshot) WithUpsert(doc model.Document) *Snapshot {
	next := s.withoutDoc(doc.ID)
	if !doc.Active {
		next.rebuildVocabulary()
		return next
	}

	next.docs[doc.ID] = doc.Clone()

	// Build the document's postings in isolation, then merge term by term
	// in sorted order, copying each affected list.
	fresh := &Snapshot{terms: make(map[string]PostingList)}
	for _, field := range indexedFields {
		fresh.indexField(doc.ID, field, FieldText(doc, field))
	}

	touched := make([]string, 0, len(fresh.terms))
	for term := range fresh.terms {
		touched = append(touched, term)
	}
	sort.Strings(touched)

	for _, term := range touched {
		existing := next.terms[term]
		merged := make(PostingList, 0, len(existing)+len(fresh.terms[term]))
		merged = append(merged, existing...)
		merged = append(merged, fresh.terms[term]...)
		next.terms[term] = merged
	}

	next.rebuildVocabulary()
	return next
}

// WithRemove returns a new snapshot with the document and all its postings
// removed. Removing an unknown ID yields an equivalent snapshot.
func (s *Snapshot) WithRemove(id uint) *Snapshot {
	next := s.withoutDoc(id)
	next.rebuildVocabulary()
	return next
}

// withoutDoc shallow-copies the snapshot and strips every posting belonging
// to the document. The old document's terms are recomputed from the stored
// copy so only the affected lists are rewritten.
func (s *Snapshot) withoutDoc(id uint) *Snapshot {
	next := &Snapshot{
		terms: make(map[string]PostingList, len(s.terms)),
		docs:  make(map[uint]model.Document, len(s.docs)),
	}
	for term, list := range s.terms {
		next.terms[term] = list
	}
	for docID, doc := range s.docs {
		if docID != id {
			next.docs[docID] = doc
		}
	}

	old, existed := s.docs[id]
	if !existed {
		return next
	}

	affected := make(map[string]struct{})
	for _, field := range indexedFields {
		for _, term := range tokenizer.Tokenize(FieldText(old, field)) {
			affected[term] = struct{}{}
		}
	}

	for term := range affected {
		list := next.terms[term]
		kept := make(PostingList, 0, len(list))
		for _, p := range list {
			if p.DocID != id {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(next.terms, term)
		} else {
			next.terms[term] = kept
		}
	}
	return next
}

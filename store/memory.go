package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	internalErrors "github.com/securedesk/policysearch/internal/errors"
	"github.com/securedesk/policysearch/model"
)

// MemoryStore is an in-memory Store guarded by a RWMutex. It backs
// development setups and tests; production uses PostgresStore.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[uint]model.Document
	nextID uint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:   make(map[uint]model.Document),
		nextID: 1,
	}
}

// List returns documents matching the filter, ordered by ascending ID.
func (s *MemoryStore) List(_ context.Context, filter ListFilter) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		if filter.ActiveOnly && !doc.Active {
			continue
		}
		if filter.Type != "" && doc.Type != filter.Type {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(doc.Category, filter.Category) {
			continue
		}
		out = append(out, doc.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ActiveDocuments returns every active document, ordered by ascending ID.
func (s *MemoryStore) ActiveDocuments(ctx context.Context) ([]model.Document, error) {
	return s.List(ctx, ListFilter{ActiveOnly: true})
}

// Get returns a single document by ID.
func (s *MemoryStore) Get(_ context.Context, id uint) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return model.Document{}, internalErrors.NewDocumentNotFoundError(id)
	}
	return doc.Clone(), nil
}

// Create stores a new document, assigning its ID and timestamps.
func (s *MemoryStore) Create(_ context.Context, doc model.Document) (model.Document, error) {
	if err := validateDocument(doc); err != nil {
		return model.Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	doc.ID = s.nextID
	s.nextID++
	doc.CreatedAt = now
	doc.UpdatedAt = now

	s.docs[doc.ID] = doc.Clone()
	return doc, nil
}

// Update replaces a document's mutable fields and bumps UpdatedAt.
func (s *MemoryStore) Update(_ context.Context, doc model.Document) (model.Document, error) {
	if err := validateDocument(doc); err != nil {
		return model.Document{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[doc.ID]
	if !ok {
		return model.Document{}, internalErrors.NewDocumentNotFoundError(doc.ID)
	}

	doc.CreatedAt = existing.CreatedAt
	doc.CreatedBy = existing.CreatedBy
	doc.UpdatedAt = time.Now().UTC()

	s.docs[doc.ID] = doc.Clone()
	return doc, nil
}

// Delete soft-deletes a document by marking it inactive.
func (s *MemoryStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return internalErrors.NewDocumentNotFoundError(id)
	}
	doc.Active = false
	doc.UpdatedAt = time.Now().UTC()
	s.docs[id] = doc
	return nil
}

// Seed inserts documents, assigning IDs in input order. It is used for
// development setups and tests.
func (s *MemoryStore) Seed(ctx context.Context, docs []model.Document) error {
	for _, doc := range docs {
		if _, err := s.Create(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

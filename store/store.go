// Package store provides the document store the search engine snapshots
// from: an in-memory implementation for development and tests, and a
// PostgreSQL implementation for production.
package store

import (
	"context"
	"strings"

	internalErrors "github.com/securedesk/policysearch/internal/errors"
	"github.com/securedesk/policysearch/model"
)

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Type       string
	Category   string
	ActiveOnly bool
}

// Store is the document store contract. The engine only ever reads
// snapshots; all mutation goes through the API layer.
type Store interface {
	// List returns documents matching the filter, ordered by ascending ID.
	List(ctx context.Context, filter ListFilter) ([]model.Document, error)

	// ActiveDocuments returns every active document, ordered by ascending
	// ID. This is the corpus snapshot handed to the index builder.
	ActiveDocuments(ctx context.Context) ([]model.Document, error)

	// Get returns a single document by ID.
	Get(ctx context.Context, id uint) (model.Document, error)

	// Create stores a new document, assigning its ID and timestamps.
	Create(ctx context.Context, doc model.Document) (model.Document, error)

	// Update replaces a document's mutable fields and bumps UpdatedAt.
	Update(ctx context.Context, doc model.Document) (model.Document, error)

	// Delete soft-deletes a document by marking it inactive.
	Delete(ctx context.Context, id uint) error
}

// validateDocument enforces the invariants both stores share; the Postgres
// schema backs them with NOT NULL and a type check, the memory store has
// only this.
func validateDocument(doc model.Document) error {
	if strings.TrimSpace(doc.Name) == "" {
		return internalErrors.NewValidationError("name", "must not be empty")
	}
	switch doc.Type {
	case model.TypePolicy, model.TypeOnboarding, "":
		return nil
	default:
		return internalErrors.NewValidationError("document_type", "must be 'policy' or 'onboarding'")
	}
}

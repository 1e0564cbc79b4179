// Package model defines the document types shared by the store, the search
// engine, and the API layer.
package model

import "time"

// Document types supported by the service.
const (
	TypePolicy     = "policy"
	TypeOnboarding = "onboarding"
)

// Document is a policy or onboarding document. The search engine indexes a
// read-only snapshot of it; ownership stays with the document store.
type Document struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Content     string    `json:"content"`
	Type        string    `json:"document_type"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Active      bool      `json:"is_active"`
}

// Clone returns a deep copy of the document so that index snapshots never
// alias store-owned slices.
func (d Document) Clone() Document {
	out := d
	if d.Tags != nil {
		out.Tags = make([]string, len(d.Tags))
		copy(out.Tags, d.Tags)
	}
	return out
}

package api

import (
	"strings"

	"github.com/securedesk/policysearch/model"
)

const maxQueryLength = 1000

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult collects validation errors for a request.
type ValidationResult struct {
	Errors []ValidationError
}

// HasErrors reports whether any validation error was recorded.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *ValidationResult) addError(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// ValidateDocument checks a document payload before it is stored.
func ValidateDocument(doc model.Document) *ValidationResult {
	result := &ValidationResult{}

	if strings.TrimSpace(doc.Name) == "" {
		result.addError("name", "Document name is required")
	}
	switch doc.Type {
	case model.TypePolicy, model.TypeOnboarding:
	case "":
		result.addError("document_type", "Document type is required")
	default:
		result.addError("document_type", "Document type must be 'policy' or 'onboarding'")
	}

	return result
}

// ValidateSearchQuery checks the raw q parameter. Empty queries are valid
// and return an empty result set.
func ValidateSearchQuery(query string) *ValidationResult {
	result := &ValidationResult{}
	if len(query) > maxQueryLength {
		result.addError("q", "Query exceeds maximum length")
	}
	return result
}

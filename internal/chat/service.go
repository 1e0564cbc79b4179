package chat

import (
	"context"
	"fmt"

	"github.com/securedesk/policysearch/internal/engine"
	"github.com/securedesk/policysearch/internal/search"
	"github.com/securedesk/policysearch/model"
)

// Chat request types.
const (
	TypeOnboarding   = "onboarding"
	TypePolicySearch = "policy_search"
	TypeGeneral      = "general"
)

// Result limits per chat mode. Onboarding answers link fewer documents to
// keep the checklist focused.
const (
	onboardingLimit   = 5
	policySearchLimit = 10
)

// Reply is a chat answer plus the documents that back it.
type Reply struct {
	Response  string           `json:"response"`
	Type      string           `json:"type"`
	Documents []model.Document `json:"documents,omitempty"`
}

// Service answers chat messages by combining a Responder with index search.
type Service struct {
	engine    *engine.Engine
	responder Responder
}

// NewService wires a chat service. A nil responder falls back to the keyword
// responder.
func NewService(eng *engine.Engine, responder Responder) *Service {
	if responder == nil {
		responder = KeywordResponder{}
	}
	return &Service{engine: eng, responder: responder}
}

// Handle answers a chat message according to its requested type.
func (s *Service) Handle(ctx context.Context, message, chatType string) (Reply, error) {
	switch chatType {
	case TypeOnboarding:
		return s.onboarding(ctx, message)
	case TypePolicySearch:
		return s.policySearch(ctx, message)
	default:
		return Reply{
			Response: "I can help you with IT security onboarding or policy searches. What would you like to know?",
			Type:     TypeGeneral,
		}, nil
	}
}

func (s *Service) onboarding(ctx context.Context, message string) (Reply, error) {
	answer, err := s.responder.Respond(ctx, message)
	if err != nil {
		return Reply{}, fmt.Errorf("generating onboarding answer: %w", err)
	}

	result, err := s.engine.Search(ctx, message, onboardingLimit)
	if err != nil {
		return Reply{}, fmt.Errorf("searching onboarding documents: %w", err)
	}

	return Reply{
		Response:  answer,
		Type:      TypeOnboarding,
		Documents: hitDocuments(result.Hits),
	}, nil
}

func (s *Service) policySearch(ctx context.Context, query string) (Reply, error) {
	result, err := s.engine.Search(ctx, query, policySearchLimit)
	if err != nil {
		return Reply{}, fmt.Errorf("searching policies: %w", err)
	}

	var response string
	if len(result.Hits) > 0 {
		response = fmt.Sprintf("I found %d document(s) related to your search with relevance scoring. Here are the most relevant documents:", len(result.Hits))
	} else {
		response = "I couldn't find any documents matching your search. Try searching for terms like 'password', 'data', 'remote work', 'onboarding', or 'incident response'."
	}

	return Reply{
		Response:  response,
		Type:      TypePolicySearch,
		Documents: hitDocuments(result.Hits),
	}, nil
}

func hitDocuments(hits []search.DocumentMatch) []model.Document {
	docs := make([]model.Document, 0, len(hits))
	for _, hit := range hits {
		docs = append(docs, hit.Document)
	}
	return docs
}

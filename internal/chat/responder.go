// Package chat turns free-text questions into answers backed by the document
// index. Answer text comes from a pluggable Responder so a hosted model can
// replace the built-in keyword responder without touching the chat flow.
package chat

import (
	"context"
	"strings"
)

// Responder produces the conversational text for a chat message.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// KeywordResponder answers from a fixed set of security topics matched by
// substring. It is the default when no model backend is configured.
type KeywordResponder struct{}

type topicAnswer struct {
	keyword string
	answer  string
}

var securityTopics = []topicAnswer{
	{
		keyword: "password",
		answer:  "Our password policy requires at least 12 characters with uppercase, lowercase, numbers, and special characters. Passwords must be changed every 90 days. Would you like me to show you the complete policy document?",
	},
	{
		keyword: "vpn",
		answer:  "For remote work, you must use our company VPN. Make sure your device is encrypted and follow secure Wi-Fi practices. Personal devices need MDM enrollment.",
	},
	{
		keyword: "incident",
		answer:  "Security incidents must be reported within 2 hours. Follow our escalation process: Level 1 (Help Desk), then Level 2 (Security Team), then Level 3 (CISO). Document all actions taken.",
	},
	{
		keyword: "data",
		answer:  "All company data must be classified as Public, Internal, Confidential, or Restricted. Confidential and Restricted data requires encryption at rest and in transit.",
	},
}

// Respond returns the canned answer for the first matching topic keyword.
func (KeywordResponder) Respond(_ context.Context, message string) (string, error) {
	lower := strings.ToLower(message)
	for _, topic := range securityTopics {
		if strings.Contains(lower, topic.keyword) {
			return topic.answer, nil
		}
	}
	return "I can help you with IT security questions including passwords, VPN access, data protection, and incident response. What would you like to know?", nil
}

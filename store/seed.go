package store

import "github.com/securedesk/policysearch/model"

// SeedDocuments returns the sample policy corpus used when the service runs
// without a database.
func SeedDocuments() []model.Document {
	return []model.Document{
		{
			Name:        "Password Policy",
			Content:     "Passwords must be at least 12 characters long and include uppercase, lowercase, numbers, and special characters. Passwords must be changed every 90 days.",
			Description: "Comprehensive password requirements for all company accounts",
			Category:    "Authentication",
			Type:        model.TypePolicy,
			Tags:        []string{"password", "security", "authentication", "compliance"},
			CreatedBy:   "IT Security Team",
			Active:      true,
		},
		{
			Name:        "Data Classification Policy",
			Content:     "All company data must be classified as Public, Internal, Confidential, or Restricted. Confidential and Restricted data requires encryption at rest and in transit.",
			Description: "Guidelines for classifying and protecting company data",
			Category:    "Data Protection",
			Type:        model.TypePolicy,
			Tags:        []string{"data", "classification", "encryption", "confidential"},
			CreatedBy:   "Data Protection Officer",
			Active:      true,
		},
		{
			Name:        "Remote Work Security Policy",
			Content:     "Remote workers must use company-approved VPN, enable device encryption, and follow secure Wi-Fi practices. Personal devices require MDM enrollment.",
			Description: "Security requirements for remote work arrangements",
			Category:    "Remote Work",
			Type:        model.TypePolicy,
			Tags:        []string{"remote", "vpn", "encryption", "mdm", "wifi"},
			CreatedBy:   "IT Operations",
			Active:      true,
		},
		{
			Name:        "Incident Response Policy",
			Content:     "Security incidents must be reported within 2 hours. Follow the escalation matrix: L1 (Help Desk) -> L2 (Security Team) -> L3 (CISO). Document all actions taken.",
			Description: "Procedures for reporting and handling security incidents",
			Category:    "Incident Response",
			Type:        model.TypePolicy,
			Tags:        []string{"incident", "response", "escalation", "security", "reporting"},
			CreatedBy:   "CISO Office",
			Active:      true,
		},
		{
			Name:        "New Employee Security Onboarding",
			Content:     "Welcome to the company! This guide covers essential security practices including password setup, VPN configuration, email security awareness, and device encryption. Please complete all steps within your first week.",
			Description: "Complete security onboarding checklist for new employees",
			Category:    "Onboarding",
			Type:        model.TypeOnboarding,
			Tags:        []string{"onboarding", "new-employee", "checklist", "setup"},
			CreatedBy:   "HR Security Team",
			Active:      true,
		},
		{
			Name:        "VPN Setup Guide",
			Content:     "Step-by-step instructions for configuring the company VPN on Windows, Mac, and mobile devices. Includes troubleshooting common connection issues.",
			Description: "Technical guide for VPN setup and configuration",
			Category:    "Technical Guides",
			Type:        model.TypeOnboarding,
			Tags:        []string{"vpn", "setup", "configuration", "troubleshooting", "guide"},
			CreatedBy:   "IT Help Desk",
			Active:      true,
		},
	}
}

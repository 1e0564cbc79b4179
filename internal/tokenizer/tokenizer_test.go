package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"simple words", "password policy", []string{"password", "policy"}},
		{"uppercase folded", "PASSWORD Policy", []string{"password", "policy"}},
		{"punctuation splits", "remote-work: security!", []string{"remote", "work", "security"}},
		{"underscores split", "new_employee_checklist", []string{"new", "employee", "checklist"}},
		{"digits kept", "vpn2 setup 90", []string{"vpn2", "setup", "90"}},
		{"single letters dropped", "a b c vpn", []string{"vpn"}},
		{"stopwords dropped", "the password and the vpn", []string{"password", "vpn"}},
		{"only stopwords", "the and of with", []string{}},
		{"only symbols", "!@#$%^", []string{}},
		{"unicode letters kept", "café sécurité", []string{"café", "sécurité"}},
		{"multiple separators collapse", "data,, classification", []string{"data", "classification"}},
		{"invalid bytes dropped around word", "\xff\xfepassword\x80", []string{"password"}},
		{"invalid byte separates words", "vpn\xffsetup", []string{"vpn", "setup"}},
		{"only invalid bytes", "\xff\xfe\x80", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeSuffixStripping(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"ing stripped", "encrypting", []string{"encrypt"}},
		{"ed stripped", "classified", []string{"classifi"}},
		{"ly stripped", "immediately", []string{"immediate"}},
		{"ment stripped", "management", []string{"manage"}},
		{"ion strips before tion", "classification", []string{"classificat"}},
		{"short word untouched", "ring", []string{"ring"}},
		{"exact boundary untouched", "sing", []string{"sing"}},
		{"only first matching suffix", "singing", []string{"sing"}},
		{"password unchanged", "password", []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeSameTermForQueryAndDocument(t *testing.T) {
	doc := Tokenize("Passwords must be encrypted")
	query := Tokenize("encrypted passwords")

	docSet := make(map[string]bool, len(doc))
	for _, term := range doc {
		docSet[term] = true
	}
	for _, term := range query {
		if !docSet[term] {
			t.Errorf("query term %q not produced for document text", term)
		}
	}
}

package ai

import (
	"testing"

	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/provider"
)

func TestNewBackend(t *testing.T) {
	tests := []struct {
		kind    string
		wantGen string
		wantErr bool
	}{
		{"", "gemini", false},
		{"Gemini", "gemini", false},
		{"openai", "gemini-openai", false},
		{"anthropic", "", true},
	}

	for _, tt := range tests {
		b, err := NewBackend(BackendConfig{Kind: tt.kind, APIKey: "k"})
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewBackend(%q) expected error", tt.kind)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewBackend(%q) failed: %v", tt.kind, err)
		}
		if b.Generator.Name() != tt.wantGen {
			t.Errorf("NewBackend(%q) generator = %s, want %s", tt.kind, b.Generator.Name(), tt.wantGen)
		}
		if b.Primary == nil || b.Secondary == nil {
			t.Errorf("NewBackend(%q) must set both listers", tt.kind)
		}
	}
}

func TestReexportedErrorIsProviderError(t *testing.T) {
	var err error = &ProviderError{Status: 429}
	if provider.Classify(err) != provider.ClassTransient {
		t.Error("aliased error should classify like provider.Error")
	}
}

package llm

import "testing"

func TestNew_Providers(t *testing.T) {
	tests := []struct {
		provider string
		wantType string
	}{
		{"openai", "*llm.OpenAIPlanner"},
		{"anthropic", "*llm.AnthropicPlanner"},
		{"", "*llm.OpenAIPlanner"},
	}
	for _, tt := range tests {
		p, err := New(tt.provider, "key", "model", 4096, "https://example.test")
		if err != nil {
			t.Fatalf("provider %q: unexpected error: %v", tt.provider, err)
		}
		switch tt.provider {
		case "anthropic":
			if _, ok := p.(*AnthropicPlanner); !ok {
				t.Errorf("provider %q: expected *AnthropicPlanner, got %T", tt.provider, p)
			}
		default:
			if _, ok := p.(*OpenAIPlanner); !ok {
				t.Errorf("provider %q: expected *OpenAIPlanner, got %T", tt.provider, p)
			}
		}
	}
}

func TestNew_MissingAPIKey(t *testing.T) {
	_, err := New("openai", "", "model", 4096, "https://example.test")
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIPlanner_Plan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing or wrong Authorization header: %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(200)
		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "{\"thought\":\"look at the file\",\"tool_to_use\":\"read_file_content\",\"tool_parameters\":{\"file_path\":\"main.go\"}}"}}],
			"usage": {"prompt_tokens": 100, "completion_tokens": 20, "total_tokens": 120}
		}`))
	}))
	defer server.Close()

	p := NewOpenAIPlanner("test-key", "gpt-4o-mini", 4096, server.URL)
	resp, usage, err := p.Plan(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ToolToUse != "read_file_content" {
		t.Errorf("got tool_to_use=%q", resp.ToolToUse)
	}
	if usage.TotalTokens != 120 {
		t.Errorf("got total tokens=%d", usage.TotalTokens)
	}
}

func TestOpenAIPlanner_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte(`{"choices": [], "usage": {}}`))
	}))
	defer server.Close()

	p := NewOpenAIPlanner("test-key", "gpt-4o-mini", 4096, server.URL)
	_, _, err := p.Plan(context.Background(), "sys", "usr")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestOpenAIPlanner_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"error": "invalid key"}`))
	}))
	defer server.Close()

	p := NewOpenAIPlanner("bad-key", "gpt-4o-mini", 4096, server.URL)
	_, _, err := p.Plan(context.Background(), "sys", "usr")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

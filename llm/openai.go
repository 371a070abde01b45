package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OpenAIPlanner drives the diagnose-and-fix loop through the OpenAI chat
// completions API.
type OpenAIPlanner struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	http      *http.Client
	retry     retryConfig
}

// NewOpenAIPlanner creates an OpenAI-backed Planner.
func NewOpenAIPlanner(apiKey, model string, maxTokens int, baseURL string) *OpenAIPlanner {
	return &OpenAIPlanner{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 120 * time.Second},
		retry:     defaultRetryConfig(),
	}
}

type openAIChatRequest struct {
	Model     string              `json:"model"`
	Messages  []openAIChatMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Plan sends the assembled prompts as a two-message chat turn and decodes
// the planner's JSON object out of the assistant's reply.
func (p *OpenAIPlanner) Plan(ctx context.Context, systemPrompt, userPrompt string) (PlannerResponse, Usage, error) {
	reqBody := openAIChatRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages: []openAIChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return PlannerResponse{}, Usage{}, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := doWithRetry(ctx, p.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
		return p.http.Do(req)
	})
	if err != nil {
		return PlannerResponse{}, Usage{}, err
	}
	defer resp.Body.Close()

	var apiResp openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return PlannerResponse{}, Usage{}, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return PlannerResponse{}, Usage{}, fmt.Errorf("no choices in API response")
	}

	parsed, err := ExtractResponse(apiResp.Choices[0].Message.Content)
	if err != nil {
		return PlannerResponse{}, apiResp.Usage, err
	}
	return parsed, apiResp.Usage, nil
}

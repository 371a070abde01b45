package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AnthropicPlanner drives the diagnose-and-fix loop through the Anthropic
// Messages API.
type AnthropicPlanner struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	http      *http.Client
	retry     retryConfig
}

// NewAnthropicPlanner creates an Anthropic-backed Planner.
func NewAnthropicPlanner(apiKey, model string, maxTokens int, baseURL string) *AnthropicPlanner {
	return &AnthropicPlanner{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 120 * time.Second},
		retry:     defaultRetryConfig(),
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Plan sends the assembled prompts as a single user turn and decodes the
// planner's JSON object out of the reply's text block.
func (p *AnthropicPlanner) Plan(ctx context.Context, systemPrompt, userPrompt string) (PlannerResponse, Usage, error) {
	reqBody := anthropicRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userPrompt}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return PlannerResponse{}, Usage{}, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := doWithRetry(ctx, p.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/messages", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", p.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
		return p.http.Do(req)
	})
	if err != nil {
		return PlannerResponse{}, Usage{}, err
	}
	defer resp.Body.Close()

	var apiResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return PlannerResponse{}, Usage{}, fmt.Errorf("decode response: %w", err)
	}

	var text string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	usage := Usage{
		PromptTokens:     apiResp.Usage.InputTokens,
		CompletionTokens: apiResp.Usage.OutputTokens,
		TotalTokens:      apiResp.Usage.InputTokens + apiResp.Usage.OutputTokens,
	}

	parsed, err := ExtractResponse(text)
	if err != nil {
		return PlannerResponse{}, usage, err
	}
	return parsed, usage, nil
}

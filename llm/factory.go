package llm

import "fmt"

// New builds the Planner for the given provider. Unknown providers fall
// back to OpenAI's wire format, matching config.Load's default.
func New(provider, apiKey, model string, maxTokens int, baseURL string) (Planner, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key for provider %q", provider)
	}
	switch provider {
	case "anthropic":
		return NewAnthropicPlanner(apiKey, model, maxTokens, baseURL), nil
	default:
		return NewOpenAIPlanner(apiKey, model, maxTokens, baseURL), nil
	}
}

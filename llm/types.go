// Package llm talks to a planner model over HTTP and decodes its responses
// into the {thought, tool_to_use, tool_parameters} contract the orchestrator
// expects, with automatic retry for transient failures.
package llm

import "encoding/json"

// PlannerResponse is the decoded shape the planner must return each step.
type PlannerResponse struct {
	Thought        string          `json:"thought"`
	ToolToUse      string          `json:"tool_to_use"`
	ToolParameters json.RawMessage `json:"tool_parameters"`
}

// Usage tracks token consumption for a single planning call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

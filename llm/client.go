package llm

import "context"

// Planner is the interface the orchestrator drives each step. Unlike a chat
// client it is stateless across calls: the caller assembles a complete system
// and user prompt from the current agent context and gets back one decision.
type Planner interface {
	Plan(ctx context.Context, systemPrompt, userPrompt string) (PlannerResponse, Usage, error)
}

package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractResponse pulls the planner's JSON object out of raw model text.
// Models routinely wrap the object in a ```json fence or precede it with
// explanatory prose; this finds the first balanced `{...}` span and decodes
// it into a PlannerResponse.
func ExtractResponse(raw string) (PlannerResponse, error) {
	candidate := stripCodeFence(raw)

	span, err := firstBalancedObject(candidate)
	if err != nil {
		// The fence strip may have been wrong; fall back to the raw text.
		span, err = firstBalancedObject(raw)
		if err != nil {
			return PlannerResponse{}, fmt.Errorf("no JSON object found in planner output: %w", err)
		}
	}

	var resp PlannerResponse
	if err := json.Unmarshal([]byte(span), &resp); err != nil {
		return PlannerResponse{}, fmt.Errorf("decode planner response: %w", err)
	}
	if resp.ToolToUse == "" {
		return PlannerResponse{}, fmt.Errorf("planner response missing tool_to_use")
	}
	return resp, nil
}

// stripCodeFence removes a single leading/trailing ``` or ```json fence if
// the text is wrapped in one. Text without a fence passes through unchanged.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// firstBalancedObject scans for the first top-level `{...}` span, tracking
// brace depth while skipping over braces inside string literals.
func firstBalancedObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", fmt.Errorf("no '{' found")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string literal, braces don't count
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced braces")
}

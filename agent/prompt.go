package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemPreamble = `You are a debugging assistant driving a diagnose-and-fix loop against a single failing command.

Respond with exactly one JSON object and nothing else:
  {"thought": string, "tool_to_use": string, "tool_parameters": object}

You may only call a tool named in available_tools. Never invent a tool name, and never guess a file path — resolve it from file_state or discover it first. Destructive actions (patches, fix commands) require user confirmation before they take effect; propose them, don't assume they're applied. When current_blocking_error is set, it is the single thing to make progress on; don't wander into unrelated files.`

// AssemblePrompt builds the deterministic, 4-part prompt for one planner
// call, per spec §4.5. optimized must already be the result of Optimize —
// this function never truncates or prunes on its own. The system preamble
// (part 1) is returned separately from the status summary, context dump,
// and step imperative (parts 2-4), matching the Planner interface's
// separate system/user prompt arguments.
func AssemblePrompt(optimized *AgentContext, stepNo int) (systemPrompt, userPrompt string) {
	var b strings.Builder

	b.WriteString(statusSummary(optimized))
	b.WriteString("\n\n")

	b.WriteString("Context:\n")
	data, err := json.MarshalIndent(optimized, "", "  ")
	if err == nil {
		b.Write(data)
	}
	b.WriteString("\n\n")

	b.WriteString(stepImperative(optimized, stepNo))

	return systemPreamble, b.String()
}

// statusSummary renders the human-readable highlights the spec requires
// ahead of the raw JSON dump: solved issues, the current blocking error,
// available files, the primary error file, name mappings, and top-level
// structure metadata.
func statusSummary(ctx *AgentContext) string {
	var b strings.Builder
	b.WriteString("Status summary:\n")

	if len(ctx.SolvedIssues) == 0 {
		b.WriteString("- Solved issues: none\n")
	} else {
		b.WriteString("- Solved issues:\n")
		for _, s := range ctx.SolvedIssues {
			fmt.Fprintf(&b, "  - step %d: %s: %s\n", s.ResolutionStep, s.BlockingError.Type, s.BlockingError.Message)
		}
	}

	if ctx.CurrentBlockingError == nil {
		b.WriteString("- Current blocking error: none\n")
	} else {
		e := ctx.CurrentBlockingError
		fmt.Fprintf(&b, "- Current blocking error: %s: %s (files: %s)\n", e.Type, e.Message, strings.Join(e.FileRefs, ", "))
	}

	if len(ctx.FileState.DiscoveredFiles) > 0 {
		fmt.Fprintf(&b, "- Available files: %s\n", strings.Join(ctx.FileState.DiscoveredFiles, ", "))
	} else {
		b.WriteString("- Available files: none discovered yet\n")
	}

	if ctx.FileState.PrimaryErrorFile != "" {
		fmt.Fprintf(&b, "- Primary error file: %s\n", ctx.FileState.PrimaryErrorFile)
	}

	if len(ctx.FileState.FileMappings) > 0 {
		b.WriteString("- Name mappings:\n")
		for name, path := range ctx.FileState.FileMappings {
			fmt.Fprintf(&b, "  - %s -> %s\n", name, path)
		}
	}

	if s := ctx.KnowledgeBase.FileStructure; s != nil {
		fmt.Fprintf(&b, "- Project structure: %d total files, %d relevant, %d code files, extensions [%s]\n",
			s.TotalFiles, s.RelevantFiles, s.CodeFiles, strings.Join(s.RelevantExtensions, ", "))
	}

	return b.String()
}

// stepImperative returns the step-specific directive appended after the
// context dump — on step 1, an instruction to start from the seeded
// initial command output; afterward, a generic next-step directive.
func stepImperative(ctx *AgentContext, stepNo int) string {
	if stepNo <= 1 {
		return "This is the first step. Analyze initial_command_run and current_blocking_error before calling any tool; you already have file_structure and file_state from seeding."
	}
	if ctx.CurrentBlockingError != nil {
		return "Continue working the current blocking error. If you believe it is fixed, propose a patch or fix command and confirm with the user before calling finish_debugging."
	}
	return "No error is currently blocking. If the original command now succeeds, call finish_debugging with final_status=resolved."
}

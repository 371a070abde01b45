package agent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaiho/aidebug/tools"
)

// TuningConfig bounds the optimizer's truncation and consolidation behavior,
// plus the orchestrator-wide thresholds that depend on it. All fields have
// the spec's defaults and are meant to be overridden from config, never
// hardcoded at call sites.
type TuningConfig struct {
	FileTruncateChars   int
	FileTruncateKeep    int
	NotesMaxCount       int
	NotesMaxChars       int
	MaxErrorProgression int
	FocusRecentActions  int
	FocusTailSteps      int
	FocusMinSteps       int
	DriftTailSteps      int
	DriftThreshold      int
	// ContextTokenBudget is the approximate serialized-context budget, in
	// tokens; once the other optimizer rules still leave the context over
	// budget, the oldest session_history entries are evicted until it fits.
	ContextTokenBudget int
	// MaxRecentActions bounds the recent_actions window on the authoritative context.
	MaxRecentActions int
	// DedupWindowSteps is how many trailing recent_actions entries FindDuplicate checks.
	DedupWindowSteps int
	// ConsecutiveFailureLimit is how many consecutive tool failures end the session.
	ConsecutiveFailureLimit int
	// SearchTTL is the cache lifetime for search_results entries.
	SearchTTL time.Duration
	// StepDelay paces orchestrator iterations so terminal output stays observable.
	StepDelay time.Duration
	// Denylist is the substring denylist run_diagnostic_command enforces.
	// Carried on TuningConfig (rather than hardcoded in the orchestrator) so
	// a project's .aidebug.yaml can override it.
	Denylist []string
	// StopWords is the common-words stoplist the retrieval root-cause
	// heuristic excludes from its significant-token match.
	StopWords []string
	// LexicalWeight / VectorWeight are the hybrid-retrieval fusion weights
	// used when seeding a retrieval-core guess.
	LexicalWeight float64
	VectorWeight  float64
}

// DefaultTuning returns the §4.3 defaults.
func DefaultTuning() TuningConfig {
	return TuningConfig{
		FileTruncateChars:       2000,
		FileTruncateKeep:        1000,
		NotesMaxCount:           3,
		NotesMaxChars:           1500,
		MaxErrorProgression:     maxErrorProgression,
		FocusRecentActions:      5,
		FocusTailSteps:          5,
		FocusMinSteps:           3,
		DriftTailSteps:          3,
		DriftThreshold:          5,
		ContextTokenBudget:      8000,
		MaxRecentActions:        maxRecentActions,
		DedupWindowSteps:        dedupWindow,
		ConsecutiveFailureLimit: 3,
		SearchTTL:               5 * time.Minute,
		StepDelay:               500 * time.Millisecond,
		Denylist:                []string{"rm", "del", "format", "mkfs", "dd", "mv", "cp", ">", ">>", "sudo"},
		StopWords: []string{
			"the", "and", "for", "with", "that", "this", "from", "have", "has",
			"not", "are", "was", "were", "been", "error", "errors", "line",
			"file", "none",
		},
		LexicalWeight: 0.3,
		VectorWeight:  0.7,
	}
}

// Optimize returns a deep copy of ctx with the §4.3 rules applied, in order.
// It never mutates ctx — all rules run against a deep copy used solely to
// build the next prompt.
func Optimize(ctx *AgentContext, cfg TuningConfig) *AgentContext {
	out := deepCopyContext(ctx)

	if out.CurrentBlockingError != nil {
		applyFocusMode(out, cfg)
	} else {
		applyDriftMode(out, cfg)
	}

	for path, content := range out.KnowledgeBase.FilesRead {
		out.KnowledgeBase.FilesRead[path] = truncateContent(content, cfg.FileTruncateChars, cfg.FileTruncateKeep)
	}

	consolidateNotes(out, cfg.NotesMaxCount, cfg.NotesMaxChars)

	if len(out.ErrorProgression) > cfg.MaxErrorProgression {
		out.ErrorProgression = out.ErrorProgression[len(out.ErrorProgression)-cfg.MaxErrorProgression:]
	}

	enforceTokenBudget(out, cfg.ContextTokenBudget)

	return out
}

// enforceTokenBudget is the last-resort trim after focus/drift mode and
// truncation have already run: it evicts the oldest retained
// session_history entries, one at a time, until the serialized context fits
// cfg.ContextTokenBudget or only one step remains.
func enforceTokenBudget(ctx *AgentContext, budget int) {
	if budget <= 0 {
		return
	}
	for len(ctx.SessionHistory) > 1 && estimateTokens(ctx) > budget {
		ctx.SessionHistory = ctx.SessionHistory[1:]
	}
}

// estimateTokens approximates token count from serialized length at roughly
// 4 characters per token, the common rule-of-thumb ratio for English/code text.
func estimateTokens(ctx *AgentContext) int {
	data, err := json.Marshal(ctx)
	if err != nil {
		return 0
	}
	return len(data) / 4
}

// applyFocusMode implements §4.3 rule 1: keep the tail of session_history
// plus any patch/fix-proposal step, with a floor of 3 retained steps; prune
// files_read to only files the current error references; cap recent_actions
// at cfg.FocusRecentActions.
func applyFocusMode(ctx *AgentContext, cfg TuningConfig) {
	total := len(ctx.SessionHistory)
	cutoff := total - cfg.FocusTailSteps

	kept := make([]Step, 0, total)
	for _, step := range ctx.SessionHistory {
		if step.StepNo > cutoff || step.ActionTaken.Tool == "propose_code_patch" || step.ActionTaken.Tool == "propose_fix_by_command" {
			kept = append(kept, step)
		}
	}
	if len(kept) < cfg.FocusMinSteps && total > 0 {
		start := total - cfg.FocusMinSteps
		if start < 0 {
			start = 0
		}
		kept = append([]Step(nil), ctx.SessionHistory[start:]...)
	}
	ctx.SessionHistory = kept

	relevant := make(map[string]bool, len(ctx.CurrentBlockingError.FileRefs))
	for _, f := range ctx.CurrentBlockingError.FileRefs {
		relevant[f] = true
	}
	if len(relevant) > 0 {
		for path := range ctx.KnowledgeBase.FilesRead {
			if !pathMatchesAny(path, relevant) {
				delete(ctx.KnowledgeBase.FilesRead, path)
			}
		}
	}

	if len(ctx.RecentActions) > cfg.FocusRecentActions {
		ctx.RecentActions = ctx.RecentActions[len(ctx.RecentActions)-cfg.FocusRecentActions:]
	}
}

// pathMatchesAny reports whether path contains, or is contained by, any of
// the current error's file_refs — the spec's "path includes any file_ref
// (or vice versa)" rule.
func pathMatchesAny(path string, refs map[string]bool) bool {
	for ref := range refs {
		if ref == "" {
			continue
		}
		if strings.Contains(path, ref) || strings.Contains(ref, path) {
			return true
		}
	}
	return false
}

// applyDriftMode implements §4.3 rule 2: with no current error, once
// session_history exceeds DriftThreshold, collapse everything but the last
// DriftTailSteps into one summary step enumerating tool names and statuses.
func applyDriftMode(ctx *AgentContext, cfg TuningConfig) {
	total := len(ctx.SessionHistory)
	if total <= cfg.DriftThreshold {
		return
	}

	splitAt := total - cfg.DriftTailSteps
	dropped := ctx.SessionHistory[:splitAt]
	tail := ctx.SessionHistory[splitAt:]

	summary := "summary of earlier steps:"
	for _, step := range dropped {
		summary += fmt.Sprintf(" [%d:%s=%s]", step.StepNo, step.ActionTaken.Tool, step.Result.Status)
	}

	summaryStep := Step{
		StepNo:      dropped[0].StepNo,
		Thought:     summary,
		ActionTaken: ActionTaken{Tool: "summary"},
		Result:      tools.Result{Status: tools.StatusSuccess},
	}

	ctx.SessionHistory = append([]Step{summaryStep}, tail...)
}

func truncateContent(content string, maxChars, keep int) string {
	r := []rune(content)
	if len(r) <= maxChars {
		return content
	}
	head := string(r[:keep])
	tail := string(r[len(r)-keep:])
	return head + "\n...[truncated]...\n" + tail
}

// consolidateNotes replaces error_analysis_notes with a single summary note
// once the count exceeds maxCount, capping the summary text at maxChars.
func consolidateNotes(ctx *AgentContext, maxCount, maxChars int) {
	notes := ctx.KnowledgeBase.ErrorAnalysisNotes
	if len(notes) <= maxCount {
		return
	}
	summary := ""
	for i, n := range notes {
		if i > 0 {
			summary += "; "
		}
		summary += n.Type + ": " + n.Text
	}
	if len(summary) > maxChars {
		summary = summary[:maxChars]
	}
	ctx.KnowledgeBase.ErrorAnalysisNotes = []ErrorAnalysisNote{{Type: "consolidated", Text: summary}}
}

// deepCopyContext round-trips through JSON to guarantee no shared backing
// arrays or maps survive into the optimized copy; the authoritative context
// is never at risk of mutation by a caller that edits the optimized result.
func deepCopyContext(ctx *AgentContext) *AgentContext {
	data, err := json.Marshal(ctx)
	if err != nil {
		panic(err)
	}
	var out AgentContext
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}

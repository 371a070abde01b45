package agent

import (
	"strings"
	"testing"
)

func TestAssemblePrompt_ReturnsSeparateSystemAndUserPrompts(t *testing.T) {
	ctx := newTestContext(t.TempDir())
	system, user := AssemblePrompt(ctx, 1)

	if system == "" {
		t.Fatalf("expected a non-empty system prompt")
	}
	if strings.Contains(user, system) {
		t.Errorf("expected the user prompt not to re-embed the full system preamble")
	}
}

func TestAssemblePrompt_OrdersStatusSummaryBeforeContextDump(t *testing.T) {
	ctx := newTestContext(t.TempDir())
	ctx.CurrentBlockingError = &BlockingError{Type: "module_error", Message: "no module named foo"}

	_, user := AssemblePrompt(ctx, 2)

	statusIdx := strings.Index(user, "Status summary:")
	contextIdx := strings.Index(user, "Context:")
	if statusIdx == -1 || contextIdx == -1 {
		t.Fatalf("expected both status summary and context sections, got:\n%s", user)
	}
	if statusIdx > contextIdx {
		t.Errorf("expected status summary to precede the context dump")
	}
}

func TestAssemblePrompt_StatusSummaryMentionsBlockingError(t *testing.T) {
	ctx := newTestContext(t.TempDir())
	ctx.CurrentBlockingError = &BlockingError{Type: "module_error", Message: "no module named foo", FileRefs: []string{"app.py"}}

	_, user := AssemblePrompt(ctx, 2)

	if !strings.Contains(user, "no module named foo") {
		t.Errorf("expected the status summary to mention the blocking error message")
	}
	if !strings.Contains(user, "app.py") {
		t.Errorf("expected the status summary to mention the error's file refs")
	}
}

func TestAssemblePrompt_FirstStepUsesInitialCommandImperative(t *testing.T) {
	ctx := newTestContext(t.TempDir())
	_, user := AssemblePrompt(ctx, 1)

	if !strings.Contains(user, "first step") {
		t.Errorf("expected a first-step-specific imperative, got:\n%s", user)
	}
}

func TestAssemblePrompt_SubsequentStepReferencesBlockingError(t *testing.T) {
	ctx := newTestContext(t.TempDir())
	ctx.CurrentBlockingError = &BlockingError{Type: "module_error", Message: "no module named foo"}
	_, user := AssemblePrompt(ctx, 3)

	if !strings.Contains(user, "blocking error") {
		t.Errorf("expected the step imperative to reference the current blocking error, got:\n%s", user)
	}
}

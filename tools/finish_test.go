package tools

import (
	"context"
	"encoding/json"
	"testing"
)

func TestFinishTool_ReturnsFinishedStatus(t *testing.T) {
	dir := setupTestDir(t)
	r := newTestRegistry(dir, &fakeSubprocess{}, &fakeUI{})

	input, _ := json.Marshal(finishInput{FinalStatus: "resolved", ConclusionMessageForUser: "Tests pass now."})
	result, err := r.Execute(context.Background(), "finish_debugging", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusFinished {
		t.Fatalf("status = %q, want %q", result.Status, StatusFinished)
	}
	if result.Payload["final_status"] != "resolved" {
		t.Errorf("unexpected final_status: %v", result.Payload["final_status"])
	}
}

func TestFinishTool_RejectsUnknownStatus(t *testing.T) {
	dir := setupTestDir(t)
	r := newTestRegistry(dir, &fakeSubprocess{}, &fakeUI{})

	input, _ := json.Marshal(finishInput{FinalStatus: "done", ConclusionMessageForUser: "no such status"})
	result, err := r.Execute(context.Background(), "finish_debugging", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("expected error status, got %q", result.Status)
	}
}

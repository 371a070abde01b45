package tools

import (
	"context"
	"encoding/json"
	"testing"
)

func TestFixCommandTool_RunsOnConfirmation(t *testing.T) {
	dir := setupTestDir(t)
	sub := &fakeSubprocess{result: SubprocessResult{Output: "done", ExitCode: 0}}
	ui := &fakeUI{confirm: true}
	r := newTestRegistry(dir, sub, ui)

	input, _ := json.Marshal(fixCommandInput{CommandToPropose: "go mod tidy"})
	result, err := r.Execute(context.Background(), "propose_fix_by_command", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Payload["user_confirmation"] != true {
		t.Fatalf("expected user_confirmation = true, got %v", result.Payload)
	}
	if sub.gotCmd != "go mod tidy" {
		t.Errorf("subprocess received %q", sub.gotCmd)
	}
}

func TestFixCommandTool_SkipsOnRefusal(t *testing.T) {
	dir := setupTestDir(t)
	sub := &fakeSubprocess{}
	ui := &fakeUI{confirm: false}
	r := newTestRegistry(dir, sub, ui)

	input, _ := json.Marshal(fixCommandInput{CommandToPropose: "go mod tidy"})
	result, err := r.Execute(context.Background(), "propose_fix_by_command", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Payload["user_confirmation"] != false {
		t.Fatalf("expected user_confirmation = false when the user declines")
	}
	if sub.gotCmd != "" {
		t.Errorf("subprocess should not have run, got %q", sub.gotCmd)
	}
}

func TestFixCommandTool_RejectsDenylistedCommand(t *testing.T) {
	dir := setupTestDir(t)
	sub := &fakeSubprocess{}
	r := newTestRegistry(dir, sub, &fakeUI{confirm: true})
	r.SetState(ExecutionState{Denylist: []string{"rm -rf"}})

	input, _ := json.Marshal(fixCommandInput{CommandToPropose: "rm -rf ."})
	result, err := r.Execute(context.Background(), "propose_fix_by_command", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("expected error status, got %q", result.Status)
	}
}

package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestPatchTool_AppliesOnConfirmation(t *testing.T) {
	dir := setupTestDir(t)
	ui := &fakeUI{confirm: true}
	r := newTestRegistry(dir, &fakeSubprocess{}, ui)

	input, _ := json.Marshal(patchInput{
		FilePath: "hello.go",
		PatchContent: []patchChange{
			{LineNumber: 3, Action: "replace", NewContent: "func main() { println(\"hi\") }"},
		},
	})
	result, err := r.Execute(context.Background(), "propose_code_patch", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("status = %q, message = %q", result.Status, result.Message)
	}
	if result.Payload["patch_applied"] != true {
		t.Fatalf("expected patch_applied = true, got %v", result.Payload)
	}
	if ui.diffCalls != 1 {
		t.Errorf("expected exactly one diff display, got %d", ui.diffCalls)
	}

	data, err := os.ReadFile(filepath.Join(dir, "hello.go"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "package main\n\nfunc main() { println(\"hi\") }\n" {
		t.Errorf("unexpected file content after patch: %q", string(data))
	}
}

func TestPatchTool_SkipsOnRefusal(t *testing.T) {
	dir := setupTestDir(t)
	ui := &fakeUI{confirm: false}
	r := newTestRegistry(dir, &fakeSubprocess{}, ui)

	input, _ := json.Marshal(patchInput{
		FilePath: "hello.go",
		PatchContent: []patchChange{
			{LineNumber: 1, Action: "replace", NewContent: "package changed"},
		},
	})
	result, err := r.Execute(context.Background(), "propose_code_patch", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Payload["patch_applied"] != false {
		t.Fatalf("expected patch_applied = false when the user declines")
	}

	data, _ := os.ReadFile(filepath.Join(dir, "hello.go"))
	if string(data) != "package main\n\nfunc main() {}\n" {
		t.Errorf("file should be unchanged after refusal, got %q", string(data))
	}
}

func TestPatchTool_RejectsOutOfRangeLine(t *testing.T) {
	dir := setupTestDir(t)
	r := newTestRegistry(dir, &fakeSubprocess{}, &fakeUI{confirm: true})

	input, _ := json.Marshal(patchInput{
		FilePath: "hello.go",
		PatchContent: []patchChange{
			{LineNumber: 999, Action: "replace", NewContent: "x"},
		},
	})
	result, err := r.Execute(context.Background(), "propose_code_patch", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("expected error status for out-of-range line, got %q", result.Status)
	}
}

func TestApplyPatchChanges_InsertAndDelete(t *testing.T) {
	content := "a\nb\nc\n"
	out, err := applyPatchChanges(content, []patchChange{
		{LineNumber: 2, Action: "delete"},
		{LineNumber: 1, Action: "insert", NewContent: "zero"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "zero\na\nc\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

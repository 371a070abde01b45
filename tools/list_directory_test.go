package tools

import (
	"context"
	"encoding/json"
	"testing"
)

func TestListDirectoryTool(t *testing.T) {
	dir := setupTestDir(t)
	r := newTestRegistry(dir, &fakeSubprocess{}, &fakeUI{})

	input, _ := json.Marshal(listDirectoryInput{})
	result, err := r.Execute(context.Background(), "list_directory_contents", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("status = %q, message = %q", result.Status, result.Message)
	}

	entries, ok := result.Payload["entries"].([]DirEntry)
	if !ok {
		t.Fatalf("entries payload has wrong type: %T", result.Payload["entries"])
	}

	var sawHello, sawNodeModules bool
	for _, e := range entries {
		if e.Name == "hello.go" {
			sawHello = true
			if !e.IsCodeFile {
				t.Errorf("hello.go should be flagged as a code file")
			}
		}
		if e.Name == "node_modules" {
			sawNodeModules = true
		}
	}
	if !sawHello {
		t.Errorf("expected hello.go in listing")
	}
	if sawNodeModules {
		t.Errorf("node_modules should be skipped")
	}
}

func TestListDirectoryTool_MissingDirectory(t *testing.T) {
	dir := setupTestDir(t)
	r := newTestRegistry(dir, &fakeSubprocess{}, &fakeUI{})

	input, _ := json.Marshal(listDirectoryInput{DirectoryPath: "does-not-exist"})
	result, err := r.Execute(context.Background(), "list_directory_contents", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusError {
		t.Fatalf("expected error status, got %q", result.Status)
	}
}

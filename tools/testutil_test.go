package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "hello.go"), []byte("package main\n\nfunc main() {}\n"), 0644)
	os.WriteFile(filepath.Join(dir, "readme.md"), []byte("# Hello\nWorld\n"), 0644)
	os.MkdirAll(filepath.Join(dir, "sub"), 0755)
	os.WriteFile(filepath.Join(dir, "sub", "nested.go"), []byte("package sub\n\nvar x = 42\n"), 0644)
	os.MkdirAll(filepath.Join(dir, "node_modules"), 0755)
	os.WriteFile(filepath.Join(dir, "node_modules", "ignored.js"), []byte("noise"), 0644)
	return dir
}

// fakeSubprocess returns a scripted result instead of spawning a shell.
type fakeSubprocess struct {
	result SubprocessResult
	err    error
	gotCmd string
}

func (f *fakeSubprocess) Run(_ context.Context, _ string, command string, _ time.Duration) (SubprocessResult, error) {
	f.gotCmd = command
	return f.result, f.err
}

// fakeUI scripts confirmation/input answers for tests.
type fakeUI struct {
	confirm     bool
	input       string
	inputErr    error
	diffCalls   int
	confirmArgs []string
}

func (f *fakeUI) ConfirmAction(prompt string) bool {
	f.confirmArgs = append(f.confirmArgs, prompt)
	return f.confirm
}

func (f *fakeUI) AskInput(string) (string, error) {
	return f.input, f.inputErr
}

func (f *fakeUI) DisplayDiff(string, string, string) {
	f.diffCalls++
}

func newTestRegistry(dir string, sub Subprocess, ui UI) *Registry {
	return NewRegistry(dir, sub, ui)
}

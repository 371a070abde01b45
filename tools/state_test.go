package tools

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFile_PrefersFileMappings(t *testing.T) {
	fs := FileState{FileMappings: map[string]string{"app.py": "src/app.py"}}
	if got := resolveFile(fs, "app.py"); got != "src/app.py" {
		t.Errorf("got %q, want src/app.py", got)
	}
}

func TestResolveFile_FallsBackToCwdExistenceCheck(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "exists.go"), "package main")
	fs := FileState{WorkingDirectory: dir}
	if got := resolveFile(fs, "exists.go"); got != "exists.go" {
		t.Errorf("got %q, want exists.go", got)
	}
}

func TestResolveFile_FallsBackToPrimaryErrorFile(t *testing.T) {
	dir := t.TempDir()
	fs := FileState{WorkingDirectory: dir, PrimaryErrorFile: "main.go"}
	if got := resolveFile(fs, "missing.go"); got != "main.go" {
		t.Errorf("got %q, want main.go", got)
	}
}

func TestResolveFile_FallsBackToFirstDiscovered(t *testing.T) {
	dir := t.TempDir()
	fs := FileState{WorkingDirectory: dir, DiscoveredFiles: []string{"a.go", "b.go"}}
	if got := resolveFile(fs, "missing.go"); got != "a.go" {
		t.Errorf("got %q, want a.go", got)
	}
}

func TestResolveFile_PassthroughWhenNothingMatches(t *testing.T) {
	dir := t.TempDir()
	fs := FileState{WorkingDirectory: dir}
	if got := resolveFile(fs, "missing.go"); got != "missing.go" {
		t.Errorf("got %q, want missing.go", got)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

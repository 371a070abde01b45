package agent

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSeed_InstallsBlockingErrorWithStepZero(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "app.py"), []byte("import foo\n"), 0644)

	ctx := NewAgentContext("fix it", CommandRun{
		CommandString: "python app.py",
		Stderr:        "Traceback (most recent call last):\n  File \"app.py\", line 1\nModuleNotFoundError: No module named 'foo'",
	}, dir, nil)

	if err := Seed(ctx, time.Now(), DefaultTuning()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if ctx.CurrentBlockingError == nil {
		t.Fatalf("expected a blocking error to be installed")
	}
	if ctx.CurrentBlockingError.FirstSeenStep != 0 || ctx.CurrentBlockingError.LastSeenStep != 0 {
		t.Errorf("expected first/last seen step 0, got %d/%d", ctx.CurrentBlockingError.FirstSeenStep, ctx.CurrentBlockingError.LastSeenStep)
	}
	if ctx.CurrentBlockingError.Type != "module_error" {
		t.Errorf("got error type %q, want module_error", ctx.CurrentBlockingError.Type)
	}
}

func TestSeed_AppendsStepZeroProgressionEntry(t *testing.T) {
	dir := t.TempDir()
	ctx := NewAgentContext("fix it", CommandRun{
		CommandString: "python app.py",
		Stderr:        "ModuleNotFoundError: No module named 'foo'",
	}, dir, nil)

	Seed(ctx, time.Now(), DefaultTuning())

	if len(ctx.ErrorProgression) != 1 {
		t.Fatalf("got %d progression entries, want 1", len(ctx.ErrorProgression))
	}
	if ctx.ErrorProgression[0].Step != 0 {
		t.Errorf("expected progression entry at step 0")
	}
}

func TestSeed_NoErrorDetectedStillScansStructure(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main"), 0644)

	ctx := NewAgentContext("fix it", CommandRun{CommandString: "go build ./...", Stdout: "build output with no recognizable error"}, dir, nil)

	if err := Seed(ctx, time.Now(), DefaultTuning()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if ctx.CurrentBlockingError != nil {
		t.Errorf("expected no blocking error for unrecognized output")
	}
	if ctx.KnowledgeBase.FileStructure == nil {
		t.Errorf("expected a structure scan to be cached regardless of error detection")
	}
	found := false
	for _, f := range ctx.FileState.DiscoveredFiles {
		if f == "main.go" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected main.go to be discovered, got %v", ctx.FileState.DiscoveredFiles)
	}
}

func TestSeed_DerivesPrimaryErrorFileAndMappings(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "app.py"), []byte("import foo\n"), 0644)

	ctx := NewAgentContext("fix it", CommandRun{
		CommandString: "python app.py",
		Stderr:        "Traceback (most recent call last):\n  File \"app.py\", line 1\nModuleNotFoundError: No module named 'foo'",
	}, dir, nil)

	Seed(ctx, time.Now(), DefaultTuning())

	if ctx.FileState.PrimaryErrorFile != "app.py" {
		t.Errorf("got primary error file %q, want app.py", ctx.FileState.PrimaryErrorFile)
	}
	if ctx.FileState.FileMappings["app.py"] != "app.py" {
		t.Errorf("expected a file mapping for app.py, got %v", ctx.FileState.FileMappings)
	}
}

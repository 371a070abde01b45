package agent

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSeed_FallsBackToRetrievalGuessWhenNoFileRefs(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "config.py"), []byte("SETTINGS = {'db': 'prod'}\nKeyError risk here\n"), 0644)
	os.WriteFile(filepath.Join(dir, "unrelated.py"), []byte("def helper():\n    return 1\n"), 0644)

	ctx := NewAgentContext("fix it", CommandRun{
		CommandString: "python app.py",
		Stderr:        "KeyError: 'config'",
	}, dir, nil)

	if err := Seed(ctx, time.Now(), DefaultTuning()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if ctx.CurrentBlockingError == nil {
		t.Fatalf("expected a blocking error to be installed")
	}
	if len(ctx.CurrentBlockingError.FileRefs) != 0 {
		t.Fatalf("test setup invalid: expected no file refs, got %v", ctx.CurrentBlockingError.FileRefs)
	}
	if ctx.FileState.PrimaryErrorFile == "" {
		t.Errorf("expected the retrieval fallback to populate a primary error file guess")
	}

	foundNote := false
	for _, n := range ctx.KnowledgeBase.ErrorAnalysisNotes {
		if n.Type == "retrieval_guess" {
			foundNote = true
		}
	}
	if !foundNote {
		t.Errorf("expected a retrieval_guess note to be recorded, got %v", ctx.KnowledgeBase.ErrorAnalysisNotes)
	}
}

func TestSeedRetrievalGuess_NoOpWhenFileRefsPresent(t *testing.T) {
	dir := t.TempDir()
	ctx := NewAgentContext("fix it", CommandRun{}, dir, nil)
	blocking := &BlockingError{Type: "key_error", Message: "x", FileRefs: []string{"app.py"}}

	seedRetrievalGuess(ctx, blocking, []string{"app.py"}, DefaultTuning())

	if ctx.FileState.PrimaryErrorFile != "" {
		t.Errorf("expected no guess when file refs are already present")
	}
}

func TestStoplistFrom_FallsBackToDefaultWhenUnset(t *testing.T) {
	set := stoplistFrom(nil)
	if !set["the"] {
		t.Errorf("expected the default stoplist to be used when no words are configured")
	}
}

func TestStoplistFrom_UsesConfiguredWords(t *testing.T) {
	set := stoplistFrom([]string{"custom"})
	if set["the"] {
		t.Errorf("expected a configured stoplist to replace the default, not extend it")
	}
	if !set["custom"] {
		t.Errorf("expected the configured word to be in the set")
	}
}

package retrieval

import (
	"strings"
	"testing"
)

func TestExpandQuery_AppendsErrorPatternCaptures(t *testing.T) {
	raw := "the build is broken, exception: connection refused"
	expanded := ExpandQuery(raw)
	if len(expanded) <= len(raw) {
		t.Errorf("expected the error-pattern capture to append text beyond the raw query, got %q", expanded)
	}
}

func TestExpandQuery_AppendsCodeFilenames(t *testing.T) {
	raw := `File "app.py", line 12, in <module>`
	expanded := ExpandQuery(raw)
	if !strings.Contains(expanded, "app.py") {
		t.Errorf("expected app.py to be appended as a recognized filename, got %q", expanded)
	}
}

func TestExpandQuery_AppendsImportTargets(t *testing.T) {
	raw := "import requests"
	expanded := ExpandQuery(raw)
	if !strings.Contains(expanded, "requests") {
		t.Errorf("expected the import target to be appended, got %q", expanded)
	}
}

func TestExpandQuery_PreservesOriginalQuery(t *testing.T) {
	raw := "something failed unexpectedly"
	expanded := ExpandQuery(raw)
	if !strings.HasPrefix(expanded, raw) {
		t.Errorf("expected the expanded query to retain the original text, got %q", expanded)
	}
}

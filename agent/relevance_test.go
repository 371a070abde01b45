package agent

import (
	"testing"

	"github.com/kaiho/aidebug/tools"
)

func TestIsRelevant_DelegatesToToolsRuleSet(t *testing.T) {
	cases := []struct {
		path  string
		depth int
		size  int64
	}{
		{"app.py", 1, 50},
		{"node_modules/pkg/index.js", 3, 50},
		{"README.md", 1, 50},
		{"docs/deep/README.md", 3, 50},
		{".env", 1, 100},
		{"random.bin", 1, 2000},
	}

	for _, c := range cases {
		want := tools.IsRelevantFile(c.path, lastPathSegment(c.path), c.size, c.depth)
		got := IsRelevant(c.path, c.depth, c.size)
		if got != want {
			t.Errorf("IsRelevant(%q, depth=%d, size=%d) = %v, want %v (matching tools.IsRelevantFile)", c.path, c.depth, c.size, got, want)
		}
	}
}

func lastPathSegment(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

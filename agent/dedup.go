package agent

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kaiho/aidebug/tools"
)

// pathParamKeys names the tool parameters whose values are filesystem paths
// and must be normalized relative to the session's working directory before
// hashing, so that "./foo.py", "foo.py", and an absolute path to the same
// file collide on the same signature (spec §9, Open Question: normalize
// against AgentContext.CurrentWorkingDirectory, never the process cwd).
var pathParamKeys = map[string]bool{
	"file_path":      true,
	"directory_path": true,
}

// Signature computes the stable dedup key for one proposed tool call: the
// tool name plus its parameters, with path-shaped parameters normalized
// relative to cwd and the whole set serialized with sorted keys.
func Signature(cwd, tool string, parameters map[string]any) string {
	normalized := make(map[string]any, len(parameters))
	for k, v := range parameters {
		if pathParamKeys[k] {
			if s, ok := v.(string); ok {
				normalized[k] = normalizeRelPath(cwd, s)
				continue
			}
		}
		normalized[k] = v
	}

	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(tool)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		data, _ := json.Marshal(normalized[k])
		b.Write(data)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func normalizeRelPath(cwd, path string) string {
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(cwd, path); err == nil {
			return filepath.ToSlash(rel)
		}
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// dedupWindow is the default window size, used when no TuningConfig
// override is available (DefaultTuning().DedupWindowSteps mirrors it).
const dedupWindow = 3

// FindDuplicate reports the most recent recent_actions entry within the
// last window steps that shares sig, if any. Pass
// TuningConfig.DedupWindowSteps as window; window <= 0 falls back to dedupWindow.
func FindDuplicate(ctx *AgentContext, sig string, window int) (RecentAction, bool) {
	if window <= 0 {
		window = dedupWindow
	}
	n := len(ctx.RecentActions)
	start := 0
	if n > window {
		start = n - window
	}
	for i := n - 1; i >= start; i-- {
		if ctx.RecentActions[i].Signature == sig {
			return ctx.RecentActions[i], true
		}
	}
	return RecentAction{}, false
}

// SkippedResult builds the result the orchestrator records in place of
// dispatching a detected duplicate call.
func SkippedResult(dup RecentAction) tools.Result {
	return tools.Result{
		Status:  tools.StatusSkipped,
		Message: "duplicate of step",
		Payload: map[string]any{
			"duplicate_of_step": dup.StepNo,
			"prior_result":       dup.Result,
		},
	}
}

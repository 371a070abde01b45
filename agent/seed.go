package agent

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/kaiho/aidebug/tools"
)

const (
	seedMaxDepth       = 3
	seedIncludeHidden  = false
)

// Seed eagerly populates ctx's knowledge base at session start, before the
// first planner call, per spec §4.7: it parses the initial command's
// combined output into the first current_blocking_error, scans the project
// structure, and derives file_state so the planner can act with full
// project awareness on step 1 without any tool invocation. tuning carries
// the retrieval-core overrides used by the no-file-refs fallback guess.
func Seed(ctx *AgentContext, now time.Time, tuning TuningConfig) error {
	combined := ctx.InitialCommandRun.Stdout
	if ctx.InitialCommandRun.Stderr != "" {
		if combined != "" {
			combined += "\n"
		}
		combined += ctx.InitialCommandRun.Stderr
	}

	blocking := ParseError(combined)
	if blocking != nil {
		blocking.FirstSeenStep = 0
		blocking.LastSeenStep = 0
		ctx.InstallCurrentError(blocking)
		ctx.AddNote(ErrorAnalysisNote{
			Type: blocking.Type,
			Text: blocking.Message,
		})
	} else {
		ctx.AddNote(ErrorAnalysisNote{
			Type: "no_error_detected",
			Text: "initial command output did not match a known error pattern",
		})
	}
	ctx.AppendProgression(ErrorProgressionEntry{
		Step:          0,
		ErrorDetected: blocking,
		PreviousError: nil,
		Timestamp:     now,
	})

	snapshot, err := tools.ScanStructure(ctx.CurrentWorkingDirectory, seedMaxDepth, seedIncludeHidden)
	if err != nil {
		return err
	}

	relevant := make([]string, 0, len(snapshot.FlatFiles))
	for _, f := range snapshot.FlatFiles {
		depth := len(strings.Split(f, "/"))
		if IsRelevant(f, depth, 0) {
			relevant = append(relevant, f)
		}
	}
	snapshot.FlatFiles = relevant
	snapshot.RelevantFiles = len(relevant)
	ctx.CacheFileStructure(snapshot)

	ctx.AddDiscoveredFiles(relevant)

	if blocking != nil && len(blocking.FileRefs) > 0 {
		ctx.FileState.PrimaryErrorFile = resolvePrimaryErrorFile(blocking.FileRefs, relevant)
		BuildFileMappings(ctx, blocking.FileRefs, relevant)
	} else {
		seedRetrievalGuess(ctx, blocking, relevant, tuning)
	}

	return nil
}

// resolvePrimaryErrorFile picks the first traceback file reference that can
// be matched against a discovered file, falling back to the raw reference.
func resolvePrimaryErrorFile(fileRefs, discovered []string) string {
	for _, ref := range fileRefs {
		base := filepath.Base(ref)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		for _, d := range discovered {
			dBase := filepath.Base(d)
			if dBase == base || strings.Contains(dBase, stem) {
				return d
			}
		}
	}
	return fileRefs[0]
}

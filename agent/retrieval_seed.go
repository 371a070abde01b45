package agent

import (
	"os"
	"path/filepath"

	"github.com/kaiho/aidebug/retrieval"
)

const (
	retrievalSeedMaxDocs     = 60
	retrievalSeedMaxFileSize = 40_000
)

// seedRetrievalGuess runs when the initial error carries no traceback file
// reference the deterministic resolver in BuildFileMappings can anchor on.
// It builds a hybrid retrieval index over the discovered project files and
// asks the root-cause heuristic for its best guess, so the planner still
// gets a starting file_state.primary_error_file instead of none at all.
// tuning.StopWords and tuning.LexicalWeight/VectorWeight carry a project's
// overrides through to the retrieval core; a zero-value tuning falls back
// to the retrieval package's own defaults.
//
// The result is a guess, not a resolved reference — it's recorded as an
// error_analysis_note rather than silently promoted to the same confidence
// as a traceback match.
func seedRetrievalGuess(ctx *AgentContext, blocking *BlockingError, discovered []string, tuning TuningConfig) {
	if blocking == nil || len(blocking.FileRefs) > 0 || len(discovered) == 0 {
		return
	}

	docs := make([]retrieval.Document, 0, retrievalSeedMaxDocs)
	for _, path := range discovered {
		if len(docs) >= retrievalSeedMaxDocs {
			break
		}
		full := filepath.Join(ctx.CurrentWorkingDirectory, path)
		info, err := os.Stat(full)
		if err != nil || info.Size() > retrievalSeedMaxFileSize {
			continue
		}
		content, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		docs = append(docs, retrieval.Document{ID: path, FilePath: path, Content: string(content)})
	}
	if len(docs) == 0 {
		return
	}

	weights := retrieval.DefaultFusionWeights()
	if tuning.LexicalWeight > 0 || tuning.VectorWeight > 0 {
		weights = retrieval.FusionWeights{BM25: tuning.LexicalWeight, Vector: tuning.VectorWeight}
	}

	idx := retrieval.NewIndex(docs, weights)
	results := idx.Search(blocking.Message, 10)
	best, ok := retrieval.RootCause(results, blocking.RawOutput, stoplistFrom(tuning.StopWords))
	if !ok {
		return
	}

	ctx.FileState.PrimaryErrorFile = best.Doc.FilePath
	ctx.SetFileMapping(filepath.Base(best.Doc.FilePath), best.Doc.FilePath)
	ctx.AddNote(ErrorAnalysisNote{
		Type: "retrieval_guess",
		Text: "no traceback file reference; retrieval core's root-cause heuristic points to " + best.Doc.FilePath,
	})
}

// stoplistFrom converts a configured word list into the set form RootCause
// expects, falling back to the retrieval package's own default when unset.
func stoplistFrom(words []string) map[string]bool {
	if len(words) == 0 {
		return retrieval.DefaultStoplist()
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

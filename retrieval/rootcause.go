package retrieval

import (
	"path/filepath"
	"strings"
)

// DefaultStoplist returns the common words excluded from the root-cause
// token match per spec §4.9 ("significant" tokens are >3 chars and not in a
// common-words stoplist), for callers with no project-specific override.
func DefaultStoplist() map[string]bool {
	return map[string]bool{
		"the": true, "and": true, "for": true, "with": true, "that": true,
		"this": true, "from": true, "have": true, "has": true, "not": true,
		"are": true, "was": true, "were": true, "been": true, "error": true,
		"errors": true, "line": true, "file": true, "none": true,
	}
}

// RootCause applies the §4.9 heuristic to a fused ranking and returns the
// top-scoring result after boosting. ok is false when results is empty.
// stoplist excludes common words from the significant-token match; pass
// DefaultStoplist() absent a project-specific override.
func RootCause(results []FusedResult, errorLog string, stoplist map[string]bool) (best FusedResult, ok bool) {
	if len(results) == 0 {
		return FusedResult{}, false
	}

	tokens := significantTokens(errorLog, stoplist)
	lowerLog := strings.ToLower(errorLog)

	boosted := make([]FusedResult, len(results))
	copy(boosted, results)
	for i, r := range boosted {
		score := r.CombinedScore
		if r.Doc.FilePath != "" && strings.Contains(lowerLog, strings.ToLower(filepath.Base(r.Doc.FilePath))) {
			score *= 2.0
		}
		m := matchedTokenCount(tokens, r.Doc.Content)
		score *= 1 + 0.1*float64(m)
		boosted[i].CombinedScore = score
	}

	best = boosted[0]
	for _, r := range boosted[1:] {
		if r.CombinedScore > best.CombinedScore {
			best = r
		}
	}
	return best, true
}

func significantTokens(s string, stoplist map[string]bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tokenize(s) {
		if len(t) <= 3 || stoplist[t] {
			continue
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func matchedTokenCount(tokens []string, content string) int {
	lower := strings.ToLower(content)
	count := 0
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			count++
		}
	}
	return count
}

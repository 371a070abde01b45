package retrieval

import "sort"

// Group is the set of fused results sharing one file path, exposed to
// surface a small set of "related files" beyond the root cause.
type Group struct {
	FilePath   string
	Results    []FusedResult
	MaxScore   float64
	TotalScore float64
}

// GroupByFilePath groups fused results by Doc.FilePath, computing
// maxScore/totalScore per group, and sorts groups by maxScore descending,
// per spec §4.9.
func GroupByFilePath(results []FusedResult) []Group {
	byPath := make(map[string]*Group)
	var order []string

	for _, r := range results {
		g, ok := byPath[r.Doc.FilePath]
		if !ok {
			g = &Group{FilePath: r.Doc.FilePath}
			byPath[r.Doc.FilePath] = g
			order = append(order, r.Doc.FilePath)
		}
		g.Results = append(g.Results, r)
		g.TotalScore += r.CombinedScore
		if r.CombinedScore > g.MaxScore {
			g.MaxScore = r.CombinedScore
		}
	}

	out := make([]Group, 0, len(order))
	for _, p := range order {
		out = append(out, *byPath[p])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MaxScore > out[j].MaxScore })
	return out
}

package retrieval

import "sort"

// FusionWeights are the relative weights given to BM25 vs vector scores. They
// are normalized to sum to 1 at fusion time, so scaling both by the same
// factor never changes the resulting order.
type FusionWeights struct {
	BM25   float64
	Vector float64
}

// DefaultFusionWeights returns the spec's 0.3/0.7 default split.
func DefaultFusionWeights() FusionWeights {
	return FusionWeights{BM25: 0.3, Vector: 0.7}
}

// FusedResult is one document's combined ranking after score fusion.
type FusedResult struct {
	Doc           Document
	BM25Score     float64
	VectorScore   float64
	CombinedScore float64
}

// Fuse combines a BM25 ranking and a vector ranking into one ordered list per
// spec §4.9: a document missing from either ranking gets a 0 score there,
// weights are normalized to sum to 1 before application, and ties break by
// the order documents first appear in vectorResults.
func Fuse(bm25Results, vectorResults []ScoredDoc, weights FusionWeights) []FusedResult {
	total := weights.BM25 + weights.Vector
	wB, wV := weights.BM25, weights.Vector
	if total > 0 {
		wB, wV = weights.BM25/total, weights.Vector/total
	}

	bm25ByID := make(map[string]float64, len(bm25Results))
	for _, r := range bm25Results {
		bm25ByID[r.Doc.ID] = r.Score
	}
	vectorByID := make(map[string]float64, len(vectorResults))
	vectorOrder := make(map[string]int)
	docByID := make(map[string]Document)
	var order []string

	for i, r := range vectorResults {
		vectorByID[r.Doc.ID] = r.Score
		vectorOrder[r.Doc.ID] = i
		if _, ok := docByID[r.Doc.ID]; !ok {
			docByID[r.Doc.ID] = r.Doc
			order = append(order, r.Doc.ID)
		}
	}
	for _, r := range bm25Results {
		if _, ok := docByID[r.Doc.ID]; !ok {
			docByID[r.Doc.ID] = r.Doc
			vectorOrder[r.Doc.ID] = len(vectorResults) + len(order)
			order = append(order, r.Doc.ID)
		}
	}

	out := make([]FusedResult, 0, len(order))
	for _, id := range order {
		b := bm25ByID[id]
		v := vectorByID[id]
		out = append(out, FusedResult{
			Doc:           docByID[id],
			BM25Score:     b,
			VectorScore:   v,
			CombinedScore: wB*b + wV*v,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CombinedScore != out[j].CombinedScore {
			return out[i].CombinedScore > out[j].CombinedScore
		}
		return vectorOrder[out[i].Doc.ID] < vectorOrder[out[j].Doc.ID]
	})
	return out
}

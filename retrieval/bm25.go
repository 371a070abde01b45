package retrieval

import (
	"math"
	"sort"
)

// Okapi BM25 tuning constants; standard defaults.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// ScoredDoc is one document with its ranking score from a single-modality
// search (BM25 or vector).
type ScoredDoc struct {
	Doc   Document
	Score float64
}

// BM25Index is a hand-rolled Okapi BM25 index over tokenized document
// content. No third-party BM25 library was found across the example pack
// (see DESIGN.md); this is the one retrieval component built on stdlib math.
type BM25Index struct {
	docs      []Document
	docTokens [][]string
	docFreq   map[string]int
	avgDocLen float64
}

// NewBM25Index tokenizes every document and precomputes document frequencies
// and the average document length BM25's length normalization needs.
func NewBM25Index(docs []Document) *BM25Index {
	idx := &BM25Index{docs: docs, docFreq: make(map[string]int)}
	idx.docTokens = make([][]string, len(docs))

	var totalLen int
	for i, d := range docs {
		toks := tokenize(d.Content)
		idx.docTokens[i] = toks
		totalLen += len(toks)

		seen := make(map[string]bool, len(toks))
		for _, t := range toks {
			if !seen[t] {
				idx.docFreq[t]++
				seen[t] = true
			}
		}
	}
	if len(docs) > 0 {
		idx.avgDocLen = float64(totalLen) / float64(len(docs))
	}
	return idx
}

// Size returns the number of indexed documents.
func (idx *BM25Index) Size() int { return len(idx.docs) }

// Search ranks all documents by BM25 score against query and returns the
// top k (k<=0 returns every document, ranked).
func (idx *BM25Index) Search(query string, k int) []ScoredDoc {
	qTokens := tokenize(query)
	n := float64(len(idx.docs))

	scores := make([]float64, len(idx.docs))
	for i, toks := range idx.docTokens {
		if len(toks) == 0 {
			continue
		}
		tf := make(map[string]int, len(toks))
		for _, t := range toks {
			tf[t]++
		}
		dl := float64(len(toks))

		var score float64
		for _, qt := range qTokens {
			f := float64(tf[qt])
			if f == 0 {
				continue
			}
			df := float64(idx.docFreq[qt])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			denom := f + bm25K1*(1-bm25B+bm25B*dl/idx.avgDocLen)
			score += idf * (f * (bm25K1 + 1)) / denom
		}
		scores[i] = score
	}
	return topK(idx.docs, scores, k)
}

func topK(docs []Document, scores []float64, k int) []ScoredDoc {
	out := make([]ScoredDoc, len(docs))
	for i, d := range docs {
		out[i] = ScoredDoc{Doc: d, Score: scores[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if k > 0 && k < len(out) {
		out = out[:k]
	}
	return out
}

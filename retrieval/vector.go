package retrieval

import (
	"gonum.org/v1/gonum/floats"
)

// embedDim is the fixed dimensionality of the hashing bag-of-words stand-in
// embedding. Real embedding generation is out of scope (spec §1); this keeps
// the vector index's interface and fusion math exercised without one.
const embedDim = 256

// Embed produces a deterministic embedding for text: each token hashes into
// one of embedDim buckets, counts accumulate, and the result is L2-normalized
// so cosine similarity behaves the way it would against a real embedder.
func Embed(text string) []float64 {
	vec := make([]float64, embedDim)
	for _, tok := range tokenize(text) {
		vec[fnv32(tok)] += 1
	}
	norm := floats.Norm(vec, 2)
	if norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}

func fnv32(tok string) int {
	var h uint32 = 2166136261
	for i := 0; i < len(tok); i++ {
		h ^= uint32(tok[i])
		h *= 16777619
	}
	return int(h % embedDim)
}

// CosineSimilarity computes cosine similarity between two vectors using
// gonum's dot-product and norm primitives, per the vector-math grounding.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// VectorIndex holds precomputed embeddings for a document set.
type VectorIndex struct {
	docs       []Document
	embeddings [][]float64
}

// NewVectorIndex embeds every document's content up front.
func NewVectorIndex(docs []Document) *VectorIndex {
	idx := &VectorIndex{docs: docs, embeddings: make([][]float64, len(docs))}
	for i, d := range docs {
		idx.embeddings[i] = Embed(d.Content)
	}
	return idx
}

// Size returns the number of indexed documents.
func (idx *VectorIndex) Size() int { return len(idx.docs) }

// Search ranks all documents by cosine similarity to the query's embedding
// and returns the top k (k<=0 returns every document, ranked).
func (idx *VectorIndex) Search(query string, k int) []ScoredDoc {
	q := Embed(query)
	scores := make([]float64, len(idx.docs))
	for i, e := range idx.embeddings {
		scores[i] = CosineSimilarity(q, e)
	}
	return topK(idx.docs, scores, k)
}

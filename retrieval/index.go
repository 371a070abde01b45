package retrieval

// Capability is the retrieval surface spec §6 exposes externally: index size
// introspection, fused search, raw BM25 search, and embedding generation.
type Capability interface {
	IndexSize() int
	Search(query string, k int) []FusedResult
	BM25Search(query string, k int) []ScoredDoc
	Embed(text string) []float64
}

// Index is the in-memory hybrid retrieval core: a BM25 index and a vector
// index built over the same document set, fused per query with the default
// weights.
type Index struct {
	bm25    *BM25Index
	vector  *VectorIndex
	weights FusionWeights
}

// NewIndex builds both sub-indexes over docs, fusing with weights. Callers
// that don't need a project-specific split can pass DefaultFusionWeights().
func NewIndex(docs []Document, weights FusionWeights) *Index {
	return &Index{
		bm25:    NewBM25Index(docs),
		vector:  NewVectorIndex(docs),
		weights: weights,
	}
}

// IndexSize returns the number of indexed documents.
func (idx *Index) IndexSize() int { return idx.bm25.Size() }

// Embed exposes the deterministic embedding function the vector index was
// built with, for query-side embedding outside of Search.
func (idx *Index) Embed(text string) []float64 { return Embed(text) }

// BM25Search exposes the raw, unfused lexical ranking.
func (idx *Index) BM25Search(query string, k int) []ScoredDoc {
	return idx.bm25.Search(ExpandQuery(query), k)
}

// Search runs the full hybrid pipeline per spec §4.9: query expansion, an
// expanded top-k call against both sub-indexes, and score fusion.
func (idx *Index) Search(query string, k int) []FusedResult {
	expanded := ExpandQuery(query)

	maxSize := idx.bm25.Size()
	if idx.vector.Size() > maxSize {
		maxSize = idx.vector.Size()
	}
	expandedK := 3 * k
	if expandedK > maxSize {
		expandedK = maxSize
	}

	bm25Results := idx.bm25.Search(expanded, expandedK)
	vectorResults := idx.vector.Search(expanded, expandedK)

	fused := Fuse(bm25Results, vectorResults, idx.weights)
	if k > 0 && k < len(fused) {
		fused = fused[:k]
	}
	return fused
}

// Package retrieval implements the hybrid BM25+vector search core used to
// pre-seed and augment the debugging session's knowledge base: a lexical
// index, a local vector index, weighted score fusion, query expansion, and
// root-cause/grouping heuristics over a project's indexed files.
package retrieval

import (
	"regexp"
	"strings"
)

// Document is one unit of the retrieval index — typically a single file's
// content, identified by a stable ID and its project-relative path.
type Document struct {
	ID       string
	FilePath string
	Content  string
}

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

// tokenize lowercases and splits text into word/identifier tokens, shared by
// the BM25 index, the embedding hash, and the root-cause token matcher.
func tokenize(s string) []string {
	return tokenPattern.FindAllString(strings.ToLower(s), -1)
}

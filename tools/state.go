package tools

import "time"

// FileState is the resolution table described in the file-state component:
// a requested name maps to an on-disk path through file_mappings, falling
// back to the primary error file or the first discovered file.
type FileState struct {
	DiscoveredFiles  []string
	PrimaryErrorFile string
	FileMappings     map[string]string
	WorkingDirectory string
}

// CachedFile is one entry of the files_read cache.
type CachedFile struct {
	Content  string
	ReadStep int
}

// SearchCacheEntry is one entry of the search_results cache, keyed by
// "pattern:sorted_extensions:max_results".
type SearchCacheEntry struct {
	Results       []SearchMatch
	FilesSearched int
	SampledFiles  []SampledFile
	Timestamp     time.Time
}

// SampledFile is the mtime/size snapshot used to invalidate a search cache
// entry without rescanning every file.
type SampledFile struct {
	Path  string
	MTime time.Time
	Size  int64
}

// SearchMatch is one hit from search_file_content.
type SearchMatch struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Content string `json:"content"`
}

// StructureSnapshot is the cached result of get_file_structure.
type StructureSnapshot struct {
	TreeStructure      string
	FlatFiles          []string
	TotalFiles         int
	RelevantFiles      int
	CodeFiles          int
	RelevantExtensions []string
	ProjectRoot        string
	MaxDepth           int
	IncludedHidden     bool
	CachedAt           time.Time
}

// ExecutionState is the per-step read-only view the orchestrator hands the
// registry before dispatch. Tools never mutate it directly — any cache-worthy
// observation is returned through CacheUpdate for the orchestrator to apply.
type ExecutionState struct {
	StepNo     int
	FileState  FileState
	FilesRead  map[string]CachedFile
	Search     map[string]SearchCacheEntry
	Structure  *StructureSnapshot
	Denylist   []string
	SearchTTL  time.Duration
	DiagTimeout time.Duration
}

// CacheUpdate carries fresh observations a tool made during one Execute
// call, to be folded into the authoritative knowledge base afterward.
type CacheUpdate struct {
	FileRead        *FileReadUpdate
	Structure       *StructureSnapshot
	SearchKey       string
	SearchEntry     *SearchCacheEntry
	DiscoveredFiles []string
}

// FileReadUpdate records a freshly read file for the files_read cache.
type FileReadUpdate struct {
	Path    string
	Content string
}

// ResolveFile implements the ordered rules of §4.6: file_mappings, then a
// cwd-relative existence check, then the primary error file, then the first
// discovered file, then a passthrough. Exported so the orchestrator can
// perform the same resolution outside a tool dispatch (e.g. for dedup
// signature normalization).
func ResolveFile(fs FileState, requested string) string {
	return resolveFile(fs, requested)
}

func resolveFile(fs FileState, requested string) string {
	if fs.FileMappings != nil {
		if actual, ok := fs.FileMappings[requested]; ok {
			return actual
		}
	}
	if fileExists(fs.WorkingDirectory, requested) {
		return requested
	}
	if fs.PrimaryErrorFile != "" {
		return fs.PrimaryErrorFile
	}
	if len(fs.DiscoveredFiles) > 0 {
		return fs.DiscoveredFiles[0]
	}
	return requested
}

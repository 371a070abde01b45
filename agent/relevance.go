package agent

import (
	"path/filepath"

	"github.com/kaiho/aidebug/tools"
)

// IsRelevant reports whether a discovered file belongs in the seeded
// flat_files list, per spec §4.8. It delegates to the tool layer's
// get_file_structure scan filter so seeding and live tool calls apply
// identical relevance rules. path is relative to the project root; depth
// counts path components (a root-level file has depth 1).
func IsRelevant(path string, depth int, size int64) bool {
	return tools.IsRelevantFile(path, filepath.Base(path), size, depth)
}

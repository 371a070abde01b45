package tools

import (
	"path/filepath"
	"strings"
)

// codeExtensions is the recognized-source-file set used both for the
// is_code_file listing flag and the §4.8 relevance filter.
var codeExtensions = map[string]bool{
	"py": true, "js": true, "ts": true, "jsx": true, "tsx": true,
	"java": true, "cpp": true, "c": true, "rb": true, "go": true,
	"rs": true, "php": true, "swift": true, "kt": true, "cs": true,
}

func isCodeExtension(ext string) bool {
	return codeExtensions[ext]
}

var configExtensions = map[string]bool{
	"yaml": true, "yml": true, "env": true, "toml": true,
	"ini": true, "cfg": true, "conf": true,
}

var relevantNameMarkers = []string{"requirements", "dockerfile", "makefile"}

// IsRelevantFile filters the structure scan down to files worth surfacing to
// the planner, per spec §4.8. relPath is slash-separated and relative to the
// scan root; depth counts path components (a root-level file has depth 1).
func IsRelevantFile(relPath, name string, size int64, depth int) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	lowerName := strings.ToLower(name)

	if isCodeExtension(ext) {
		return true
	}
	if lowerName == "package.json" && !strings.Contains(relPath, "node_modules/") {
		return true
	}
	if lowerName == "package-lock.json" {
		return true
	}
	if configExtensions[ext] {
		return true
	}
	if ext == "md" && depth <= 1 {
		return true
	}
	for _, marker := range relevantNameMarkers {
		if strings.Contains(lowerName, marker) {
			return true
		}
	}
	if strings.HasPrefix(name, ".") && size < 5000 {
		return true
	}
	if depth <= 1 && size < 1000 {
		return true
	}
	return false
}

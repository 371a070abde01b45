package retrieval

import "regexp"

var (
	errorPatternRe  = regexp.MustCompile(`(?i)\b(error|exception|failed|cannot|undefined|null)\b[^\n]*`)
	stackFrameRe    = regexp.MustCompile(`(?i)\bat\s+([\w./\\:$-]+)`)
	codeFilenameRe  = regexp.MustCompile(`\b[\w\-./]+\.(?:go|py|js|ts|jsx|tsx|java|cpp|c|rb|rs|php|swift|kt|cs)\b`)
	functionCallRe  = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	importTargetRe  = regexp.MustCompile(`(?i)\b(?:import|require)\s*\(?\s*['"]?([\w./\-]+)['"]?`)
)

// ExpandQuery enhances a raw query by appending captures from error patterns
// and code patterns, per spec §4.9's query preparation step, before the
// result is handed to the BM25/embedding preprocessors.
func ExpandQuery(raw string) string {
	expanded := raw
	for _, m := range errorPatternRe.FindAllString(raw, -1) {
		expanded += " " + m
	}
	for _, m := range stackFrameRe.FindAllStringSubmatch(raw, -1) {
		expanded += " " + m[1]
	}
	for _, m := range codeFilenameRe.FindAllString(raw, -1) {
		expanded += " " + m
	}
	for _, m := range functionCallRe.FindAllStringSubmatch(raw, -1) {
		expanded += " " + m[1]
	}
	for _, m := range importTargetRe.FindAllStringSubmatch(raw, -1) {
		expanded += " " + m[1]
	}
	return expanded
}

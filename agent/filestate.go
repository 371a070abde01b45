package agent

import (
	"path/filepath"
	"strings"
)

// BuildFileMappings derives file_state.file_mappings by taking each
// traceback-mentioned file's basename and finding a discovered file that
// either equals the basename or contains the basename's stem, per spec §4.6.
func BuildFileMappings(ctx *AgentContext, tracebackFiles, discovered []string) {
	for _, ref := range tracebackFiles {
		base := filepath.Base(ref)
		stem := strings.TrimSuffix(base, filepath.Ext(base))

		for _, d := range discovered {
			dBase := filepath.Base(d)
			if dBase == base || strings.Contains(dBase, stem) {
				ctx.SetFileMapping(base, d)
				break
			}
		}
	}
}

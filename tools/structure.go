package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type structureInput struct {
	MaxDepth      int  `json:"max_depth,omitempty" jsonschema_description:"Maximum traversal depth, default 3."`
	IncludeHidden bool `json:"include_hidden,omitempty" jsonschema_description:"Whether to include dotfiles and dot-directories."`
}

const defaultStructureDepth = 3

func structureTool(_ context.Context, r *Registry, input json.RawMessage) (Result, error) {
	params, err := parseInput[structureInput](input)
	if err != nil {
		return Result{}, err
	}
	maxDepth := params.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultStructureDepth
	}

	if c := r.state.Structure; c != nil && c.MaxDepth >= maxDepth && (c.IncludedHidden || !params.IncludeHidden) {
		return Result{Status: StatusSuccess, Payload: map[string]any{
			"tree":       c.TreeStructure,
			"flat_files": c.FlatFiles,
			"metadata": map[string]any{
				"total_files":         c.TotalFiles,
				"relevant_files":      c.RelevantFiles,
				"code_files":          c.CodeFiles,
				"relevant_extensions": c.RelevantExtensions,
				"project_root":        c.ProjectRoot,
			},
			"from_cache": true,
		}}, nil
	}

	snapshot, err := scanStructure(r.workDir, maxDepth, params.IncludeHidden)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}
	r.lastUpdate.Structure = snapshot

	return Result{Status: StatusSuccess, Payload: map[string]any{
		"tree":       snapshot.TreeStructure,
		"flat_files": snapshot.FlatFiles,
		"metadata": map[string]any{
			"total_files":         snapshot.TotalFiles,
			"relevant_files":      snapshot.RelevantFiles,
			"code_files":          snapshot.CodeFiles,
			"relevant_extensions": snapshot.RelevantExtensions,
			"project_root":        snapshot.ProjectRoot,
		},
		"from_cache": false,
	}}, nil
}

// ScanStructure walks root to the given depth and returns a structure
// snapshot, exported for use by knowledge-base seeding outside a tool
// dispatch.
func ScanStructure(root string, maxDepth int, includeHidden bool) (*StructureSnapshot, error) {
	return scanStructure(root, maxDepth, includeHidden)
}

func scanStructure(root string, maxDepth int, includeHidden bool) (*StructureSnapshot, error) {
	var flat []string
	var lines []string
	extSeen := map[string]bool{}
	totalFiles, relevantFiles, codeFiles := 0, 0, 0

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if path == root {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		depth := len(strings.Split(rel, "/"))

		if d.IsDir() {
			if shouldSkipDir(d.Name()) || (!includeHidden && strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			if depth > maxDepth {
				return filepath.SkipDir
			}
			lines = append(lines, strings.Repeat("  ", depth-1)+d.Name()+"/")
			return nil
		}
		if depth > maxDepth+1 {
			return nil
		}
		if !includeHidden && strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		info, err := d.Info()
		size := int64(0)
		if err == nil {
			size = info.Size()
		}

		totalFiles++
		lines = append(lines, fmt.Sprintf("%s%s (%s)", strings.Repeat("  ", depth-1), d.Name(), formatSize(size)))

		if IsRelevantFile(rel, d.Name(), size, depth) {
			relevantFiles++
			flat = append(flat, rel)
		}
		ext := strings.TrimPrefix(filepath.Ext(d.Name()), ".")
		if isCodeExtension(ext) {
			codeFiles++
			extSeen[ext] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	exts := make([]string, 0, len(extSeen))
	for e := range extSeen {
		exts = append(exts, e)
	}
	sort.Strings(exts)

	return &StructureSnapshot{
		TreeStructure:      strings.Join(lines, "\n"),
		FlatFiles:          flat,
		TotalFiles:         totalFiles,
		RelevantFiles:      relevantFiles,
		CodeFiles:          codeFiles,
		RelevantExtensions: exts,
		ProjectRoot:        root,
		MaxDepth:           maxDepth,
		IncludedHidden:     includeHidden,
		CachedAt:           time.Now(),
	}, nil
}

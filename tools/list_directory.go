package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type listDirectoryInput struct {
	DirectoryPath string `json:"directory_path,omitempty" jsonschema_description:"Directory to list, resolved relative to the working directory. Defaults to the working directory root."`
}

// DirEntry is one listing row returned by list_directory_contents.
type DirEntry struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsHidden     bool   `json:"isHidden"`
	Path         string `json:"path"`
	SizeBytes    int64  `json:"size_bytes"`
	SizeFormatted string `json:"size_formatted"`
	Extension    string `json:"extension,omitempty"`
	IsCodeFile   bool   `json:"is_code_file"`
	Depth        int    `json:"depth"`
}

func listDirectoryTool(_ context.Context, r *Registry, input json.RawMessage) (Result, error) {
	params, err := parseInput[listDirectoryInput](input)
	if err != nil {
		return Result{}, err
	}

	dir := r.workDir
	depth := 0
	if params.DirectoryPath != "" {
		abs, err := ValidatePath(r.workDir, params.DirectoryPath)
		if err != nil {
			return Result{Status: StatusError, Message: err.Error()}, nil
		}
		dir = abs
		depth = len(strings.Split(filepath.ToSlash(params.DirectoryPath), "/"))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{Status: StatusError, Message: "directory not found: " + err.Error()}, nil
	}

	rows := make([]DirEntry, 0, len(entries))
	var discovered []string
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		name := e.Name()
		rel := filepath.ToSlash(filepath.Join(strings.TrimPrefix(dir, r.workDir), name))
		rel = strings.TrimPrefix(rel, "/")

		row := DirEntry{
			Name:      name,
			IsHidden:  strings.HasPrefix(name, "."),
			Path:      rel,
			Depth:     depth,
			SizeBytes: info.Size(),
		}
		if e.IsDir() {
			row.Type = "directory"
			if shouldSkipDir(name) {
				continue
			}
		} else {
			row.Type = "file"
			row.Extension = strings.TrimPrefix(filepath.Ext(name), ".")
			row.IsCodeFile = isCodeExtension(row.Extension)
			discovered = append(discovered, rel)
		}
		row.SizeFormatted = formatSize(row.SizeBytes)
		rows = append(rows, row)
	}

	r.lastUpdate.DiscoveredFiles = discovered

	payload := map[string]any{"entries": rows}
	return Result{Status: StatusSuccess, Payload: payload}, nil
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type readFileInput struct {
	FilePath  string `json:"file_path" jsonschema_description:"File to read, resolved through the file-state mapping."`
	StartLine int    `json:"start_line,omitempty" jsonschema_description:"First line to read, 1-indexed."`
	EndLine   int    `json:"end_line,omitempty" jsonschema_description:"Last line to read, inclusive."`
}

func readFileTool(_ context.Context, r *Registry, input json.RawMessage) (Result, error) {
	params, err := parseInput[readFileInput](input)
	if err != nil {
		return Result{}, err
	}
	if params.FilePath == "" {
		return Result{Status: StatusError, Message: "file_path is required"}, nil
	}

	resolved := resolveFile(r.state.FileState, params.FilePath)

	// Serve from the files_read cache if this path was read within the
	// last 3 steps and nothing invalidated it.
	if cached, ok := r.state.FilesRead[resolved]; ok && r.state.StepNo-cached.ReadStep <= 3 {
		content := sliceLines(cached.Content, params.StartLine, params.EndLine)
		return Result{Status: StatusSuccess, Payload: map[string]any{
			"file_path": resolved, "content": content, "from_cache": true,
		}}, nil
	}

	abs, err := ValidatePath(r.workDir, resolved)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Result{Status: StatusError, Message: fmt.Sprintf("File not found: %s", resolved)}, nil
	}
	full := string(data)

	r.lastUpdate.FileRead = &FileReadUpdate{Path: resolved, Content: full}

	content := sliceLines(full, params.StartLine, params.EndLine)
	return Result{Status: StatusSuccess, Payload: map[string]any{
		"file_path": resolved, "content": content, "from_cache": false,
	}}, nil
}

// sliceLines returns the full content when no range is given, or the
// 1-indexed inclusive [start, end] line range otherwise.
func sliceLines(content string, start, end int) string {
	if start <= 0 && end <= 0 {
		return content
	}
	if start <= 0 {
		start = 1
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 256*1024), 256*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum < start {
			continue
		}
		if end > 0 && lineNum > end {
			break
		}
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	return sb.String()
}

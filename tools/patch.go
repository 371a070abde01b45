package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// patchChange is one structured line edit the planner proposes.
type patchChange struct {
	LineNumber int    `json:"line_number" jsonschema_description:"1-indexed line the change anchors to."`
	Action     string `json:"action" jsonschema_description:"One of replace, insert, delete."`
	OldContent string `json:"old_content,omitempty" jsonschema_description:"Expected current content of the line, for replace/delete."`
	NewContent string `json:"new_content,omitempty" jsonschema_description:"Replacement or inserted content."`
}

type patchInput struct {
	FilePath         string        `json:"file_path" jsonschema_description:"File to patch, resolved through the file-state mapping."`
	PatchContent     []patchChange `json:"patch_content" jsonschema_description:"Ordered set of line-level edits to apply."`
	PatchDescription string        `json:"patch_description,omitempty" jsonschema_description:"Short rationale shown to the user alongside the diff."`
}

func patchTool(_ context.Context, r *Registry, input json.RawMessage) (Result, error) {
	params, err := parseInput[patchInput](input)
	if err != nil {
		return Result{}, err
	}
	if params.FilePath == "" {
		return Result{Status: StatusError, Message: "file_path is required"}, nil
	}
	if len(params.PatchContent) == 0 {
		return Result{Status: StatusError, Message: "patch_content must not be empty"}, nil
	}

	resolved := resolveFile(r.state.FileState, params.FilePath)
	abs, err := ValidatePath(r.workDir, resolved)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return Result{Status: StatusError, Message: fmt.Sprintf("File not found: %s", resolved)}, nil
	}
	oldContent := string(data)

	newContent, err := applyPatchChanges(oldContent, params.PatchContent)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}

	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: resolved,
		ToFile:   resolved,
		Context:  3,
	})
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}

	r.ui.DisplayDiff(resolved, oldContent, newContent)
	prompt := fmt.Sprintf("Apply this patch to %s?", resolved)
	if params.PatchDescription != "" {
		prompt = params.PatchDescription + "\n" + prompt
	}
	if !r.ui.ConfirmAction(prompt) {
		return Result{Status: StatusSuccess, Payload: map[string]any{
			"diff": unified, "user_confirmation": false, "patch_applied": false,
		}}, nil
	}

	if err := AtomicWrite(abs, []byte(newContent), 0644); err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}
	r.lastUpdate.FileRead = &FileReadUpdate{Path: resolved, Content: newContent}

	return Result{Status: StatusSuccess, Payload: map[string]any{
		"diff": unified, "user_confirmation": true, "patch_applied": true,
	}}, nil
}

// applyPatchChanges applies changes in descending line-number order so that
// inserts and deletes earlier in the list don't shift later line numbers.
func applyPatchChanges(content string, changes []patchChange) (string, error) {
	lines := strings.Split(content, "\n")
	ordered := append([]patchChange(nil), changes...)
	sortChangesDescending(ordered)

	for _, c := range ordered {
		idx := c.LineNumber - 1
		switch c.Action {
		case "replace":
			if idx < 0 || idx >= len(lines) {
				return "", fmt.Errorf("line %d out of range", c.LineNumber)
			}
			lines[idx] = c.NewContent
		case "delete":
			if idx < 0 || idx >= len(lines) {
				return "", fmt.Errorf("line %d out of range", c.LineNumber)
			}
			lines = append(lines[:idx], lines[idx+1:]...)
		case "insert":
			if idx < 0 || idx > len(lines) {
				return "", fmt.Errorf("line %d out of range", c.LineNumber)
			}
			lines = append(lines[:idx], append([]string{c.NewContent}, lines[idx:]...)...)
		default:
			return "", fmt.Errorf("unknown change action %q", c.Action)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func sortChangesDescending(changes []patchChange) {
	for i := 1; i < len(changes); i++ {
		for j := i; j > 0 && changes[j-1].LineNumber < changes[j].LineNumber; j-- {
			changes[j-1], changes[j] = changes[j], changes[j-1]
		}
	}
}

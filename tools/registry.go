// Package tools provides the closed catalog of capabilities the debugging
// planner may invoke: directory listing, file reads, diagnostic commands,
// content search, structure scans, patch proposals, and user prompts.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Status values a tool Result may carry.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusFinished = "finished"
	StatusSkipped  = "skipped"
)

// Result is the structured outcome of a tool invocation.
type Result struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ToolFunc is the signature every catalog entry implements.
type ToolFunc func(ctx context.Context, r *Registry, input json.RawMessage) (Result, error)

type toolEntry struct {
	name        string
	fn          ToolFunc
	description string
	schema      json.RawMessage
}

// Registry holds the fixed tool catalog and the per-step execution state
// (file resolution table, caches) the orchestrator refreshes before each
// dispatch.
type Registry struct {
	tools      []toolEntry
	workDir    string
	state      ExecutionState
	lastUpdate CacheUpdate
	subprocess Subprocess
	ui         UI
}

// NewRegistry builds the closed tool catalog rooted at workDir.
func NewRegistry(workDir string, subprocess Subprocess, ui UI) *Registry {
	r := &Registry{workDir: workDir, subprocess: subprocess, ui: ui}
	r.registerBuiltins()
	return r
}

func (r *Registry) register(name, description string, sample any, fn ToolFunc) {
	r.tools = append(r.tools, toolEntry{
		name:        name,
		fn:          fn,
		description: description,
		schema:      schemaFor(sample),
	})
}

// schemaFor reflects a JSON Schema for the given zero-value sample struct.
func schemaFor(sample any) json.RawMessage {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.ReflectFromType(reflect.TypeOf(sample))
	data, err := json.Marshal(schema)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

// SetState refreshes the file-resolution and cache view the next dispatch
// will see. The orchestrator calls this once per step before Execute.
func (r *Registry) SetState(state ExecutionState) {
	r.state = state
	r.lastUpdate = CacheUpdate{}
}

// LastCacheUpdate returns any cache writes produced by the most recent
// Execute call, for the orchestrator to fold back into the authoritative
// knowledge base.
func (r *Registry) LastCacheUpdate() CacheUpdate {
	return r.lastUpdate
}

// Execute dispatches to a catalog tool by name. A panic inside the tool is
// recovered and returned as an error carrying the panic value.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (res Result, err error) {
	for _, t := range r.tools {
		if t.name == name {
			defer func() {
				if p := recover(); p != nil {
					res, err = Result{}, fmt.Errorf("tool %s panicked: %v", name, p)
				}
			}()
			return t.fn(ctx, r, input)
		}
	}
	return Result{}, fmt.Errorf("unknown tool: %s", name)
}

// Names returns the catalog's tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.name
	}
	return names
}

// Has reports whether a tool name is in the closed catalog.
func (r *Registry) Has(name string) bool {
	for _, t := range r.tools {
		if t.name == name {
			return true
		}
	}
	return false
}

// ToolDescriptor mirrors the catalog entry shape exposed to the planner
// prompt (§3 AvailableTools).
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Descriptors returns the catalog in the shape carried on AgentContext.
func (r *Registry) Descriptors() []ToolDescriptor {
	out := make([]ToolDescriptor, len(r.tools))
	for i, t := range r.tools {
		out[i] = ToolDescriptor{Name: t.name, Description: t.description, Parameters: t.schema}
	}
	return out
}

func (r *Registry) registerBuiltins() {
	r.register("list_directory_contents",
		"List the contents of a directory, resolved relative to the working directory. Returns name, type, hidden flag, size, extension, and whether each entry looks like source code.",
		listDirectoryInput{}, listDirectoryTool)

	r.register("read_file_content",
		"Read a file's content, or an inclusive line range. The path is resolved through the file-state mapping before falling back to a literal relative path.",
		readFileInput{}, readFileTool)

	r.register("run_diagnostic_command",
		"Run a read-only shell command to gather diagnostic output (tests, linters, version checks). Destructive commands are rejected.",
		diagnosticInput{}, diagnosticTool)

	r.register("search_file_content",
		"Case-insensitive substring search over files with matching extensions, depth-limited and excluding hidden/node_modules directories.",
		searchInput{}, searchTool)

	r.register("get_file_structure",
		"Return a depth-limited tree of the project alongside per-file sizes and relevance metadata.",
		structureInput{}, structureTool)

	r.register("propose_code_patch",
		"Propose a structured set of line edits to a file as a unified diff, and apply it only after the user confirms.",
		patchInput{}, patchTool)

	r.register("propose_fix_by_command",
		"Propose a shell command as the fix, and run it only after the user confirms.",
		fixCommandInput{}, fixCommandTool)

	r.register("ask_user_for_clarification",
		"Ask the user a direct question and block until they answer.",
		clarifyInput{}, clarifyTool)

	r.register("finish_debugging",
		"End the debugging session with a final status and a message for the user.",
		finishInput{}, finishTool)
}

// Package agent implements the debugging orchestrator: the state machine
// that plans, dispatches, and accounts for tool invocations against a
// bounded working-memory context, with an error-evolution engine tracking
// which error currently blocks progress.
package agent

import (
	"time"

	"github.com/kaiho/aidebug/tools"
)

// CommandRun captures the initial failing command, verbatim, at session start.
type CommandRun struct {
	CommandString string `json:"command_string"`
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	ExitCode      int    `json:"exit_code"`
}

// ActionTaken is the tool invocation recorded on a Step.
type ActionTaken struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

// Step is one append-only entry of session_history.
type Step struct {
	StepNo      int            `json:"step_no"`
	Thought     string         `json:"thought"`
	ActionTaken ActionTaken    `json:"action_taken"`
	Result      tools.Result   `json:"result"`
}

// RecentAction is one entry of the bounded deduplication window.
type RecentAction struct {
	Signature string       `json:"signature"`
	StepNo    int          `json:"step_no"`
	Tool      string       `json:"tool"`
	Parameters map[string]any `json:"parameters"`
	Result    tools.Result `json:"result"`
}

// SolvedIssue is a previously blocking error that has since disappeared.
type SolvedIssue struct {
	BlockingError  BlockingError `json:"blocking_error"`
	ResolutionStep int           `json:"resolution_step"`
	ResolvedAt     time.Time     `json:"resolved_at"`
}

// BlockingError is the single current error the agent may focus on.
type BlockingError struct {
	Type          string   `json:"type"`
	Message       string   `json:"message"`
	FileRefs      []string `json:"file_refs"`
	LineRefs      []int    `json:"line_refs"`
	RawOutput     string   `json:"raw_output"`
	FirstSeenStep int      `json:"first_seen_step"`
	LastSeenStep  int      `json:"last_seen_step"`
	Status        string   `json:"status"`
}

// ErrorProgressionEntry is one chronological ledger entry of error observations.
type ErrorProgressionEntry struct {
	Step          int            `json:"step"`
	ErrorDetected *BlockingError `json:"error_detected"`
	PreviousError *BlockingError `json:"previous_error"`
	Timestamp     time.Time      `json:"timestamp"`
}

// ErrorAnalysisNote is one typed note record written during seeding or
// error-evolution analysis.
type ErrorAnalysisNote struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SearchResultEntry is the cached outcome of one search_file_content call.
type SearchResultEntry struct {
	Results       []tools.SearchMatch `json:"results"`
	FilesSearched int                 `json:"files_searched"`
	SampledFiles  []tools.SampledFile `json:"searched_files_metadata"`
	Timestamp     time.Time           `json:"timestamp"`
}

// FileMetadata is the per-file mtime/size observation used for cache
// invalidation outside the search-specific cache.
type FileMetadata struct {
	MTime       time.Time `json:"mtime"`
	Size        int64     `json:"size"`
	LastChecked time.Time `json:"last_checked"`
}

// KnowledgeBase is the bounded cache layer of the context.
type KnowledgeBase struct {
	FilesRead          map[string]string              `json:"files_read"`
	FileStructure       *tools.StructureSnapshot        `json:"file_structure"`
	SearchResults       map[string]SearchResultEntry    `json:"search_results"`
	FileMetadata         map[string]FileMetadata         `json:"file_metadata"`
	ErrorAnalysisNotes   []ErrorAnalysisNote             `json:"error_analysis_notes"`
}

// Constraints bounds what the orchestrator permits during a session.
type Constraints struct {
	MaxSessionSteps          int  `json:"max_session_steps"`
	AllowedFileModifications bool `json:"allowed_file_modifications"`
	AllowedCommandExecution  bool `json:"allowed_command_execution"`
}

// AgentContext is the single authoritative session value. All mutation goes
// through its methods below; no exported field should be written directly
// from outside this package.
type AgentContext struct {
	InitialUserRequest     string                   `json:"initial_user_request"`
	InitialCommandRun      CommandRun               `json:"initial_command_run"`
	CurrentWorkingDirectory string                  `json:"current_working_directory"`
	SessionHistory         []Step                   `json:"session_history"`
	RecentActions          []RecentAction           `json:"recent_actions"`
	SolvedIssues           []SolvedIssue            `json:"solved_issues"`
	CurrentBlockingError   *BlockingError           `json:"current_blocking_error"`
	ErrorProgression       []ErrorProgressionEntry  `json:"error_progression"`
	KnowledgeBase          KnowledgeBase            `json:"knowledge_base"`
	FileState              tools.FileState          `json:"file_state"`
	AvailableTools         []tools.ToolDescriptor   `json:"available_tools"`
	Constraints            Constraints              `json:"constraints"`

	// recentActionsCap bounds recent_actions; defaults to maxRecentActions
	// and is overridden by SetRecentActionsCap once a TuningConfig is known.
	recentActionsCap int
}

const (
	maxRecentActions     = 10
	maxErrorProgression  = 10
)

// NewAgentContext constructs the authoritative session value at session
// start, per spec's lifecycle: created from (user_request, command_details, cwd).
func NewAgentContext(userRequest string, cmd CommandRun, cwd string, availableTools []tools.ToolDescriptor) *AgentContext {
	return &AgentContext{
		InitialUserRequest:      userRequest,
		InitialCommandRun:       cmd,
		CurrentWorkingDirectory: cwd,
		KnowledgeBase: KnowledgeBase{
			FilesRead:    make(map[string]string),
			SearchResults: make(map[string]SearchResultEntry),
			FileMetadata:  make(map[string]FileMetadata),
		},
		FileState: tools.FileState{
			WorkingDirectory: cwd,
			FileMappings:     make(map[string]string),
		},
		AvailableTools: availableTools,
		Constraints: Constraints{
			MaxSessionSteps:          20,
			AllowedFileModifications: true,
			AllowedCommandExecution:  true,
		},
		recentActionsCap: maxRecentActions,
	}
}

// SetRecentActionsCap overrides the recent_actions window size (default 10),
// per a project's configured TuningConfig.MaxRecentActions.
func (c *AgentContext) SetRecentActionsCap(n int) {
	if n > 0 {
		c.recentActionsCap = n
	}
}

// AppendStep appends exactly one session_history entry and exactly one
// recent_actions entry, per the invariant linking the two sequences.
func (c *AgentContext) AppendStep(step Step, signature string) {
	c.SessionHistory = append(c.SessionHistory, step)
	c.RecordRecentAction(RecentAction{
		Signature:  signature,
		StepNo:     step.StepNo,
		Tool:       step.ActionTaken.Tool,
		Parameters: step.ActionTaken.Parameters,
		Result:     step.Result,
	})
}

// RecordRecentAction appends to the bounded deduplication window, evicting
// the oldest entry once the cap is exceeded.
func (c *AgentContext) RecordRecentAction(action RecentAction) {
	c.RecentActions = append(c.RecentActions, action)
	limit := c.recentActionsCap
	if limit <= 0 {
		limit = maxRecentActions
	}
	if len(c.RecentActions) > limit {
		c.RecentActions = c.RecentActions[len(c.RecentActions)-limit:]
	}
}

// InstallCurrentError replaces current_blocking_error. It does not archive
// the previous one; the error-evolution engine calls ArchiveSolved itself
// when archiving applies.
func (c *AgentContext) InstallCurrentError(err *BlockingError) {
	c.CurrentBlockingError = err
}

// ArchiveSolved appends err to solved_issues with its resolution step and
// time. current_blocking_error is left unchanged.
func (c *AgentContext) ArchiveSolved(err BlockingError, resolutionStep int, resolvedAt time.Time) {
	c.SolvedIssues = append(c.SolvedIssues, SolvedIssue{
		BlockingError:  err,
		ResolutionStep: resolutionStep,
		ResolvedAt:     resolvedAt,
	})
}

// AppendProgression appends one ledger entry to error_progression.
func (c *AgentContext) AppendProgression(entry ErrorProgressionEntry) {
	c.ErrorProgression = append(c.ErrorProgression, entry)
}

// EvictOldProgression trims error_progression to its newest
// maxErrorProgression entries. Optimize does not call it: it applies its own
// cfg.MaxErrorProgression cap to its working copy.
func (c *AgentContext) EvictOldProgression() {
	if len(c.ErrorProgression) > maxErrorProgression {
		c.ErrorProgression = c.ErrorProgression[len(c.ErrorProgression)-maxErrorProgression:]
	}
}

// CacheFileRead records a file's content in the files_read cache. Paths must
// already be relative to CurrentWorkingDirectory per the invariant in §3.
func (c *AgentContext) CacheFileRead(relPath, content string) {
	c.KnowledgeBase.FilesRead[relPath] = content
}

// CacheSearchResult stores one search_file_content outcome under its cache key.
func (c *AgentContext) CacheSearchResult(key string, entry SearchResultEntry) {
	c.KnowledgeBase.SearchResults[key] = entry
}

// CacheFileStructure stores the latest get_file_structure scan.
func (c *AgentContext) CacheFileStructure(snap *tools.StructureSnapshot) {
	c.KnowledgeBase.FileStructure = snap
}

// AddDiscoveredFiles merges newly observed files into file_state, keeping
// the slice free of duplicates.
func (c *AgentContext) AddDiscoveredFiles(paths []string) {
	seen := make(map[string]bool, len(c.FileState.DiscoveredFiles))
	for _, p := range c.FileState.DiscoveredFiles {
		seen[p] = true
	}
	for _, p := range paths {
		if !seen[p] {
			c.FileState.DiscoveredFiles = append(c.FileState.DiscoveredFiles, p)
			seen[p] = true
		}
	}
}

// SetFileMapping records a shortName→actualPath entry. Per the invariant,
// callers must only call this when the target exists on disk or already
// appears in discovered_files.
func (c *AgentContext) SetFileMapping(shortName, actualPath string) {
	if c.FileState.FileMappings == nil {
		c.FileState.FileMappings = make(map[string]string)
	}
	c.FileState.FileMappings[shortName] = actualPath
}

// AddNote appends an error_analysis_notes entry.
func (c *AgentContext) AddNote(note ErrorAnalysisNote) {
	c.KnowledgeBase.ErrorAnalysisNotes = append(c.KnowledgeBase.ErrorAnalysisNotes, note)
}

// ConsecutiveFailuresReached reports whether the last `limit` session_history
// entries all carry a result status of "error" — the orchestrator's
// termination check, with the threshold configurable via
// TuningConfig.ConsecutiveFailureLimit.
func (c *AgentContext) ConsecutiveFailuresReached(limit int) bool {
	n := len(c.SessionHistory)
	if limit <= 0 || n < limit {
		return false
	}
	for _, step := range c.SessionHistory[n-limit:] {
		if step.Result.Status != tools.StatusError {
			return false
		}
	}
	return true
}

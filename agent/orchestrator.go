package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaiho/aidebug/llm"
	"github.com/kaiho/aidebug/tools"
)

// TerminalStatus names the reason a session ended, per spec §4.1's state
// machine terminal states.
type TerminalStatus string

const (
	Resolved         TerminalStatus = "resolved"
	GuidanceProvided TerminalStatus = "guidance_provided"
	CannotResolve    TerminalStatus = "cannot_resolve"
	AbortedByUser    TerminalStatus = "aborted_by_user_request"
	StepsExhausted   TerminalStatus = "steps_exhausted"
)

// Outcome is the result of running an Orchestrator to completion.
type Outcome struct {
	Status            TerminalStatus
	ConclusionMessage string
	StepsTaken        int
}

// filePlaceholders covers read_file_content's file_path argument; directory
// placeholders never plausibly look like a bare filename (file.csv, data.csv).
var filePlaceholders = []string{"path/to/data", "path/to/file", "file.csv", "data.csv"}

// directoryPlaceholders covers list_directory_contents' directory_path argument.
var directoryPlaceholders = []string{"path/to/data", "path/to/file"}

// Orchestrator drives the Initialized -> Planning -> Dispatching -> Updating
// -> (Planning | Terminal) loop described in spec §4.1.
type Orchestrator struct {
	ctx      *AgentContext
	planner  llm.Planner
	registry *tools.Registry
	tuning   TuningConfig
	pacing   time.Duration
	log      zerolog.Logger
	observer func(Step)

	now func() time.Time
}

// SetStepObserver registers a callback invoked with each completed Step, for
// a terminal or other UI to render live progress. Optional — the loop runs
// identically without one.
func (o *Orchestrator) SetStepObserver(fn func(Step)) {
	o.observer = fn
}

// NewOrchestrator builds an Orchestrator over an already-seeded context.
// It applies tuning.MaxRecentActions to ctx's recent_actions window.
func NewOrchestrator(ctx *AgentContext, planner llm.Planner, registry *tools.Registry, tuning TuningConfig, log zerolog.Logger) *Orchestrator {
	ctx.SetRecentActionsCap(tuning.MaxRecentActions)
	pacing := tuning.StepDelay
	if pacing <= 0 {
		pacing = 500 * time.Millisecond
	}
	return &Orchestrator{
		ctx:      ctx,
		planner:  planner,
		registry: registry,
		tuning:   tuning,
		pacing:   pacing,
		log:      log,
		now:      time.Now,
	}
}

// Run drives the loop to a terminal state.
func (o *Orchestrator) Run(ctx context.Context) Outcome {
	recoveryAttempted := false

	for step := 1; ; step++ {
		if o.ctx.Constraints.MaxSessionSteps > 0 && step > o.ctx.Constraints.MaxSessionSteps {
			lerr := &LimitReached{Reason: "reached the maximum number of steps without resolving the issue"}
			o.log.Warn().Int("step", step).Err(lerr).Msg("stopping")
			return Outcome{Status: StepsExhausted, ConclusionMessage: lerr.Error() + ".", StepsTaken: step - 1}
		}
		if o.ctx.ConsecutiveFailuresReached(o.tuning.ConsecutiveFailureLimit) {
			lerr := &LimitReached{Reason: "consecutive tool failures; stopping to avoid looping"}
			o.log.Warn().Int("step", step).Err(lerr).Msg("stopping")
			return Outcome{Status: CannotResolve, ConclusionMessage: lerr.Error() + ".", StepsTaken: step - 1}
		}

		optimized := Optimize(o.ctx, o.tuning)
		systemPrompt, userPrompt := AssemblePrompt(optimized, step)

		resp, _, err := o.planner.Plan(ctx, systemPrompt, userPrompt)
		if err != nil {
			perr := &PlannerError{Err: err}
			if recoveryAttempted {
				return Outcome{Status: CannotResolve, ConclusionMessage: "planner failed twice in a row; cannot continue.", StepsTaken: step - 1}
			}
			recoveryAttempted = true
			o.log.Warn().Err(perr).Msg("planner call failed, attempting recovery")
			resp = llm.PlannerResponse{
				Thought:        "planner response was unusable; asking the user how to proceed",
				ToolToUse:      "ask_user_for_clarification",
				ToolParameters: mustMarshal(map[string]any{"question_for_user": "I had trouble deciding on a next step. How would you like me to proceed?"}),
			}
		}

		if verr := validateResponse(resp, o.registry); verr != nil {
			if recoveryAttempted {
				return Outcome{Status: CannotResolve, ConclusionMessage: "planner response failed validation twice in a row; cannot continue.", StepsTaken: step - 1}
			}
			recoveryAttempted = true
			o.log.Warn().Err(verr).Msg("planner response failed validation, attempting recovery")
			resp = llm.PlannerResponse{
				Thought:        "the previous response was invalid; asking the user how to proceed",
				ToolToUse:      "ask_user_for_clarification",
				ToolParameters: mustMarshal(map[string]any{"question_for_user": "My last plan wasn't valid. How would you like me to proceed?"}),
			}
		}

		params, _ := parametersMap(resp.ToolParameters)
		sig := Signature(o.ctx.CurrentWorkingDirectory, resp.ToolToUse, params)

		var result tools.Result
		if dup, found := FindDuplicate(o.ctx, sig, o.tuning.DedupWindowSteps); found {
			result = SkippedResult(dup)
		} else {
			o.registry.SetState(o.buildExecutionState(step))
			res, dispatchErr := o.registry.Execute(ctx, resp.ToolToUse, resp.ToolParameters)
			if dispatchErr != nil {
				terr := &ToolError{Tool: resp.ToolToUse, Message: dispatchErr.Error()}
				res = tools.Result{Status: tools.StatusError, Message: terr.Error()}
				o.log.Warn().Err(terr).Msg("tool dispatch failed")
			} else if res.Status == tools.StatusError {
				o.log.Debug().Err(&ToolError{Tool: resp.ToolToUse, Message: res.Message}).Msg("tool reported an error result")
			}
			result = res
			o.applyCacheUpdate(o.registry.LastCacheUpdate())
		}

		if result.Status == tools.StatusSuccess {
			recoveryAttempted = false
		}

		stepRecord := Step{
			StepNo:  step,
			Thought: resp.Thought,
			ActionTaken: ActionTaken{
				Tool:       resp.ToolToUse,
				Parameters: params,
			},
			Result: result,
		}
		o.ctx.AppendStep(stepRecord, sig)
		if o.observer != nil {
			o.observer(stepRecord)
		}

		if combined, ok := combinedOutputFrom(result); ok {
			UpdateErrorState(o.ctx, combined, step, o.now())
		}

		if result.Status == tools.StatusFinished {
			return o.terminalFromFinish(result, step)
		}

		select {
		case <-ctx.Done():
			uerr := &UserAbort{Reason: "interrupted"}
			o.log.Warn().Err(uerr).Msg("session aborted")
			return Outcome{Status: AbortedByUser, ConclusionMessage: uerr.Error() + ".", StepsTaken: step}
		case <-time.After(o.pacing):
		}
	}
}

// buildExecutionState snapshots the registry-facing view of the
// authoritative context ahead of one dispatch.
func (o *Orchestrator) buildExecutionState(step int) tools.ExecutionState {
	filesRead := make(map[string]tools.CachedFile, len(o.ctx.KnowledgeBase.FilesRead))
	for path, content := range o.ctx.KnowledgeBase.FilesRead {
		filesRead[path] = tools.CachedFile{Content: content, ReadStep: step}
	}
	search := make(map[string]tools.SearchCacheEntry, len(o.ctx.KnowledgeBase.SearchResults))
	for k, v := range o.ctx.KnowledgeBase.SearchResults {
		search[k] = tools.SearchCacheEntry{
			Results:       v.Results,
			FilesSearched: v.FilesSearched,
			SampledFiles:  v.SampledFiles,
			Timestamp:     v.Timestamp,
		}
	}
	searchTTL := o.tuning.SearchTTL
	if searchTTL <= 0 {
		searchTTL = 5 * time.Minute
	}
	return tools.ExecutionState{
		StepNo:    step,
		FileState: o.ctx.FileState,
		FilesRead: filesRead,
		Search:    search,
		Structure: o.ctx.KnowledgeBase.FileStructure,
		Denylist:  o.tuning.Denylist,
		SearchTTL: searchTTL,
	}
}

// applyCacheUpdate folds a tool dispatch's observations back into the
// authoritative context, per spec §4.1 step 8.
func (o *Orchestrator) applyCacheUpdate(update tools.CacheUpdate) {
	if update.FileRead != nil {
		o.ctx.CacheFileRead(update.FileRead.Path, update.FileRead.Content)
	}
	if update.Structure != nil {
		o.ctx.CacheFileStructure(update.Structure)
	}
	if update.SearchEntry != nil {
		o.ctx.CacheSearchResult(update.SearchKey, SearchResultEntry{
			Results:       update.SearchEntry.Results,
			FilesSearched: update.SearchEntry.FilesSearched,
			SampledFiles:  update.SearchEntry.SampledFiles,
			Timestamp:     update.SearchEntry.Timestamp,
		})
	}
	if len(update.DiscoveredFiles) > 0 {
		o.ctx.AddDiscoveredFiles(update.DiscoveredFiles)
	}
}

// combinedOutputFrom extracts stdout/stderr from a tool result's payload, if
// present, for feeding through the error evolution engine.
func combinedOutputFrom(result tools.Result) (string, bool) {
	if result.Payload == nil {
		return "", false
	}
	stdout, _ := result.Payload["stdout"].(string)
	stderr, _ := result.Payload["stderr"].(string)
	if stdout == "" && stderr == "" {
		return "", false
	}
	return stdout + "\n" + stderr, true
}

// terminalFromFinish maps a finish_debugging result's final_status to the
// orchestrator's TerminalStatus.
func (o *Orchestrator) terminalFromFinish(result tools.Result, step int) Outcome {
	final, _ := result.Payload["final_status"].(string)
	msg, _ := result.Payload["conclusion_message_for_user"].(string)

	status := CannotResolve
	switch final {
	case "resolved":
		status = Resolved
	case "guidance_provided":
		status = GuidanceProvided
	case "cannot_resolve":
		status = CannotResolve
	case "aborted_by_user_request":
		status = AbortedByUser
	}
	return Outcome{Status: status, ConclusionMessage: msg, StepsTaken: step}
}

// validateResponse applies the §6 rejection rules to a raw planner response.
func validateResponse(resp llm.PlannerResponse, registry *tools.Registry) error {
	if resp.ToolToUse == "" {
		return &ValidationError{Reason: "missing tool_to_use"}
	}
	if !registry.Has(resp.ToolToUse) {
		return &ValidationError{Reason: "unknown tool: " + resp.ToolToUse}
	}

	params, err := parametersMap(resp.ToolParameters)
	if err != nil {
		return &ValidationError{Reason: "tool_parameters is not a JSON object"}
	}

	switch resp.ToolToUse {
	case "read_file_content":
		if containsPlaceholder(stringParam(params, "file_path"), filePlaceholders) {
			return &ValidationError{Reason: "file_path looks like a placeholder"}
		}
	case "list_directory_contents":
		if containsPlaceholder(stringParam(params, "directory_path"), directoryPlaceholders) {
			return &ValidationError{Reason: "directory_path looks like a placeholder"}
		}
	}
	return nil
}

func containsPlaceholder(path string, placeholders []string) bool {
	if path == "" {
		return false
	}
	lower := strings.ToLower(path)
	for _, p := range placeholders {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func parametersMap(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

package agent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kaiho/aidebug/llm"
	"github.com/kaiho/aidebug/tools"
)

// fakePlanner returns a scripted sequence of responses, one per call.
type fakePlanner struct {
	responses []llm.PlannerResponse
	errs      []error
	calls     int
}

func (f *fakePlanner) Plan(_ context.Context, _, _ string) (llm.PlannerResponse, llm.Usage, error) {
	i := f.calls
	f.calls++
	var resp llm.PlannerResponse
	var err error
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return resp, llm.Usage{}, err
}

func rawParams(m map[string]any) json.RawMessage {
	data, _ := json.Marshal(m)
	return data
}

func newTestContext(cwd string) *AgentContext {
	return NewAgentContext("fix it", CommandRun{CommandString: "pytest"}, cwd, nil)
}

// fakeUI scripts confirmation/input answers for orchestrator-level tests.
type fakeUI struct {
	confirm bool
	input   string
}

func (f *fakeUI) ConfirmAction(string) bool            { return f.confirm }
func (f *fakeUI) AskInput(string) (string, error)      { return f.input, nil }
func (f *fakeUI) DisplayDiff(string, string, string)   {}
func (f *fakeUI) AskYesNo(string) bool                 { return f.confirm }
func (f *fakeUI) DisplayBlock(string, string)          {}

type fakeSubprocess struct {
	result tools.SubprocessResult
	err    error
}

func (f *fakeSubprocess) Run(context.Context, string, string, time.Duration) (tools.SubprocessResult, error) {
	return f.result, f.err
}

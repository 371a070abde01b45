package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

type diagnosticInput struct {
	CommandString string `json:"command_string" jsonschema_description:"Read-only shell command to run for diagnostics."`
}

const defaultDiagnosticTimeout = 10 * time.Second

// isDenied reports whether command contains any denylisted substring. The
// match is intentionally conservative and substring-based: it blocks any
// command containing e.g. "cp", including "scp".
func isDenied(command string, denylist []string) (string, bool) {
	lower := strings.ToLower(command)
	for _, token := range denylist {
		if strings.Contains(lower, strings.ToLower(token)) {
			return token, true
		}
	}
	return "", false
}

func diagnosticTool(ctx context.Context, r *Registry, input json.RawMessage) (Result, error) {
	params, err := parseInput[diagnosticInput](input)
	if err != nil {
		return Result{}, err
	}
	if params.CommandString == "" {
		return Result{Status: StatusError, Message: "command_string is required"}, nil
	}

	if token, denied := isDenied(params.CommandString, r.state.Denylist); denied {
		return Result{Status: StatusError, Message: "command rejected: contains denylisted token " + token}, nil
	}

	timeout := r.state.DiagTimeout
	if timeout <= 0 {
		timeout = defaultDiagnosticTimeout
	}

	out, err := r.subprocess.Run(ctx, r.workDir, params.CommandString, timeout)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}

	// Subprocess captures combined stdout+stderr into one stream (see
	// ShellSubprocess.Run); stderr is left empty rather than duplicating it,
	// so combinedOutputFrom doesn't feed the same text through error
	// evolution twice.
	payload := map[string]any{
		"stdout":    out.Output,
		"stderr":    "",
		"exit_code": out.ExitCode,
		"timed_out": out.TimedOut,
	}
	return Result{Status: StatusSuccess, Payload: payload}, nil
}

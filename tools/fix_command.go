package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

type fixCommandInput struct {
	CommandToPropose   string `json:"command_to_propose" jsonschema_description:"Shell command that would resolve the blocking error."`
	CommandDescription string `json:"command_description,omitempty" jsonschema_description:"Short rationale shown to the user alongside the command."`
}

func fixCommandTool(ctx context.Context, r *Registry, input json.RawMessage) (Result, error) {
	params, err := parseInput[fixCommandInput](input)
	if err != nil {
		return Result{}, err
	}
	if params.CommandToPropose == "" {
		return Result{Status: StatusError, Message: "command_to_propose is required"}, nil
	}

	if token, denied := isDenied(params.CommandToPropose, r.state.Denylist); denied {
		return Result{Status: StatusError, Message: "command rejected: contains denylisted token " + token}, nil
	}

	prompt := fmt.Sprintf("Run this command to apply the fix?\n  %s", params.CommandToPropose)
	if params.CommandDescription != "" {
		prompt = params.CommandDescription + "\n" + prompt
	}
	if !r.ui.ConfirmAction(prompt) {
		return Result{Status: StatusSuccess, Payload: map[string]any{
			"command_to_propose": params.CommandToPropose, "user_confirmation": false,
		}}, nil
	}

	timeout := r.state.DiagTimeout
	if timeout <= 0 {
		timeout = defaultDiagnosticTimeout
	}
	out, err := r.subprocess.Run(ctx, r.workDir, params.CommandToPropose, timeout)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}

	return Result{Status: StatusSuccess, Payload: map[string]any{
		"command_to_propose": params.CommandToPropose,
		"user_confirmation":  true,
		"stdout":             out.Output,
		"exit_code":          out.ExitCode,
		"timed_out":          out.TimedOut,
	}}, nil
}

package tools

import (
	"context"
	"encoding/json"
)

// finishStatuses is the closed set of final_status values spec §4.2 allows.
var finishStatuses = map[string]bool{
	"resolved": true, "guidance_provided": true,
	"cannot_resolve": true, "aborted_by_user_request": true,
}

type finishInput struct {
	FinalStatus               string `json:"final_status" jsonschema_description:"One of resolved, guidance_provided, cannot_resolve, aborted_by_user_request."`
	ConclusionMessageForUser string `json:"conclusion_message_for_user" jsonschema_description:"Final message summarizing the outcome for the user."`
}

func finishTool(_ context.Context, _ *Registry, input json.RawMessage) (Result, error) {
	params, err := parseInput[finishInput](input)
	if err != nil {
		return Result{}, err
	}
	if !finishStatuses[params.FinalStatus] {
		return Result{Status: StatusError, Message: "final_status must be one of resolved, guidance_provided, cannot_resolve, aborted_by_user_request"}, nil
	}

	return Result{Status: StatusFinished, Payload: map[string]any{
		"final_status": params.FinalStatus, "conclusion_message_for_user": params.ConclusionMessageForUser,
	}}, nil
}

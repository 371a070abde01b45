package tools

import (
	"context"
	"encoding/json"
)

type clarifyInput struct {
	QuestionForUser string `json:"question_for_user" jsonschema_description:"Direct question to ask the user."`
}

func clarifyTool(_ context.Context, r *Registry, input json.RawMessage) (Result, error) {
	params, err := parseInput[clarifyInput](input)
	if err != nil {
		return Result{}, err
	}
	if params.QuestionForUser == "" {
		return Result{Status: StatusError, Message: "question_for_user is required"}, nil
	}

	answer, err := r.ui.AskInput(params.QuestionForUser)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}

	return Result{Status: StatusSuccess, Payload: map[string]any{
		"question_for_user": params.QuestionForUser, "answer": answer,
	}}, nil
}

package command

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Registry returns all CLI commands keyed by "service action".
func Registry() map[string]Command {
	commands := []Command{
		{
			Service:      "problem",
			Action:       "configure",
			Method:       "POST",
			PathTemplate: "/api/v1/ioi/problems/:id/config",
			Fields: []Field{
				{Name: "id", Aliases: []string{"problem_id"}, Prompt: "problem_id", Type: FieldInt64, Required: true},
				{Name: "subtask_enabled", Prompt: "subtask_enabled (true/false)", Type: FieldBool, Required: false},
				{Name: "final_score_method", Prompt: "final_score_method", Type: FieldString, Required: false},
				{Name: "full_score", Prompt: "full_score", Type: FieldInt, Required: false},
				{Name: "subtasks_json", Prompt: "subtasks_json (JSON array)", Type: FieldJSON, Required: false},
				{Name: "config_file", Prompt: "config_file", Type: FieldFile, Required: false},
			},
		},
		{
			Service:      "problem",
			Action:       "config",
			Method:       "GET",
			PathTemplate: "/api/v1/ioi/problems/:id/config",
			Fields: []Field{
				{Name: "id", Aliases: []string{"problem_id"}, Prompt: "problem_id", Type: FieldInt64, Required: true},
			},
		},
		{
			Service:      "submission",
			Action:       "score",
			Method:       "POST",
			PathTemplate: "/api/v1/ioi/submissions/:id/score",
			Fields: []Field{
				{Name: "id", Aliases: []string{"submission_id"}, Prompt: "submission_id", Type: FieldInt64, Required: true},
			},
		},
		{
			Service:      "submission",
			Action:       "detail",
			Method:       "GET",
			PathTemplate: "/api/v1/ioi/submissions/:id",
			Fields: []Field{
				{Name: "id", Aliases: []string{"submission_id"}, Prompt: "submission_id", Type: FieldInt64, Required: true},
				{Name: "include_code", Prompt: "include_code (true/false)", Type: FieldBool, Required: false},
			},
		},
		{
			Service:      "contest",
			Action:       "leaderboard",
			Method:       "GET",
			PathTemplate: "/api/v1/ioi/contests/:id/leaderboard",
			Fields: []Field{
				{Name: "id", Aliases: []string{"contest_id"}, Prompt: "contest_id", Type: FieldInt64, Required: true},
				{Name: "page", Prompt: "page", Type: FieldInt, Required: false},
				{Name: "page_size", Prompt: "page_size", Type: FieldInt, Required: false},
			},
		},
	}

	result := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		key := fmt.Sprintf("%s %s", cmd.Service, cmd.Action)
		result[key] = cmd
	}
	return result
}

// BuildRequest creates HTTP request spec based on command.
func BuildRequest(cmd Command, params Params) (RequestSpec, error) {
	params.Canonicalize(cmd.Fields)
	path, err := buildPath(cmd.PathTemplate, params)
	if err != nil {
		return RequestSpec{}, err
	}
	path = appendQuery(cmd, path, params)

	var body []byte
	if cmd.Method != "GET" && cmd.Method != "DELETE" {
		payload, err := buildPayload(cmd, params)
		if err != nil {
			return RequestSpec{}, err
		}
		if payload != nil {
			body, err = json.Marshal(payload)
			if err != nil {
				return RequestSpec{}, fmt.Errorf("marshal request body failed: %w", err)
			}
		}
	}

	return RequestSpec{
		Method: cmd.Method,
		Path:   path,
		Body:   body,
	}, nil
}

func buildPath(template string, params Params) (string, error) {
	path := template
	placeholder := ":id"
	if strings.Contains(path, placeholder) {
		value := params.Get("id")
		if value == "" {
			return "", fmt.Errorf("missing path parameter: id")
		}
		path = strings.ReplaceAll(path, placeholder, value)
	}
	return path, nil
}

func appendQuery(cmd Command, path string, params Params) string {
	query := url.Values{}
	switch {
	case cmd.Service == "submission" && cmd.Action == "detail":
		if params.Get("include_code") != "" {
			query.Set("include_code", params.Get("include_code"))
		}
	case cmd.Service == "contest" && cmd.Action == "leaderboard":
		if params.Get("page") != "" {
			query.Set("page", params.Get("page"))
		}
		if params.Get("page_size") != "" {
			query.Set("page_size", params.Get("page_size"))
		}
	}
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

func buildPayload(cmd Command, params Params) (interface{}, error) {
	if cmd.Service == "problem" && cmd.Action == "configure" {
		return buildConfigurePayload(params)
	}
	return nil, nil
}

func buildConfigurePayload(params Params) (interface{}, error) {
	// A config file holds the whole request body and wins over the
	// individual flags.
	if params.Get("config_file") != "" {
		data, err := ReadFile(params.Get("config_file"))
		if err != nil {
			return nil, err
		}
		raw, err := ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("invalid config_file: %w", err)
		}
		return raw, nil
	}

	payload := map[string]interface{}{}
	if params.Get("subtask_enabled") != "" {
		enabled, err := ParseBool(params.Get("subtask_enabled"))
		if err != nil {
			return nil, fmt.Errorf("invalid subtask_enabled: %w", err)
		}
		payload["subtask_enabled"] = enabled
	}
	if params.Get("final_score_method") != "" {
		payload["final_score_method"] = params.Get("final_score_method")
	}
	if params.Get("full_score") != "" {
		fullScore, err := ParseInt(params.Get("full_score"))
		if err != nil {
			return nil, fmt.Errorf("invalid full_score: %w", err)
		}
		payload["full_score"] = fullScore
	}
	if params.Get("subtasks_json") != "" {
		subtasks, err := ParseJSON(params.Get("subtasks_json"))
		if err != nil {
			return nil, fmt.Errorf("invalid subtasks_json: %w", err)
		}
		payload["subtasks"] = subtasks
	}
	return payload, nil
}

package search

import (
	"encoding/json"
	"fmt"
)

// Decode targets for the structured model calls. These mirror the schemas in
// schemas.go; the public model types are only built after verification.

type wireSource struct {
	DisplayName string `json:"display_name"`
	Ref         string `json:"ref"`
	Quote       string `json:"quote"`
	Book        string `json:"book"`
	Category    string `json:"category"`
}

type wireCandidateList struct {
	Sources []wireSource `json:"sources"`
}

type wireSimpleResponse struct {
	Sources      []wireSource `json:"sources"`
	Summary      string       `json:"summary"`
	FollowUps    []string     `json:"follow_up_questions"`
	QuestionType string       `json:"question_type"`
}

type wireOpinion struct {
	Summary string       `json:"summary"`
	Sources []wireSource `json:"sources"`
}

type wireDispute struct {
	Topic    string        `json:"topic"`
	Opinions []wireOpinion `json:"opinions"`
}

type wireDisputeResponse struct {
	Disputes     []wireDispute `json:"disputes"`
	Summary      string        `json:"summary"`
	FollowUps    []string      `json:"follow_up_questions"`
	QuestionType string        `json:"question_type"`
}

// decodeWire parses schema-constrained model output. Model output is
// untrusted input; a parse failure fails the call rather than salvaging
// partial data.
func decodeWire[T any](text string) (*T, error) {
	var out T
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("malformed model output: %w", err)
	}
	return &out, nil
}

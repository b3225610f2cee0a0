package model

// SimpleResponse is the result of a simple (precise/broad) or corpus search.
// Summary is derived only from the quotes of the Sources present in the same
// response; it is empty whenever Sources is empty.
type SimpleResponse struct {
	Sources      []Source     `json:"sources"`
	Summary      string       `json:"summary"`
	FollowUps    []string     `json:"follow_up_questions"`
	QuestionType QuestionType `json:"question_type"`
}

// Opinion is a grouped position within a Dispute, backed by one or more
// verified sources. An Opinion with zero sources is never returned.
type Opinion struct {
	Summary string   `json:"summary"`
	Sources []Source `json:"sources"`
}

// Dispute groups opinions that take distinct positions on one topic.
// A returned Dispute always has at least one Opinion.
type Dispute struct {
	Topic    string    `json:"topic"`
	Opinions []Opinion `json:"opinions"`
}

// DisputeResponse is the result of an opinion-grouped search
type DisputeResponse struct {
	Disputes     []Dispute    `json:"disputes"`
	Summary      string       `json:"summary"`
	FollowUps    []string     `json:"follow_up_questions"`
	QuestionType QuestionType `json:"question_type"`
}

// WebSource is a link surfaced by web-grounded generation
type WebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// WebResult is the output of the web-grounded search mode. No quote
// verification applies here; it is exposed as a separate, distinctly
// labeled mode.
type WebResult struct {
	Summary      string      `json:"summary"`
	ShortSummary string      `json:"short_summary"`
	Sources      []WebSource `json:"sources"`
}

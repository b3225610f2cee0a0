package search

import "google.golang.org/genai"

// Output schemas for every structured model call. Field names here are the
// wire contract shared with the wire* decode types in wire.go; changing one
// side without the other breaks parsing silently, so keep them together.

func sourceSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"display_name": {
				Type:        genai.TypeString,
				Description: "Short human-readable name of the source, e.g. book and section",
			},
			"ref": {
				Type:        genai.TypeString,
				Description: "Canonical English reference with periods, e.g. 'Shulchan_Arukh,_Orach_Chayim.168.7'",
			},
			"quote": {
				Type:        genai.TypeString,
				Description: "Exact contiguous quote from the provided text, optionally with <b> emphasis",
			},
			"book": {
				Type:        genai.TypeString,
				Description: "Official English book title",
			},
			"category": {
				Type: genai.TypeString,
				Enum: []string{
					"Tanakh", "Talmud", "Midrash", "Halakhah", "Responsa",
					"Kabbalah & Jewish Thought", "Other", "Personal",
				},
			},
		},
		Required: []string{"display_name", "ref", "book", "category"},
	}
}

// candidateListSchema constrains the source-location calls, where quotes are
// not yet known.
func candidateListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sources": {
				Type:  genai.TypeArray,
				Items: sourceSchema(),
			},
		},
		Required: []string{"sources"},
	}
}

// simpleResponseSchema constrains the verification and corpus-reduce calls.
func simpleResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sources": {
				Type:  genai.TypeArray,
				Items: sourceSchema(),
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "Cautious synthesis of the quotes only; empty when there are no quotes",
			},
			"follow_up_questions": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"question_type": {
				Type: genai.TypeString,
				Enum: []string{"practical", "theoretical", "historical"},
			},
		},
		Required: []string{"sources", "summary", "follow_up_questions", "question_type"},
	}
}

// disputeResponseSchema constrains the dispute-analysis call.
func disputeResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"disputes": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"topic": {Type: genai.TypeString},
						"opinions": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"summary": {Type: genai.TypeString},
									"sources": {
										Type:  genai.TypeArray,
										Items: sourceSchema(),
									},
								},
								Required: []string{"summary", "sources"},
							},
						},
					},
					Required: []string{"topic", "opinions"},
				},
			},
			"summary": {Type: genai.TypeString},
			"follow_up_questions": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"question_type": {
				Type: genai.TypeString,
				Enum: []string{"practical", "theoretical", "historical"},
			},
		},
		Required: []string{"disputes", "summary", "follow_up_questions", "question_type"},
	}
}

// stringListSchema constrains calls that return a bare list of strings
// (dispute reference finding, corpus chunk mapping).
func stringListSchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
}

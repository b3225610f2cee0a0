package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mekorot-project/mekorot/internal/llm"
	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/sefaria"
)

func disputeFetcher() *fakeFetcher {
	return &fakeFetcher{texts: map[string]*sefaria.TextRecord{
		"Rama_1:1":   {Ref: "Rama 1:1", Text: "המנהג להקל בדבר זה"},
		"Mechaber_2": {Ref: "Mechaber 2", Text: "ויש להחמיר בזה לכתחילה"},
	}}
}

func disputeProvider(t *testing.T, analysis wireDisputeResponse) *fakeProvider {
	t.Helper()
	return &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
		switch {
		case strings.Contains(req.System, "Group by opinion"):
			out, err := json.Marshal(analysis)
			if err != nil {
				t.Fatal(err)
			}
			return string(out), nil
		case strings.Contains(req.System, "JSON array of strings"):
			return `["Rama 1:1", "Mechaber 2"]`, nil
		default:
			// Reference description stage
			return candidatesJSON(t, "Rama 1:1", "Mechaber 2"), nil
		}
	}}
}

func TestAnalyzeDisputesPrunesUnsupportedOpinions(t *testing.T) {
	analysis := wireDisputeResponse{
		Disputes: []wireDispute{
			{
				Topic: "קולא וחומרא",
				Opinions: []wireOpinion{
					{Summary: "המקילים", Sources: []wireSource{
						{DisplayName: "רמ\"א", Ref: "Rama 1:1", Book: "Rama", Category: "Halakhah",
							Quote: "המנהג <b>להקל</b> בדבר זה"},
					}},
					{Summary: "דעה ללא מקור מאומת", Sources: []wireSource{
						{DisplayName: "x", Ref: "Rama 1:1", Book: "Rama", Category: "Halakhah",
							Quote: "ציטוט שלא קיים"},
					}},
				},
			},
			{
				Topic: "מחלוקת ללא אף דעה מאומתת",
				Opinions: []wireOpinion{
					{Summary: "y", Sources: []wireSource{
						{DisplayName: "z", Ref: "Unknown Ref 9", Book: "?", Category: "Other",
							Quote: "whatever"},
					}},
				},
			},
		},
		Summary:      "סיכום המחלוקת",
		QuestionType: "practical",
	}

	s := NewSearcher(disputeProvider(t, analysis), disputeFetcher(), testSearchConfig(), false)
	resp, err := s.AnalyzeDisputes(context.Background(), "שאלה", "", model.LangEnglish)
	if err != nil {
		t.Fatalf("AnalyzeDisputes() error: %v", err)
	}

	if len(resp.Disputes) != 1 {
		t.Fatalf("got %d disputes, want 1 (empty dispute pruned)", len(resp.Disputes))
	}
	d := resp.Disputes[0]
	if len(d.Opinions) != 1 {
		t.Fatalf("got %d opinions, want 1 (unsupported opinion pruned)", len(d.Opinions))
	}
	if len(d.Opinions[0].Sources) != 1 {
		t.Errorf("opinion has %d sources, want 1", len(d.Opinions[0].Sources))
	}
	if resp.QuestionType != model.QuestionPractical {
		t.Errorf("QuestionType = %q", resp.QuestionType)
	}
}

func TestAnalyzeDisputesNoDisputes(t *testing.T) {
	analysis := wireDisputeResponse{
		Disputes: []wireDispute{
			{Topic: "t", Opinions: []wireOpinion{
				{Summary: "s", Sources: []wireSource{
					{DisplayName: "a", Ref: "Rama 1:1", Book: "Rama", Category: "Halakhah",
						Quote: "ציטוט מומצא לחלוטין"},
				}},
			}},
		},
		QuestionType: "theoretical",
	}

	s := NewSearcher(disputeProvider(t, analysis), disputeFetcher(), testSearchConfig(), false)
	_, err := s.AnalyzeDisputes(context.Background(), "שאלה", "", model.LangEnglish)
	if !errors.Is(err, model.ErrNoDisputes) {
		t.Errorf("expected ErrNoDisputes, got %v", err)
	}
}

func TestAnalyzeDisputesNoRefs(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
		return `[]`, nil
	}}

	s := NewSearcher(provider, disputeFetcher(), testSearchConfig(), false)
	_, err := s.AnalyzeDisputes(context.Background(), "שאלה", "", model.LangEnglish)
	if !errors.Is(err, model.ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}
}

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

// fakeProvider scripts model behavior per test via the generate function.
// Dispatch on req.System to distinguish pipeline stages.
type fakeProvider struct {
	generate func(ctx context.Context, req llm.Request) (string, error)
	grounded func(ctx context.Context, req llm.Request) (*llm.GroundedResult, error)
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, req llm.Request) (string, error) {
	return f.generate(ctx, req)
}

func (f *fakeProvider) GenerateGrounded(ctx context.Context, req llm.Request) (*llm.GroundedResult, error) {
	if f.grounded == nil {
		return nil, llm.ErrUnsupported
	}
	return f.grounded(ctx, req)
}

func (f *fakeProvider) NewChat(ctx context.Context, system string, history []llm.Turn) (llm.Chat, error) {
	return nil, llm.ErrUnsupported
}

// fakeFetcher resolves references from a fixed map, keyed by normalized ref
type fakeFetcher struct {
	texts map[string]*sefaria.TextRecord
}

func (f *fakeFetcher) FetchText(ctx context.Context, ref string) (*sefaria.TextRecord, error) {
	if rec, ok := f.texts[sefaria.NormalizeRef(ref)]; ok {
		return rec, nil
	}
	return nil, &sefaria.NotFoundError{Ref: ref, Message: "could not find ref " + ref}
}

func testSearchConfig() model.SearchConfig {
	return model.SearchConfig{
		UnlimitedPrecise: 15,
		UnlimitedBroad:   30,
		DisputeRefLimit:  20,
		FanoutWorkers:    4,
		ChunkSize:        10000,
		ChunkOverlap:     500,
		MaxReduceQuotes:  30,
	}
}

func candidatesJSON(t *testing.T, refs ...string) string {
	t.Helper()
	var list wireCandidateList
	for _, ref := range refs {
		list.Sources = append(list.Sources, wireSource{
			DisplayName: ref, Ref: ref, Book: "Book", Category: "Halakhah",
		})
	}
	out, err := json.Marshal(list)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestSearchDropsUnverifiableQuotes(t *testing.T) {
	fetcher := &fakeFetcher{texts: map[string]*sefaria.TextRecord{
		"Berakhot_35a": {
			Ref: "Berakhot 35a", HeRef: "ברכות לה.",
			Text: "אסור לו לאדם שיהנה מן <i>העולם הזה</i> בלא ברכה",
		},
		"Mishneh_Torah,_Blessings_1:2": {
			Ref: "Mishneh Torah, Blessings 1:2", HeRef: "הלכות ברכות",
			Text: "וכן מדברי סופרים לברך על כל מאכל תחלה",
		},
	}}

	provider := &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
		if strings.Contains(req.System, "cast a wide net") {
			// One good ref, one that will not resolve
			return candidatesJSON(t, "Berakhot 35a", "Mishneh Torah, Blessings 1:2", "Fabricated Work 3:1"), nil
		}
		// Verification output: an honest quote with added emphasis, a
		// fabricated quote, a quote against an unknown ref, and an empty one
		resp := wireSimpleResponse{
			Sources: []wireSource{
				{DisplayName: "ברכות לה.", Ref: "Berakhot 35a", Book: "Berakhot", Category: "Talmud",
					Quote: "אסור לו לאדם שיהנה מן העולם הזה בלא <b>ברכה</b>"},
				{DisplayName: "fabricated", Ref: "Mishneh Torah, Blessings 1:2", Book: "Mishneh Torah", Category: "Halakhah",
					Quote: "משפט שלא מופיע במקור כלל"},
				{DisplayName: "unknown ref", Ref: "Fabricated Work 3:1", Book: "Fabricated", Category: "Other",
					Quote: "quote against an unfetched text"},
				{DisplayName: "empty", Ref: "Berakhot 35a", Book: "Berakhot", Category: "Talmud", Quote: "  "},
			},
			Summary:      "מהמקורות עולה כי אסור ליהנות בלא ברכה",
			FollowUps:    []string{"מה מברכים על מים?"},
			QuestionType: "practical",
		}
		out, _ := json.Marshal(resp)
		return string(out), nil
	}}

	s := NewSearcher(provider, fetcher, testSearchConfig(), false)
	resp, err := s.Search(context.Background(), "ברכות הנהנין", "", 0, model.ModePrecise, model.LangEnglish)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if len(resp.Sources) != 1 {
		t.Fatalf("got %d sources, want 1 (only the contained quote)", len(resp.Sources))
	}
	src := resp.Sources[0]
	if src.Ref != "Berakhot 35a" {
		t.Errorf("Ref = %q", src.Ref)
	}
	if src.Link != "https://www.sefaria.org/Berakhot_35a" {
		t.Errorf("Link = %q", src.Link)
	}
	if src.ID == "" {
		t.Error("source has no ID")
	}
	if resp.QuestionType != model.QuestionPractical {
		t.Errorf("QuestionType = %q", resp.QuestionType)
	}
}

func TestSearchNoCandidates(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
		return `{"sources": []}`, nil
	}}

	s := NewSearcher(provider, &fakeFetcher{}, testSearchConfig(), false)
	_, err := s.Search(context.Background(), "question", "", 0, model.ModePrecise, model.LangHebrew)
	if !errors.Is(err, model.ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}
}

func TestSearchNoResolvableText(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
		return candidatesJSON(t, "Fake One 1:1", "Fake Two 2:2"), nil
	}}

	s := NewSearcher(provider, &fakeFetcher{}, testSearchConfig(), false)
	_, err := s.Search(context.Background(), "question", "", 0, model.ModePrecise, model.LangHebrew)
	if !errors.Is(err, model.ErrNoResolvableText) {
		t.Errorf("expected ErrNoResolvableText, got %v", err)
	}
}

func TestSearchNoVerifiedSources(t *testing.T) {
	fetcher := &fakeFetcher{texts: map[string]*sefaria.TextRecord{
		"Berakhot_35a": {Ref: "Berakhot 35a", Text: "הטקסט האמיתי של הדף"},
	}}
	provider := &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
		if strings.Contains(req.System, "cast a wide net") {
			return candidatesJSON(t, "Berakhot 35a"), nil
		}
		resp := wireSimpleResponse{
			Sources: []wireSource{
				{DisplayName: "x", Ref: "Berakhot 35a", Book: "Berakhot", Category: "Talmud",
					Quote: "ציטוט מומצא שאינו בטקסט"},
			},
			QuestionType: "theoretical",
		}
		out, _ := json.Marshal(resp)
		return string(out), nil
	}}

	s := NewSearcher(provider, fetcher, testSearchConfig(), false)
	_, err := s.Search(context.Background(), "question", "", 0, model.ModePrecise, model.LangEnglish)
	if !errors.Is(err, model.ErrNoVerifiedSources) {
		t.Errorf("expected ErrNoVerifiedSources, got %v", err)
	}
}

func TestSearchMalformedOutputFails(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
		return "I could not produce JSON, sorry", nil
	}}

	s := NewSearcher(provider, &fakeFetcher{}, testSearchConfig(), false)
	_, err := s.Search(context.Background(), "question", "", 0, model.ModePrecise, model.LangHebrew)
	if err == nil || !strings.Contains(err.Error(), "malformed model output") {
		t.Errorf("expected malformed-output error, got %v", err)
	}
}

func TestSearchPartialFetchFailureDegrades(t *testing.T) {
	// Five candidates, two resolve: the search proceeds on the survivors
	texts := map[string]*sefaria.TextRecord{
		"Good_1:1": {Ref: "Good 1:1", Text: "תוכן ראשון"},
		"Good_2:2": {Ref: "Good 2:2", Text: "תוכן שני"},
	}
	var verifyPrompt string
	provider := &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
		if strings.Contains(req.System, "cast a wide net") {
			return candidatesJSON(t, "Good 1:1", "Bad 1", "Bad 2", "Good 2:2", "Bad 3"), nil
		}
		verifyPrompt = req.Prompt
		resp := wireSimpleResponse{
			Sources: []wireSource{
				{DisplayName: "a", Ref: "Good 1:1", Book: "Good", Category: "Halakhah", Quote: "תוכן ראשון"},
				{DisplayName: "b", Ref: "Good 2:2", Book: "Good", Category: "Halakhah", Quote: "תוכן שני"},
			},
			QuestionType: "theoretical",
		}
		out, _ := json.Marshal(resp)
		return string(out), nil
	}}

	s := NewSearcher(provider, &fakeFetcher{texts: texts}, testSearchConfig(), false)
	resp, err := s.Search(context.Background(), "question", "", 0, model.ModePrecise, model.LangEnglish)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(resp.Sources) != 2 {
		t.Errorf("got %d sources, want 2", len(resp.Sources))
	}
	if strings.Contains(verifyPrompt, "Bad 1") {
		t.Error("unresolved candidate leaked into the verification prompt")
	}
}

func TestSearchModeSelectsInstruction(t *testing.T) {
	// Precise and broad differ only in the verification instruction; the
	// broad variant lowers the inclusion threshold
	texts := map[string]*sefaria.TextRecord{
		"Good_1:1": {Ref: "Good 1:1", Text: "some text"},
	}

	for _, tc := range []struct {
		mode model.SearchMode
		want string
	}{
		{model.ModePrecise, "Prefer omitting a tangential source"},
		{model.ModeBroad, "Low threshold rule"},
	} {
		var verifySystem string
		provider := &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
			if strings.Contains(req.System, "cast a wide net") {
				return candidatesJSON(t, "Good 1:1"), nil
			}
			verifySystem = req.System
			resp := wireSimpleResponse{
				Sources: []wireSource{
					{DisplayName: "a", Ref: "Good 1:1", Book: "Good", Category: "Other", Quote: "some text"},
				},
				QuestionType: "theoretical",
			}
			out, _ := json.Marshal(resp)
			return string(out), nil
		}}

		s := NewSearcher(provider, &fakeFetcher{texts: texts}, testSearchConfig(), false)
		if _, err := s.Search(context.Background(), "q", "", 0, tc.mode, model.LangEnglish); err != nil {
			t.Fatalf("mode %s: %v", tc.mode, err)
		}
		if !strings.Contains(verifySystem, tc.want) {
			t.Errorf("mode %s: instruction variant missing %q", tc.mode, tc.want)
		}
	}
}

func TestBroadIncludesAtLeastPrecise(t *testing.T) {
	// A deterministic inclusion predicate keyed off the instruction variant:
	// precise keeps only the directly relevant text, broad keeps related
	// ones too. The broad result may never be smaller than the precise one,
	// and the unlimited budget maps to 15/30 by mode.
	texts := map[string]*sefaria.TextRecord{
		"Direct_1:1":  {Ref: "Direct 1:1", Text: "עוסק בשאלה באופן ישיר"},
		"Related_2:2": {Ref: "Related 2:2", Text: "נושא קרוב ומשיק"},
		"Related_3:3": {Ref: "Related 3:3", Text: "דוגמה קשורה לעניין"},
	}

	run := func(mode model.SearchMode) (int, string) {
		var finderPrompt string
		provider := &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
			if strings.Contains(req.System, "cast a wide net") {
				finderPrompt = req.Prompt
				return candidatesJSON(t, "Direct 1:1", "Related 2:2", "Related 3:3"), nil
			}

			included := []wireSource{
				{DisplayName: "a", Ref: "Direct 1:1", Book: "B", Category: "Halakhah",
					Quote: "עוסק בשאלה באופן ישיר"},
			}
			if strings.Contains(req.System, "Low threshold rule") {
				included = append(included,
					wireSource{DisplayName: "b", Ref: "Related 2:2", Book: "B", Category: "Halakhah",
						Quote: "נושא קרוב ומשיק"},
					wireSource{DisplayName: "c", Ref: "Related 3:3", Book: "B", Category: "Halakhah",
						Quote: "דוגמה קשורה לעניין"})
			}
			out, _ := json.Marshal(wireSimpleResponse{Sources: included, QuestionType: "theoretical"})
			return string(out), nil
		}}

		s := NewSearcher(provider, &fakeFetcher{texts: texts}, testSearchConfig(), false)
		resp, err := s.Search(context.Background(), "q", "", 0, mode, model.LangEnglish)
		if err != nil {
			t.Fatalf("mode %s: %v", mode, err)
		}
		return len(resp.Sources), finderPrompt
	}

	preciseCount, precisePrompt := run(model.ModePrecise)
	broadCount, broadPrompt := run(model.ModeBroad)

	if broadCount < preciseCount {
		t.Errorf("broad returned %d sources, precise %d; broad must not be smaller", broadCount, preciseCount)
	}
	if !strings.Contains(precisePrompt, "Maximum sources: 15") {
		t.Errorf("unlimited precise budget not 15: %q", precisePrompt)
	}
	if !strings.Contains(broadPrompt, "Maximum sources: 30") {
		t.Errorf("unlimited broad budget not 30: %q", broadPrompt)
	}
}

func TestQuoteContained(t *testing.T) {
	text := "אמר רבי יוחנן <i>משום</i> רבי שמעון בן יוחאי"

	tests := []struct {
		name  string
		quote string
		want  bool
	}{
		{"exact substring", "רבי שמעון בן יוחאי", true},
		{"emphasis added", "אמר <b>רבי יוחנן</b> משום", true},
		{"source tags dropped", "רבי יוחנן משום רבי", true},
		{"whitespace variation", "רבי  יוחנן \n משום", true},
		{"fabricated", "דבר שאינו כתוב", false},
		{"reordered words", "יוחנן רבי אמר", false},
		{"empty", "", false},
		{"tags only", "<b></b>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quoteContained(text, tt.quote); got != tt.want {
				t.Errorf("quoteContained(%q) = %v, want %v", tt.quote, got, tt.want)
			}
		})
	}
}

func TestQuestionTypeFallback(t *testing.T) {
	if got := questionType("philosophical"); got != model.QuestionTheoretical {
		t.Errorf("unknown type = %q, want theoretical", got)
	}
	if got := questionType("practical"); got != model.QuestionPractical {
		t.Errorf("practical mapped to %q", got)
	}
}

func TestCategoryFallback(t *testing.T) {
	if got := category("Mysticism"); got != model.CategoryOther {
		t.Errorf("unknown category = %q, want Other", got)
	}
	if got := category("Responsa"); got != model.CategoryResponsa {
		t.Errorf("Responsa mapped to %q", got)
	}
}

func TestExpandScope(t *testing.T) {
	// Top-level categories expand; specific scopes pass through
	expanded := expandScope("Halakhah", model.LangEnglish)
	if expanded == "Halakhah" || !strings.Contains(expanded, "Shulchan Arukh") {
		t.Errorf("Halakhah not expanded: %q", expanded)
	}
	if got := expandScope("Mishnah Berurah", model.LangEnglish); got != "Mishnah Berurah" {
		t.Errorf("specific scope altered: %q", got)
	}
}

func TestFindCandidatesSkipsEmptyRefs(t *testing.T) {
	provider := &fakeProvider{generate: func(ctx context.Context, req llm.Request) (string, error) {
		return `{"sources": [
			{"display_name": "a", "ref": "Genesis 1:1", "book": "Genesis", "category": "Tanakh"},
			{"display_name": "b", "ref": "   ", "book": "Genesis", "category": "Tanakh"}
		]}`, nil
	}}

	s := NewSearcher(provider, &fakeFetcher{}, testSearchConfig(), false)
	candidates, err := s.FindCandidates(context.Background(), "q", "", 10, model.LangEnglish)
	if err != nil {
		t.Fatalf("FindCandidates() error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Ref != "Genesis 1:1" {
		t.Errorf("candidates = %+v", candidates)
	}
}

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mekorot-project/mekorot/internal/llm"
	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/sefaria"
)

const sefariaLinkBase = "https://www.sefaria.org/"

// groundingSource is the shape of one fetched text as presented to the
// verification call.
type groundingSource struct {
	Ref   string `json:"ref"`
	HeRef string `json:"he_ref,omitempty"`
	Book  string `json:"book"`
	Text  string `json:"text"`
}

// Search runs the full pipeline for a simple query: locate candidates,
// fetch their texts, verify in one batched model call, then post-filter so
// that every returned quote is contained in a fetched text. limit <= 0
// means "as many as the mode allows".
func (s *Searcher) Search(ctx context.Context, query, scope string, limit int, mode model.SearchMode, lang model.Language) (*model.SimpleResponse, error) {
	if limit <= 0 {
		if mode == model.ModeBroad {
			limit = s.cfg.UnlimitedBroad
		} else {
			limit = s.cfg.UnlimitedPrecise
		}
	}

	candidates, err := s.FindCandidates(ctx, query, scope, limit, lang)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, model.ErrNoCandidates
	}
	if s.verbose {
		fmt.Fprintf(os.Stderr, "found %d candidate references\n", len(candidates))
	}

	resolved := s.resolveTexts(ctx, candidates)
	if len(resolved) == 0 {
		return nil, model.ErrNoResolvableText
	}
	if s.verbose {
		fmt.Fprintf(os.Stderr, "resolved %d of %d texts\n", len(resolved), len(candidates))
	}

	grounding, err := marshalGrounding(resolved)
	if err != nil {
		return nil, err
	}

	text, err := s.provider.Generate(ctx, llm.Request{
		System: verifySystem(mode, lang),
		Prompt: fmt.Sprintf("Query: %q\n\nVerified sources:\n%s", query, grounding),
		Schema: simpleResponseSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("verification call: %w", err)
	}

	raw, err := decodeWire[wireSimpleResponse](text)
	if err != nil {
		return nil, err
	}

	sources := s.verifiedSources(raw.Sources, resolved)
	if len(sources) == 0 {
		return nil, model.ErrNoVerifiedSources
	}

	return &model.SimpleResponse{
		Sources:      sources,
		Summary:      sefaria.UnescapeEntities(raw.Summary),
		FollowUps:    raw.FollowUps,
		QuestionType: questionType(raw.QuestionType),
	}, nil
}

// marshalGrounding renders the fetched texts as the JSON block the
// verification call reads.
func marshalGrounding(resolved []resolvedText) (string, error) {
	grounding := make([]groundingSource, 0, len(resolved))
	for _, rt := range resolved {
		book := rt.record.Book
		if book == "" {
			book = rt.candidate.Book
		}
		grounding = append(grounding, groundingSource{
			Ref:   rt.record.Ref,
			HeRef: rt.record.HeRef,
			Book:  book,
			Text:  rt.record.Text,
		})
	}
	out, err := json.Marshal(grounding)
	if err != nil {
		return "", fmt.Errorf("marshal grounding texts: %w", err)
	}
	return string(out), nil
}

// verifiedSources converts the model's claimed sources into final ones,
// dropping any whose quote is empty, whose reference matches no fetched
// text, or whose quote is not literally contained in that text. Input order
// is preserved.
func (s *Searcher) verifiedSources(claimed []wireSource, resolved []resolvedText) []model.Source {
	byRef := make(map[string]*sefaria.TextRecord, len(resolved)*2)
	for _, rt := range resolved {
		byRef[sefaria.NormalizeRef(rt.record.Ref)] = rt.record
		byRef[sefaria.NormalizeRef(rt.candidate.Ref)] = rt.record
	}

	var sources []model.Source
	for _, src := range claimed {
		quote := sefaria.UnescapeEntities(src.Quote)
		if strings.TrimSpace(sefaria.StripTags(quote)) == "" {
			continue
		}

		record := byRef[sefaria.NormalizeRef(src.Ref)]
		if record == nil {
			if s.verbose {
				fmt.Fprintf(os.Stderr, "warning: dropping source with unknown ref %q\n", src.Ref)
			}
			continue
		}
		if !quoteContained(record.Text, quote) {
			if s.verbose {
				fmt.Fprintf(os.Stderr, "warning: dropping %s: quote not found in retrieved text\n", src.Ref)
			}
			continue
		}

		displayName := src.DisplayName
		if displayName == "" {
			displayName = record.HeRef
		}
		book := src.Book
		if book == "" {
			book = record.HeBook
		}

		sources = append(sources, model.Source{
			ID:          uuid.NewString(),
			DisplayName: displayName,
			Quote:       quote,
			Link:        sefariaLinkBase + sefaria.NormalizeRef(src.Ref),
			Ref:         src.Ref,
			Book:        book,
			Category:    string(category(src.Category)),
		})
	}
	return sources
}

// quoteContained reports whether quote appears verbatim in text, comparing
// with HTML tags stripped and whitespace runs collapsed on both sides. The
// model is allowed to add <b> emphasis and drop pre-existing tags; anything
// beyond that fails containment.
func quoteContained(text, quote string) bool {
	needle := canonical(quote)
	if needle == "" {
		return false
	}
	return strings.Contains(canonical(text), needle)
}

func canonical(s string) string {
	return strings.Join(strings.Fields(sefaria.StripTags(s)), " ")
}

func questionType(s string) model.QuestionType {
	qt := model.QuestionType(s)
	if !qt.Valid() {
		return model.QuestionTheoretical
	}
	return qt
}

func category(s string) model.Category {
	switch c := model.Category(s); c {
	case model.CategoryTanakh, model.CategoryTalmud, model.CategoryMidrash,
		model.CategoryHalakhah, model.CategoryResponsa, model.CategoryKabbalah,
		model.CategoryPersonal:
		return c
	default:
		return model.CategoryOther
	}
}

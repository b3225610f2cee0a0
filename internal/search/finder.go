package search

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mekorot-project/mekorot/internal/llm"
	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/sefaria"
	"github.com/mekorot-project/mekorot/internal/worker"
)

// expandScope widens top-level category scopes into an instruction covering
// the whole literature of that category, so the finder does not fixate on a
// single canonical work. Specific scopes (a book, a named corpus slice) pass
// through untouched.
func expandScope(scope string, lang model.Language) string {
	he := lang == model.LangHebrew
	switch scope {
	case string(model.CategoryHalakhah):
		if he {
			return "כל הספרות ההלכתית, כולל שולחן ערוך, משנה תורה, נושאי כלים, ופוסקים אחרונים"
		}
		return "all Halakhic literature, including Shulchan Arukh, Mishneh Torah, their commentaries, and later authorities"
	case string(model.CategoryTanakh):
		if he {
			return "התנ\"ך ומפרשיו, כולל רש\"י, רמב\"ן, אבן עזרא ושאר הפרשנים הקלאסיים"
		}
		return "the Tanakh and its commentators, including Rashi, Ramban, Ibn Ezra, and the other classical commentaries"
	case string(model.CategoryTalmud):
		if he {
			return "התלמוד הבבלי והירושלמי עם מפרשיהם, כולל רש\"י ותוספות"
		}
		return "the Babylonian and Jerusalem Talmud with their commentaries, including Rashi and Tosafot"
	default:
		return scope
	}
}

// FindCandidates asks the model for up to limit candidate references within
// the given scope. Returned candidates carry no quotes; nothing is trusted
// until the texts are fetched and re-verified.
func (s *Searcher) FindCandidates(ctx context.Context, query, scope string, limit int, lang model.Language) ([]model.Candidate, error) {
	prompt := fmt.Sprintf("Query: %q\nSearch scope: %s\nMaximum sources: %d", query, expandScope(scope, lang), limit)

	text, err := s.provider.Generate(ctx, llm.Request{
		System: candidateSystem(lang),
		Prompt: prompt,
		Schema: candidateListSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("candidate search call: %w", err)
	}

	raw, err := decodeWire[wireCandidateList](text)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, 0, len(raw.Sources))
	for _, src := range raw.Sources {
		if strings.TrimSpace(src.Ref) == "" {
			continue
		}
		candidates = append(candidates, model.Candidate{
			DisplayName: src.DisplayName,
			Ref:         src.Ref,
			Book:        src.Book,
			Category:    src.Category,
		})
	}
	return candidates, nil
}

// resolvedText pairs a candidate with the repository text its reference
// resolved to.
type resolvedText struct {
	candidate model.Candidate
	record    *sefaria.TextRecord
}

// resolveTexts fetches all candidate texts in parallel and keeps the ones
// that resolved. A failed reference (hallucinated, malformed, or transient
// relay failure) costs one candidate, never the whole search.
func (s *Searcher) resolveTexts(ctx context.Context, candidates []model.Candidate) []resolvedText {
	results := worker.Map(ctx, s.cfg.FanoutWorkers, candidates, func(ctx context.Context, c model.Candidate) (resolvedText, error) {
		record, err := s.texts.FetchText(ctx, c.Ref)
		if err != nil {
			if s.verbose {
				fmt.Fprintf(os.Stderr, "warning: dropping %s: %v\n", c.Ref, err)
			}
			return resolvedText{}, err
		}
		return resolvedText{candidate: c, record: record}, nil
	})
	return worker.Successes(results)
}

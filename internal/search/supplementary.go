package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/mekorot-project/mekorot/internal/llm"
	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/sefaria"
)

// FollowUp answers a clarifying question about an earlier result. It runs
// against the original query and summary only; no new sources are fetched
// or cited.
func (s *Searcher) FollowUp(ctx context.Context, question, origQuery, origSummary string, lang model.Language) (string, error) {
	prompt := fmt.Sprintf(
		"Original query: %q\nSummary the user received: %q\n---\nFollow-up question: %q",
		origQuery, sefaria.StripTags(origSummary), question)

	answer, err := s.provider.Generate(ctx, llm.Request{
		System: followUpSystem(lang),
		Prompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("follow-up call: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// WebSearch answers a general question from live web results, returning the
// grounding links alongside a long summary and a one-to-two sentence short
// form. Fails with llm.ErrUnsupported when the provider cannot ground.
func (s *Searcher) WebSearch(ctx context.Context, question string, lang model.Language) (*model.WebResult, error) {
	grounded, err := s.provider.GenerateGrounded(ctx, llm.Request{
		System: webSystem(lang),
		Prompt: question,
	})
	if err != nil {
		return nil, fmt.Errorf("web search call: %w", err)
	}

	summary := strings.TrimSpace(grounded.Text)
	if summary == "" {
		return &model.WebResult{Sources: grounded.Sources}, nil
	}

	short, err := s.provider.Generate(ctx, llm.Request{
		System: shortSummarySystem(lang),
		Prompt: fmt.Sprintf("Text:\n\"\"\"\n%s\n\"\"\"", summary),
	})
	if err != nil {
		return nil, fmt.Errorf("short summary call: %w", err)
	}

	return &model.WebResult{
		Summary:      summary,
		ShortSummary: strings.TrimSpace(short),
		Sources:      grounded.Sources,
	}, nil
}

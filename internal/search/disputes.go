package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mekorot-project/mekorot/internal/llm"
	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/sefaria"
)

// Dispute analysis is the heaviest pipeline: an extra reference-finding
// stage in front, and a synthesis call with an explicit thinking budget at
// the back. Verification rules are identical to Search — an opinion only
// keeps sources whose quotes survived containment checking.

const (
	disputeMaxOutputTokens = 8192
	disputeThinkingBudget  = 4096
)

// AnalyzeDisputes finds the spread of opinions on a query and groups
// verified sources under each one.
func (s *Searcher) AnalyzeDisputes(ctx context.Context, query, scope string, lang model.Language) (*model.DisputeResponse, error) {
	refs, err := s.findDisputeRefs(ctx, query, scope, lang)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, model.ErrNoCandidates
	}
	if s.verbose {
		fmt.Fprintf(os.Stderr, "found %d dispute references\n", len(refs))
	}

	candidates, err := s.describeRefs(ctx, refs, lang)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, model.ErrNoCandidates
	}

	resolved := s.resolveTexts(ctx, candidates)
	if len(resolved) == 0 {
		return nil, model.ErrNoResolvableText
	}

	grounding, err := marshalGrounding(resolved)
	if err != nil {
		return nil, err
	}

	text, err := s.provider.Generate(ctx, llm.Request{
		System:          disputeAnalysisSystem(lang),
		Prompt:          fmt.Sprintf("Query: %q\n\nVerified sources:\n%s", query, grounding),
		Schema:          disputeResponseSchema(),
		MaxOutputTokens: disputeMaxOutputTokens,
		ThinkingBudget:  disputeThinkingBudget,
	})
	if err != nil {
		return nil, fmt.Errorf("dispute analysis call: %w", err)
	}

	raw, err := decodeWire[wireDisputeResponse](text)
	if err != nil {
		return nil, err
	}

	disputes := s.verifiedDisputes(raw.Disputes, resolved)
	if len(disputes) == 0 {
		return nil, model.ErrNoDisputes
	}

	return &model.DisputeResponse{
		Disputes:     disputes,
		Summary:      sefaria.UnescapeEntities(raw.Summary),
		FollowUps:    raw.FollowUps,
		QuestionType: questionType(raw.QuestionType),
	}, nil
}

// findDisputeRefs asks for references that span the range of opinions.
func (s *Searcher) findDisputeRefs(ctx context.Context, query, scope string, lang model.Language) ([]string, error) {
	prompt := fmt.Sprintf(
		"Query: %q\nSearch scope: %s\nFind sources representing different opinions on this topic. Maximum references: %d",
		query, expandScope(scope, lang), s.cfg.DisputeRefLimit)

	text, err := s.provider.Generate(ctx, llm.Request{
		System: disputeRefSystem(lang),
		Prompt: prompt,
		Schema: stringListSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("dispute reference call: %w", err)
	}

	var refs []string
	if err := json.Unmarshal([]byte(text), &refs); err != nil {
		return nil, fmt.Errorf("malformed model output: %w", err)
	}

	out := refs[:0]
	for _, ref := range refs {
		if strings.TrimSpace(ref) != "" {
			out = append(out, ref)
		}
	}
	return out, nil
}

// describeRefs turns bare references into candidates with display names and
// categories, via a second constrained call.
func (s *Searcher) describeRefs(ctx context.Context, refs []string, lang model.Language) ([]model.Candidate, error) {
	refsJSON, err := json.Marshal(refs)
	if err != nil {
		return nil, fmt.Errorf("marshal references: %w", err)
	}

	text, err := s.provider.Generate(ctx, llm.Request{
		System: candidateSystem(lang),
		Prompt: fmt.Sprintf("Build the JSON source objects for exactly these references, one object per reference:\n%s", refsJSON),
		Schema: candidateListSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("reference description call: %w", err)
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

// verifiedDisputes applies source verification inside every opinion, then
// prunes opinions left without sources and disputes left without opinions.
// No dispute in the result has an unsupported opinion.
func (s *Searcher) verifiedDisputes(claimed []wireDispute, resolved []resolvedText) []model.Dispute {
	var disputes []model.Dispute
	for _, d := range claimed {
		var opinions []model.Opinion
		for _, op := range d.Opinions {
			sources := s.verifiedSources(op.Sources, resolved)
			if len(sources) == 0 {
				continue
			}
			opinions = append(opinions, model.Opinion{
				Summary: sefaria.UnescapeEntities(op.Summary),
				Sources: sources,
			})
		}
		if len(opinions) == 0 {
			continue
		}
		disputes = append(disputes, model.Dispute{
			Topic:    sefaria.UnescapeEntities(d.Topic),
			Opinions: opinions,
		})
	}
	return disputes
}

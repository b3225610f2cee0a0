package search

import (
	"context"

	"github.com/mekorot-project/mekorot/internal/llm"
	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/sefaria"
)

// TextFetcher resolves a repository reference to its full text. Satisfied by
// *sefaria.Client; tests substitute a canned map.
type TextFetcher interface {
	FetchText(ctx context.Context, ref string) (*sefaria.TextRecord, error)
}

// Searcher runs the multi-stage source search pipeline: candidate location,
// parallel text retrieval, batched verification, and post-filtering. Every
// source it returns carries a quote that is a literal substring of the text
// actually fetched from the repository.
type Searcher struct {
	provider llm.Provider
	texts    TextFetcher
	cfg      model.SearchConfig
	verbose  bool
}

// NewSearcher creates a searcher
func NewSearcher(provider llm.Provider, texts TextFetcher, cfg model.SearchConfig, verbose bool) *Searcher {
	return &Searcher{
		provider: provider,
		texts:    texts,
		cfg:      cfg,
		verbose:  verbose,
	}
}

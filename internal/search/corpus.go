package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mekorot-project/mekorot/internal/llm"
	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/sefaria"
	"github.com/mekorot-project/mekorot/internal/worker"
)

const (
	reduceMaxOutputTokens = 8192
	reduceThinkingBudget  = 2048
)

// Stage names a phase of a corpus search, for progress reporting.
type Stage string

const (
	StageSearching Stage = "searching"
	StageReducing  Stage = "reducing"
	StageDone      Stage = "done"
)

// ProgressFunc receives coarse progress updates during a corpus search.
// May be nil.
type ProgressFunc func(percent int, stage Stage)

func report(progress ProgressFunc, percent int, stage Stage) {
	if progress != nil {
		progress(percent, stage)
	}
}

// SplitChunks cuts text into overlapping windows of at most size bytes with
// the given overlap between consecutive windows. Window boundaries are backed
// off to rune starts so a multi-byte character is never split; the overlap
// keeps every passage fully inside at least one chunk.
func SplitChunks(text string, size, overlap int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	step := size - overlap
	var chunks []string
	start := 0
	for {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			return chunks
		}
		end = runeFloor(text, end)
		chunks = append(chunks, text[start:end])

		next := runeFloor(text, start+step)
		if next <= start {
			// Degenerate size/overlap for this alphabet; move forward anyway
			next = end
		}
		if next >= len(text) {
			return chunks
		}
		start = next
	}
}

// runeFloor returns the largest rune-start offset <= i
func runeFloor(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// SearchCorpus runs a map-reduce search over a user-supplied corpus: each
// chunk is scanned independently for relevant passages (map), then the
// union of passages is filtered down to the sources that actually answer
// the query (reduce). A chunk whose scan fails costs its passages only.
// Zero passages across every chunk is an empty success, not an error.
func (s *Searcher) SearchCorpus(ctx context.Context, query string, corpus model.Corpus, limit int, lang model.Language, progress ProgressFunc) (*model.SimpleResponse, error) {
	report(progress, 5, StageSearching)

	chunks := SplitChunks(corpus.Content, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if s.verbose {
		fmt.Fprintf(os.Stderr, "scanning corpus %q in %d chunks\n", corpus.Name, len(chunks))
	}

	results := worker.Map(ctx, s.cfg.FanoutWorkers, chunks, func(ctx context.Context, chunk string) ([]string, error) {
		return s.mapChunk(ctx, query, chunk, lang)
	})

	var quotes []string
	for _, r := range results {
		if r.Err != nil {
			if s.verbose {
				fmt.Fprintf(os.Stderr, "warning: chunk %d scan failed: %v\n", r.Index, r.Err)
			}
			continue
		}
		quotes = append(quotes, r.Value...)
	}

	if len(quotes) == 0 {
		report(progress, 100, StageDone)
		return &model.SimpleResponse{
			Sources:      []model.Source{},
			QuestionType: model.QuestionTheoretical,
		}, nil
	}
	if len(quotes) > s.cfg.MaxReduceQuotes {
		quotes = quotes[:s.cfg.MaxReduceQuotes]
	}

	report(progress, 70, StageReducing)

	if limit <= 0 {
		limit = s.cfg.UnlimitedPrecise
	}

	quotesJSON, err := json.Marshal(quotes)
	if err != nil {
		return nil, fmt.Errorf("marshal corpus quotes: %w", err)
	}

	text, err := s.provider.Generate(ctx, llm.Request{
		System:          reducerSystem(lang, corpus.Name, limit),
		Prompt:          fmt.Sprintf("Original query: %q\n\nCandidate quotes from %q:\n%s", query, corpus.Name, quotesJSON),
		Schema:          simpleResponseSchema(),
		MaxOutputTokens: reduceMaxOutputTokens,
		ThinkingBudget:  reduceThinkingBudget,
	})
	if err != nil {
		return nil, fmt.Errorf("corpus reduce call: %w", err)
	}

	raw, err := decodeWire[wireSimpleResponse](text)
	if err != nil {
		return nil, err
	}

	sources := corpusSources(raw.Sources, corpus)
	report(progress, 100, StageDone)

	// A summary is only as good as the quotes backing it: when every reduced
	// quote failed containment, drop the model's prose along with them
	if len(sources) == 0 {
		return &model.SimpleResponse{
			Sources:      []model.Source{},
			QuestionType: questionType(raw.QuestionType),
		}, nil
	}

	return &model.SimpleResponse{
		Sources:      sources,
		Summary:      sefaria.UnescapeEntities(raw.Summary),
		FollowUps:    raw.FollowUps,
		QuestionType: questionType(raw.QuestionType),
	}, nil
}

// mapChunk extracts candidate passages from one chunk.
func (s *Searcher) mapChunk(ctx context.Context, query, chunk string, lang model.Language) ([]string, error) {
	text, err := s.provider.Generate(ctx, llm.Request{
		System: mapperSystem(lang),
		Prompt: fmt.Sprintf("Question: %q\n\nText segment:\n\"\"\"\n%s\n\"\"\"", query, chunk),
		Schema: stringListSchema(),
	})
	if err != nil {
		return nil, err
	}

	var quotes []string
	if err := json.Unmarshal([]byte(text), &quotes); err != nil {
		return nil, fmt.Errorf("malformed model output: %w", err)
	}

	out := quotes[:0]
	for _, q := range quotes {
		if strings.TrimSpace(q) != "" {
			out = append(out, q)
		}
	}
	return out, nil
}

// corpusSources converts reduce output to final sources. Corpus sources are
// not repository-addressable: no ref, no link, Personal category, and the
// corpus name as the book. Containment is checked against the corpus
// content itself.
func corpusSources(claimed []wireSource, corpus model.Corpus) []model.Source {
	sources := make([]model.Source, 0, len(claimed))
	for _, src := range claimed {
		quote := sefaria.UnescapeEntities(src.Quote)
		if strings.TrimSpace(sefaria.StripTags(quote)) == "" {
			continue
		}
		if !quoteContained(corpus.Content, quote) {
			continue
		}

		displayName := src.DisplayName
		if displayName == "" {
			displayName = corpus.Name
		}

		sources = append(sources, model.Source{
			ID:          uuid.NewString(),
			DisplayName: displayName,
			Quote:       quote,
			Book:        corpus.Name,
			Category:    string(model.CategoryPersonal),
		})
	}
	return sources
}

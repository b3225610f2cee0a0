package sefaria

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/util"
)

const maxBodyBytes = 4 << 20

// TextRecord is the repository's answer for one reference. Read-only;
// fetched fresh per query, never cached locally.
type TextRecord struct {
	Ref    string // Canonical reference
	HeRef  string // Canonical Hebrew display reference
	Book   string // Book name (English)
	HeBook string // Book name (Hebrew)
	Text   string // Flattened text, may contain inline markup
}

// Client fetches texts from the repository through an ordered relay list
type Client struct {
	httpClient *http.Client
	baseURL    string
	relays     []Relay
	cfg        model.SefariaConfig
	verbose    bool
}

// NewClient creates a repository client. An empty relay list with
// cfg.Direct unset falls back to the production relays.
func NewClient(cfg model.SefariaConfig, relays []Relay, verbose bool) *Client {
	if len(relays) == 0 && !cfg.Direct {
		relays = DefaultRelays()
	}
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		relays:  relays,
		cfg:     cfg,
		verbose: verbose,
	}
}

// FetchText resolves a reference to its repository text. On a structured
// not-found error for a reference that lacks a trailing segment index, it
// retries exactly once with a synthesized ".1" suffix (chapter-level refs
// often need a segment). Any error means "this candidate is unusable";
// fan-out callers drop it, the single-source viewer shows it.
func (c *Client) FetchText(ctx context.Context, ref string) (*TextRecord, error) {
	rec, err := c.lookup(ctx, ref)
	var nf *NotFoundError
	if errors.As(err, &nf) && !hasSegmentSuffix(ref) {
		if c.verbose {
			fmt.Fprintf(os.Stderr, "ref %q not found, retrying with segment .1\n", ref)
		}
		return c.lookup(ctx, strings.TrimSpace(ref)+".1")
	}
	return rec, err
}

func (c *Client) lookup(ctx context.Context, ref string) (*TextRecord, error) {
	target := fmt.Sprintf("%s/api/texts/%s?context=0", c.baseURL, NormalizeRef(ref))

	body, err := c.get(ctx, target)
	if err != nil {
		return nil, err
	}

	var payload textResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode repository response for %q: %w", ref, err)
	}

	if payload.Error != "" {
		if isNotFoundPayload(payload.Error) {
			return nil, &NotFoundError{Ref: ref, Message: payload.Error}
		}
		return nil, fmt.Errorf("repository error for %q: %s", ref, payload.Error)
	}

	text := flattenLines(payload.He)
	if text == "" {
		// English-only works carry their text in the secondary field
		text = flattenLines(payload.Text)
	}
	if text == "" {
		return nil, fmt.Errorf("%w for %q", ErrEmptyText, ref)
	}

	return &TextRecord{
		Ref:    payload.Ref,
		HeRef:  payload.HeRef,
		Book:   payload.Book,
		HeBook: payload.HeBook,
		Text:   text,
	}, nil
}

// get walks the relay list in order with a bounded per-attempt timeout and
// returns the first HTTP-OK body. In direct mode it calls the target once.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	if c.cfg.Direct {
		return c.attempt(ctx, "direct", target)
	}

	var lastErr error
	for _, relay := range c.relays {
		body, err := c.attempt(ctx, relay.Name, relay.RequestURL(target))
		if err == nil {
			return body, nil
		}
		lastErr = err
		if c.verbose {
			fmt.Fprintf(os.Stderr, "relay %s failed: %v\n", relay.Name, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w for %s: %v", ErrRelaysExhausted, target, lastErr)
}

func (c *Client) attempt(ctx context.Context, name, url string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request via %s: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch via %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch via %s: unexpected status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body via %s: %w", name, err)
	}
	return body, nil
}

// textResponse mirrors the repository's read API payload. The text fields
// arrive as either a string or an array of line strings.
type textResponse struct {
	Ref    string          `json:"ref"`
	HeRef  string          `json:"heRef"`
	Book   string          `json:"book"`
	HeBook string          `json:"heBook"`
	He     json.RawMessage `json:"he"`
	Text   json.RawMessage `json:"text"`
	Error  string          `json:"error"`
}

// flattenLines accepts a string or a flat array of strings and joins the
// latter with single spaces
func flattenLines(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		return strings.TrimSpace(strings.Join(lines, " "))
	}
	return ""
}

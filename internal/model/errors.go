package model

import "errors"

// User-visible pipeline failures. Each maps to a distinct message in the CLI;
// none is retried automatically.
var (
	// ErrNoCandidates: the model proposed no references at all
	ErrNoCandidates = errors.New("no sources found")

	// ErrNoResolvableText: every candidate's repository lookup failed,
	// which implies the model hallucinated the references
	ErrNoResolvableText = errors.New("failed to retrieve texts from the repository")

	// ErrNoVerifiedSources: texts resolved but none passed the relevance
	// filter; rephrasing the question may help
	ErrNoVerifiedSources = errors.New("no verified sources found")

	// ErrNoDisputes: no dispute survived opinion-level verification
	ErrNoDisputes = errors.New("no disputes identified in sources")
)

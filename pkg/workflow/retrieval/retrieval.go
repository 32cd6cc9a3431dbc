package retrieval

import "context"

// Passage is one retrieved snippet plus its attribution metadata.
type Passage struct {
	Content string
	// Source is the human-readable attribution label surfaced to callers.
	Source string
	// Rank is the 1-based position in the result ordering.
	Rank int
	// Distance is the raw store distance/score when the backend reports one.
	Distance *float64
}

// Retriever queries a semantic store for passages scoped to one clinic's
// documents. Implementations must return a flat, rank-ordered slice no
// matter what shape the underlying store produces, must treat an empty or
// never-populated scope as an empty result, and must swallow adapter-level
// failures (empty slice, no error) so callers can apply their own fallback
// messaging.
type Retriever interface {
	Retrieve(ctx context.Context, query string, scopeKey string, k int) []Passage
}

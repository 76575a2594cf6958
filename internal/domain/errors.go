package domain

import "errors"

var (
	// ErrNoLikedMatches signals that none of the requested liked listing ids
	// exist in the batch. A taste vector cannot be derived from nothing.
	ErrNoLikedMatches = errors.New("no liked listings found in batch")
	// ErrDimMismatch signals a vector dimension mismatch.
	ErrDimMismatch = errors.New("vector dimension mismatch")
	// ErrMissingColumn signals that a pipeline stage was invoked before the
	// derived column it depends on was produced. Caller-ordering bug, not data.
	ErrMissingColumn = errors.New("required derived column missing")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrBudgetExceeded signals an exhausted embedding token budget.
	ErrBudgetExceeded = errors.New("embedding token budget exceeded")
	// ErrEmptyQuery signals a ranking request without a query.
	ErrEmptyQuery = errors.New("query must not be empty")
)

package search

import (
	"context"

	"github.com/kailas-cloud/caselens/internal/domain/answer"
	"github.com/kailas-cloud/caselens/internal/domain/search/raw"
)

// Searcher fetches one batch of raw results from the search backend.
type Searcher interface {
	Search(ctx context.Context, req raw.Request) (raw.Response, error)
}

// Answerer generates an AI answer over a window of raw results.
type Answerer interface {
	Answer(ctx context.Context, req answer.Request) (answer.Answer, error)
}

package casefile

import (
	"context"

	domcase "github.com/kailas-cloud/caselens/internal/domain/casefile"
)

// Lookup fetches a case and its docket entries.
type Lookup interface {
	Case(ctx context.Context, docket string) (domcase.File, error)
}

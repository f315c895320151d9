package document

import (
	"context"

	domdoc "github.com/kailas-cloud/caselens/internal/domain/document"
)

// Signer exchanges a document id for a time-limited signed URL.
type Signer interface {
	SignURL(ctx context.Context, documentID string) (domdoc.Link, error)
}

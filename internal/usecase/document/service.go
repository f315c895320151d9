package document

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/domain"
	domdoc "github.com/kailas-cloud/caselens/internal/domain/document"
	"github.com/kailas-cloud/caselens/internal/logger"
)

// Service resolves document URLs into links the UI can open.
type Service struct {
	signer Signer
	scheme string
}

// New creates a document service. An empty scheme uses domdoc.DefaultStorageScheme.
func New(signer Signer, storageScheme string) *Service {
	if storageScheme == "" {
		storageScheme = domdoc.DefaultStorageScheme
	}
	return &Service{signer: signer, scheme: storageScheme}
}

// View returns the link to open for url. Storage bucket URLs are signed
// first; when signing fails the unsigned URL is returned instead of an error.
func (s *Service) View(ctx context.Context, url string) (domdoc.Link, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return domdoc.Link{}, fmt.Errorf("document url is required: %w", domain.ErrInvalidArgument)
	}
	if !domdoc.IsStorageURL(url, s.scheme) {
		return domdoc.NewUnsigned(url), nil
	}

	id := domdoc.IDFromURL(url)
	if id == "" {
		return domdoc.NewUnsigned(url), nil
	}

	link, err := s.signer.SignURL(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Warn("signing failed, opening unsigned url",
			zap.String("document_id", id),
			zap.Error(err),
		)
		return domdoc.NewUnsigned(url), nil
	}
	return link, nil
}

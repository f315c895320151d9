package casefile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/domain"
	domcase "github.com/kailas-cloud/caselens/internal/domain/casefile"
	"github.com/kailas-cloud/caselens/internal/logger"
)

// LookupError is a failed lookup with a message safe to show to the user.
// It unwraps to the underlying error so the domain sentinels still match.
type LookupError struct {
	Docket  string
	Message string
	Err     error
}

func (e *LookupError) Error() string { return e.Message }
func (e *LookupError) Unwrap() error { return e.Err }

// Service looks up cases by docket number.
type Service struct {
	lookup Lookup
}

// New creates a case lookup service.
func New(lookup Lookup) *Service {
	return &Service{lookup: lookup}
}

// Get returns the case for docket.
func (s *Service) Get(ctx context.Context, docket string) (domcase.File, error) {
	d, err := domcase.NormalizeDocket(docket)
	if err != nil {
		return domcase.File{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}

	f, err := s.lookup.Case(ctx, d)
	if err != nil {
		logger.FromContext(ctx).Warn("case lookup failed", zap.String("docket", d), zap.Error(err))
		return domcase.File{}, &LookupError{Docket: d, Message: lookupMessage(d, err), Err: err}
	}
	return f, nil
}

func lookupMessage(docket string, err error) string {
	var apiErr *domain.APIError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("Case %q not found", docket)
	case errors.As(err, &apiErr) && apiErr.Status == domain.StatusNetwork:
		return fmt.Sprintf("Case details not available for %q", docket)
	default:
		return domain.APIMessage(err)
	}
}

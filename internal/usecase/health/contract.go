package health

import "context"

// BackendChecker checks search backend availability.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks case cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// AnswerChecker checks a standalone answer provider.
type AnswerChecker interface {
	HealthCheck(ctx context.Context) error
}

// Package backend is the HTTP+JSON client for the remote case search backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/domain"
	"github.com/kailas-cloud/caselens/internal/domain/answer"
	"github.com/kailas-cloud/caselens/internal/domain/casefile"
	"github.com/kailas-cloud/caselens/internal/domain/document"
	"github.com/kailas-cloud/caselens/internal/domain/search/raw"
	"github.com/kailas-cloud/caselens/internal/metrics"
)

// Backend endpoints.
const (
	PathSearch    = "/api/search"
	PathAnswer    = "/api/answer"
	PathCase      = "/api/case/"
	PathSignedURL = "/api/generate_signed_url"
	PathHealth    = "/health"
)

const (
	defaultAPITimeout    = 30 * time.Second
	defaultSearchTimeout = 15 * time.Second
	maxErrorBody         = 64 << 10
	healthyStatus        = "healthy"
)

// Config holds the backend client settings.
type Config struct {
	BaseURL       string
	APITimeout    time.Duration
	SearchTimeout time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Client calls the search, answer, case and signing endpoints. The caller's
// bearer token is taken from the request context and forwarded unchanged.
type Client struct {
	http          *http.Client
	baseURL       string
	apiTimeout    time.Duration
	searchTimeout time.Duration
	retryAttempts uint
	retryDelay    time.Duration
	logger        *zap.Logger
}

// NewClient creates a backend client.
func NewClient(cfg *Config) *Client {
	c := &Client{
		http:          cfg.HTTPClient,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiTimeout:    cfg.APITimeout,
		searchTimeout: cfg.SearchTimeout,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		logger:        cfg.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.apiTimeout <= 0 {
		c.apiTimeout = defaultAPITimeout
	}
	if c.searchTimeout <= 0 {
		c.searchTimeout = defaultSearchTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Search fetches one batch of results.
func (c *Client) Search(ctx context.Context, req raw.Request) (raw.Response, error) {
	var resp raw.Response
	if err := c.do(ctx, "search", http.MethodPost, PathSearch, req, c.searchTimeout, &resp); err != nil {
		return raw.Response{}, err
	}
	return resp, nil
}

// Answer generates an AI answer over the given results.
func (c *Client) Answer(ctx context.Context, req answer.Request) (answer.Answer, error) {
	body := answerRequest{Query: req.Query, SearchResults: req.Results, SessionLink: req.SessionLink}
	if body.SearchResults == nil {
		body.SearchResults = []raw.Result{}
	}
	var resp answerResponse
	if err := c.do(ctx, "answer", http.MethodPost, PathAnswer, body, c.apiTimeout, &resp); err != nil {
		return answer.Answer{}, err
	}
	return resp.toDomain(), nil
}

// Case fetches case details and docket entries by docket number.
func (c *Client) Case(ctx context.Context, docket string) (casefile.File, error) {
	var resp caseResponse
	endpoint := PathCase + url.PathEscape(docket)
	if err := c.do(ctx, "case", http.MethodGet, endpoint, nil, c.apiTimeout, &resp); err != nil {
		return casefile.File{}, err
	}
	return resp.toDomain(), nil
}

// SignURL exchanges a document id for a time-limited signed URL.
// Every failure wraps domain.ErrSigningFailed.
func (c *Client) SignURL(ctx context.Context, documentID string) (document.Link, error) {
	var resp signedURLResponse
	err := c.do(ctx, "signed_url", http.MethodPost, PathSignedURL,
		signedURLRequest{DocumentID: documentID}, c.apiTimeout, &resp)
	if err != nil {
		return document.Link{}, fmt.Errorf("%w: %w", domain.ErrSigningFailed, err)
	}
	link, err := document.NewSigned(resp.SignedURL, time.Duration(resp.ExpiresIn)*time.Second)
	if err != nil {
		return document.Link{}, fmt.Errorf("%w: %w", domain.ErrSigningFailed, err)
	}
	return link, nil
}

// HealthCheck verifies the backend reports itself healthy.
func (c *Client) HealthCheck(ctx context.Context) error {
	var resp healthResponse
	if err := c.do(ctx, "health", http.MethodGet, PathHealth, nil, c.apiTimeout, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != healthyStatus {
		return fmt.Errorf("backend reports %q: %w", resp.Status, domain.ErrUnavailable)
	}
	return nil
}

// do sends one JSON request with retries and decodes the response into out.
// Failures are returned as *domain.APIError: status 0 when no response was
// received, 408 when the per-call timeout elapsed.
func (c *Client) do(
	ctx context.Context, name, method, endpoint string, in any, timeout time.Duration, out any,
) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", name, err)
		}
		payload = b
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := retry.Do(
		func() error { return c.attempt(callCtx, method, endpoint, payload, out) },
		retry.Context(callCtx),
		retry.Attempts(c.retryAttempts+1),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			metrics.BackendRetriesTotal.WithLabelValues(name).Inc()
			c.logger.Warn("retrying backend request",
				zap.String("endpoint", name),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	metrics.BackendRequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		err = classify(ctx, callCtx, endpoint, timeout, err)
		metrics.BackendRequestsTotal.WithLabelValues(name, statusLabel(err)).Inc()
		return err
	}
	metrics.BackendRequestsTotal.WithLabelValues(name, "ok").Inc()
	return nil
}

func (c *Client) attempt(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := domain.BearerTokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return retry.Unrecoverable(ctx.Err())
		}
		return domain.NewAPIError(domain.StatusNetwork, endpoint, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.NewAPIError(resp.StatusCode, endpoint, errorMessage(resp.StatusCode, data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return retry.Unrecoverable(ctx.Err())
		}
		return retry.Unrecoverable(domain.NewAPIError(resp.StatusCode, endpoint,
			fmt.Sprintf("invalid response body: %v", err)))
	}
	return nil
}

// errorMessage picks the backend's message, then its error field, then a generic text.
func errorMessage(status int, body []byte) string {
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

func isRetryable(err error) bool {
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case domain.StatusNetwork, http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// classify turns context errors into APIErrors. A deadline on the call
// context is a timeout (408); a cancelled parent is a network failure (0).
func classify(parent, call context.Context, endpoint string, timeout time.Duration, err error) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(call.Err(), context.DeadlineExceeded) {
		if parent.Err() == nil || errors.Is(parent.Err(), context.DeadlineExceeded) {
			return domain.NewAPIError(http.StatusRequestTimeout, endpoint,
				fmt.Sprintf("Request timeout after %dms", timeout.Milliseconds()))
		}
	}
	return domain.NewAPIError(domain.StatusNetwork, endpoint, err.Error())
}

func statusLabel(err error) string {
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		return "error"
	}
	switch apiErr.Status {
	case domain.StatusNetwork:
		return "network"
	case http.StatusRequestTimeout:
		return "timeout"
	default:
		return strconv.Itoa(apiErr.Status)
	}
}

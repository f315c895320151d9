package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/caselens/internal/domain"
	"github.com/kailas-cloud/caselens/internal/domain/answer"
	"github.com/kailas-cloud/caselens/internal/domain/search/raw"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{
		BaseURL:       srv.URL + "/",
		APITimeout:    2 * time.Second,
		SearchTimeout: 2 * time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	})
}

func TestSearch_Success(t *testing.T) {
	var got raw.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathSearch, r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"search_results":[{"id":"a"},{"id":"b"}],"count":45,
			"pagination":{"current_page":1,"total_pages":1},"session":"sess-1"}`))
	})

	ctx := domain.ContextWithBearerToken(context.Background(), "tok-1")
	resp, err := c.Search(ctx, raw.Request{Query: "foo", Page: 1, PageSize: 100})
	require.NoError(t, err)
	assert.Equal(t, "foo", got.Query)
	assert.Equal(t, 100, got.PageSize)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 45, resp.Count)
	assert.Equal(t, "sess-1", resp.Session)
}

func TestSearch_NoTokenNoHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"search_results":[]}`))
	})
	_, err := c.Search(context.Background(), raw.Request{Query: "q"})
	require.NoError(t, err)
}

func TestDo_ErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		want     string
		sentinel error
	}{
		{"message field", 500, `{"message":"index offline"}`, "index offline", domain.ErrBackend},
		{"error field", 400, `{"error":"bad query"}`, "bad query", domain.ErrBackend},
		{"not json", 500, `<html>oops</html>`, "Request failed with status 500", domain.ErrBackend},
		{"not found", 404, `{}`, "Request failed with status 404", domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Search(context.Background(), raw.Request{Query: "q"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var apiErr *domain.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, PathSearch, apiErr.Endpoint)
		})
	}
}

func TestDo_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"search_results":[{"id":"a"}],"count":1}`))
	})
	resp, err := c.Search(context.Background(), raw.Request{Query: "q"})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.Search(context.Background(), raw.Request{Query: "q"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Search(context.Background(), raw.Request{Query: "q"})
	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c := NewClient(&Config{BaseURL: srv.URL, SearchTimeout: 50 * time.Millisecond})

	_, err := c.Search(context.Background(), raw.Request{Query: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusRequestTimeout, apiErr.Status)
	assert.Equal(t, "Request timeout after 50ms", apiErr.Message)
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(&Config{BaseURL: base, RetryAttempts: 1, RetryDelay: time.Millisecond})
	_, err := c.Search(context.Background(), raw.Request{Query: "q"})
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.StatusNetwork, apiErr.Status)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestAnswer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathAnswer, r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "q", body["query"])
		assert.Equal(t, "sess", body["session_link"])
		assert.Len(t, body["searchResults"], 1)
		_, _ = w.Write([]byte(`{"answer":"The answer.","sources":["doc-1",{"text":"t","source":"doc-2","page":3}],
			"followUp_questions":["Why?",""]}`))
	})

	a, err := c.Answer(context.Background(), answer.Request{
		Query: "q", Results: []raw.Result{{ID: "a"}}, SessionLink: "sess",
	})
	require.NoError(t, err)
	assert.Equal(t, "The answer.", a.Text())
	assert.Equal(t, []string{"Why?"}, a.FollowUps())
	require.Len(t, a.Sources(), 2)
	assert.Equal(t, "doc-1", a.Sources()[0].Source)
	assert.Equal(t, 3, a.Sources()[1].Page)
}

func TestCase(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/case/123-45", r.URL.Path)
		_, _ = w.Write([]byte(`{"case":{"docket_number":"123-45","case_name":"Roe v. Commissioner","status":"open"},
			"docket_entries":[{"docket_entry_id":"e1","document_type":"Order","document_url":"gs://b/e1.pdf"}]}`))
	})

	f, err := c.Case(context.Background(), "123-45")
	require.NoError(t, err)
	assert.Equal(t, "Roe v. Commissioner", f.Case.CaseName)
	require.Len(t, f.Entries, 1)
	assert.Equal(t, "gs://b/e1.pdf", f.Entries[0].DocumentURL)
}

func TestSignURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body signedURLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "doc-7", body.DocumentID)
		_, _ = w.Write([]byte(`{"signed_url":"https://signed/doc-7?sig=x","expires_in":900}`))
	})

	link, err := c.SignURL(context.Background(), "doc-7")
	require.NoError(t, err)
	assert.True(t, link.Signed())
	assert.Equal(t, "https://signed/doc-7?sig=x", link.URL())
	assert.Equal(t, 15*time.Minute, link.ExpiresIn())
}

func TestSignURL_Failures(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusForbidden) },
		"empty url":    func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"expires_in":60}`)) },
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, handler)
			_, err := c.SignURL(context.Background(), "doc")
			assert.ErrorIs(t, err, domain.ErrSigningFailed)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	var unhealthy atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathHealth, r.URL.Path)
		status := "healthy"
		if unhealthy.Load() {
			status = "unhealthy"
		}
		_ = json.NewEncoder(w).Encode(healthResponse{Status: status, Service: "backend"})
	})
	require.NoError(t, c.HealthCheck(context.Background()))

	unhealthy.Store(true)
	assert.ErrorIs(t, c.HealthCheck(context.Background()), domain.ErrUnavailable)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "network", statusLabel(domain.NewAPIError(0, "/x", "down")))
	assert.Equal(t, "timeout", statusLabel(domain.NewAPIError(408, "/x", "slow")))
	assert.Equal(t, "503", statusLabel(domain.NewAPIError(503, "/x", "busy")))
	assert.Equal(t, "error", statusLabel(errors.New("other")))
}

// Package chi exposes the research API over HTTP with a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/domain"
	caseuc "github.com/kailas-cloud/caselens/internal/usecase/casefile"
	documentuc "github.com/kailas-cloud/caselens/internal/usecase/document"
	healthuc "github.com/kailas-cloud/caselens/internal/usecase/health"
	searchuc "github.com/kailas-cloud/caselens/internal/usecase/search"
)

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the session, document, case and health endpoints.
type Server struct {
	sessions      *searchuc.Registry
	documents     *documentuc.Service
	cases         *caseuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sessions *searchuc.Registry,
	documents *documentuc.Service,
	cases *caseuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sessions:  sessions,
		documents: documents,
		cases:     cases,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotReady, http.StatusConflict, ErrorCodeNotReady),
		sentinelHandler(domain.ErrSessionLimit, http.StatusServiceUnavailable, ErrorCodeSessionLimit),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrUnavailable, http.StatusServiceUnavailable, ErrorCodeBackendUnavailable),
		sentinelHandler(domain.ErrBackend, http.StatusBadGateway, ErrorCodeBackendError),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chirouter.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1/sessions/{session}", func(r chirouter.Router) {
		r.Post("/search", s.Search)
		r.Get("/results", s.Results)
		r.Post("/filters/toggle", s.ToggleFilter)
		r.Delete("/filters", s.ClearFilters)
		r.Post("/pages/next", s.NextPage)
		r.Post("/pages/prev", s.PrevPage)
		r.Get("/answer", s.Answer)
		r.Post("/documents/view", s.ViewDocument)
		r.Delete("/", s.DeleteSession)
	})
	r.Get("/v1/cases/{docket}", s.GetCase)
}

// Search handles POST /v1/sessions/{session}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionParam(w, r)
	if !ok {
		return
	}
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	view, err := sess.Search(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(view))
}

// Results handles GET /v1/sessions/{session}/results.
func (s *Server) Results(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.existingSession(w, r)
	if !ok {
		return
	}

	var params ResultsParams
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &params.Page); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest,
			fmt.Sprintf("Invalid format for parameter page: %s", err))
		return
	}
	p := 0
	if params.Page != nil {
		if *params.Page < 1 {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "page must be at least 1")
			return
		}
		p = *params.Page
	}
	writeJSON(w, http.StatusOK, viewToResponse(sess.Results(p)))
}

// ToggleFilter handles POST /v1/sessions/{session}/filters/toggle.
func (s *Server) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.existingSession(w, r)
	if !ok {
		return
	}
	var req ToggleFilterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.writeView(w, func() (searchuc.View, error) { return sess.ToggleFilter(req.Tag) })
}

// ClearFilters handles DELETE /v1/sessions/{session}/filters.
func (s *Server) ClearFilters(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.existingSession(w, r); ok {
		s.writeView(w, sess.ClearFilters)
	}
}

// NextPage handles POST /v1/sessions/{session}/pages/next.
func (s *Server) NextPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.existingSession(w, r); ok {
		s.writeView(w, sess.NextPage)
	}
}

// PrevPage handles POST /v1/sessions/{session}/pages/prev.
func (s *Server) PrevPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.existingSession(w, r); ok {
		s.writeView(w, sess.PrevPage)
	}
}

// Answer handles GET /v1/sessions/{session}/answer.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.existingSession(w, r); ok {
		writeJSON(w, http.StatusOK, answerToResponse(sess.Answer()))
	}
}

// ViewDocument handles POST /v1/sessions/{session}/documents/view.
func (s *Server) ViewDocument(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.existingSession(w, r); !ok {
		return
	}
	var req DocumentViewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	link, err := s.documents.View(r.Context(), req.URL)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, linkToResponse(link))
}

// DeleteSession handles DELETE /v1/sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionParam(w, r)
	if !ok {
		return
	}
	if !s.sessions.Delete(id) {
		writeError(w, http.StatusNotFound, ErrorCodeSessionNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCase handles GET /v1/cases/{docket}.
func (s *Server) GetCase(w http.ResponseWriter, r *http.Request) {
	var docket string
	err := runtime.BindStyledParameterWithOptions("simple", "docket", chirouter.URLParam(r, "docket"), &docket,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest,
			fmt.Sprintf("Invalid format for parameter docket: %s", err))
		return
	}

	file, err := s.cases.Get(r.Context(), docket)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, caseToResponse(file))
}

// HealthCheck handles GET /health. Only an unreachable backend fails the
// check; a degraded optional component still answers 200.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthToResponse(report))
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) sessionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "session", chirouter.URLParam(r, "session"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest,
			fmt.Sprintf("Invalid format for parameter session: %s", err))
		return "", false
	}
	if len(id) > searchuc.MaxSessionIDLength {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("session id too long (max %d)", searchuc.MaxSessionIDLength))
		return "", false
	}
	return id, true
}

// existingSession resolves the session without creating one.
func (s *Server) existingSession(w http.ResponseWriter, r *http.Request) (*searchuc.Session, bool) {
	id, ok := s.sessionParam(w, r)
	if !ok {
		return nil, false
	}
	sess, ok := s.sessions.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeSessionNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) writeView(w http.ResponseWriter, op func() (searchuc.View, error)) {
	view, err := op()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToResponse(view))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// clientMessage returns the message shown to the client without exposing
// internals. Case lookup failures carry their own user-facing text and
// argument errors describe the offending input.
func clientMessage(err error) string {
	var lookupErr *caseuc.LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Message
	}
	if errors.Is(err, domain.ErrInvalidArgument) {
		return err.Error()
	}
	return safeDomainMessage(err)
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrInvalidArgument,
		domain.ErrNotReady,
		domain.ErrSessionLimit,
		domain.ErrNotFound,
		domain.ErrUnavailable,
		domain.ErrBackend,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := clientMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

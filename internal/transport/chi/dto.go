package chi

import (
	"github.com/kailas-cloud/caselens/internal/domain/answer"
	domcase "github.com/kailas-cloud/caselens/internal/domain/casefile"
	domdoc "github.com/kailas-cloud/caselens/internal/domain/document"
	"github.com/kailas-cloud/caselens/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/caselens/internal/usecase/health"
	searchuc "github.com/kailas-cloud/caselens/internal/usecase/search"
)

// ErrorCode is the machine-readable code in error responses.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeSessionNotFound    ErrorCode = "session_not_found"
	ErrorCodeNotReady           ErrorCode = "not_ready"
	ErrorCodeSessionLimit       ErrorCode = "session_limit"
	ErrorCodeBackendUnavailable ErrorCode = "backend_unavailable"
	ErrorCodeBackendError       ErrorCode = "backend_error"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the body of POST /v1/sessions/{session}/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// ToggleFilterRequest is the body of POST /v1/sessions/{session}/filters/toggle.
type ToggleFilterRequest struct {
	Tag string `json:"tag"`
}

// DocumentViewRequest is the body of POST /v1/sessions/{session}/documents/view.
type DocumentViewRequest struct {
	URL string `json:"url"`
}

// ResultsParams holds the query parameters of GET /v1/sessions/{session}/results.
type ResultsParams struct {
	Page *int `form:"page,omitempty" json:"page,omitempty"`
}

// ResultItem is one normalized search result.
type ResultItem struct {
	ID           string `json:"id"`
	DisplayTitle string `json:"display_title"`
	DocumentType string `json:"document_type"`
	DocketNumber string `json:"docket_number,omitempty"`
	FilingDate   string `json:"filing_date,omitempty"`
	JudgeName    string `json:"judge_name,omitempty"`
	Court        string `json:"court,omitempty"`
	CaseType     string `json:"case_type,omitempty"`
	Snippet      string `json:"snippet"`
	DocumentURL  string `json:"document_url,omitempty"`
	ExhibitID    string `json:"exhibit_id,omitempty"`
	MatterID     string `json:"matter_id,omitempty"`
}

// Facet is a document type with its count in the cached batch.
type Facet struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ViewResponse is the current filtered, paginated window.
type ViewResponse struct {
	Query         string       `json:"query"`
	State         string       `json:"state"`
	Items         []ResultItem `json:"items"`
	TotalCount    int          `json:"total_count"`
	FilteredCount int          `json:"filtered_count"`
	Page          int          `json:"page"`
	TotalPages    int          `json:"total_pages"`
	Filters       []string     `json:"filters"`
	Facets        []Facet      `json:"facets"`
	Error         string       `json:"error,omitempty"`
}

// Source is an answer citation.
type Source struct {
	Text   string `json:"text,omitempty"`
	Source string `json:"source"`
	URL    string `json:"url,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// AnswerResponse is the AI answer state for the current query.
type AnswerResponse struct {
	Status    string   `json:"status"`
	Text      string   `json:"text,omitempty"`
	FollowUps []string `json:"follow_ups"`
	Sources   []Source `json:"sources"`
}

// DocumentViewResponse is the link to open for a document.
type DocumentViewResponse struct {
	URL       string `json:"url"`
	Signed    bool   `json:"signed"`
	ExpiresIn int64  `json:"expires_in,omitempty"`
}

// Case is a case summary.
type Case struct {
	DocketNumber string `json:"docket_number"`
	CaseName     string `json:"case_name"`
	FilingDate   string `json:"filing_date,omitempty"`
	Status       string `json:"status,omitempty"`
	Judge        string `json:"judge,omitempty"`
	Petitioner   string `json:"petitioner,omitempty"`
	Respondent   string `json:"respondent,omitempty"`
}

// DocketEntry is one entry on a case docket.
type DocketEntry struct {
	ID           string `json:"docket_entry_id"`
	DocketNumber string `json:"docket_number,omitempty"`
	FiledDate    string `json:"filed_date,omitempty"`
	FilingDate   string `json:"filing_date,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	Description  string `json:"description,omitempty"`
	FiledBy      string `json:"filed_by,omitempty"`
	DocumentURL  string `json:"document_url,omitempty"`
}

// CaseResponse is the body of GET /v1/cases/{docket}.
type CaseResponse struct {
	Case          Case          `json:"case"`
	DocketEntries []DocketEntry `json:"docket_entries"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func resultToResponse(r result.Result) ResultItem {
	return ResultItem{
		ID:           r.ID(),
		DisplayTitle: r.DisplayTitle(),
		DocumentType: r.DocumentType(),
		DocketNumber: r.DocketNumber(),
		FilingDate:   r.FilingDate(),
		JudgeName:    r.JudgeName(),
		Court:        r.Court(),
		CaseType:     r.CaseType(),
		Snippet:      r.Snippet(),
		DocumentURL:  r.DocumentURL(),
		ExhibitID:    r.ExhibitID(),
		MatterID:     r.MatterID(),
	}
}

func viewToResponse(v searchuc.View) ViewResponse {
	items := make([]ResultItem, len(v.Items))
	for i, r := range v.Items {
		items[i] = resultToResponse(r)
	}
	facets := make([]Facet, len(v.Facets))
	for i, f := range v.Facets {
		facets[i] = Facet{Value: f.Value, Count: f.Count}
	}
	filters := v.Filters
	if filters == nil {
		filters = []string{}
	}
	return ViewResponse{
		Query:         v.Query,
		State:         string(v.State),
		Items:         items,
		TotalCount:    v.TotalCount,
		FilteredCount: v.FilteredCount,
		Page:          v.Page,
		TotalPages:    v.TotalPages,
		Filters:       filters,
		Facets:        facets,
		Error:         v.Error,
	}
}

func answerToResponse(st answer.State) AnswerResponse {
	status := st.Status
	if status == "" {
		status = answer.StatusAbsent
	}
	resp := AnswerResponse{
		Status:    string(status),
		FollowUps: []string{},
		Sources:   []Source{},
	}
	if status != answer.StatusReady {
		return resp
	}
	resp.Text = st.Answer.Text()
	resp.FollowUps = append(resp.FollowUps, st.Answer.FollowUps()...)
	for _, s := range st.Answer.Sources() {
		resp.Sources = append(resp.Sources, Source{Text: s.Text, Source: s.Source, URL: s.URL, Page: s.Page})
	}
	return resp
}

func linkToResponse(l domdoc.Link) DocumentViewResponse {
	return DocumentViewResponse{
		URL:       l.URL(),
		Signed:    l.Signed(),
		ExpiresIn: int64(l.ExpiresIn().Seconds()),
	}
}

func caseToResponse(f domcase.File) CaseResponse {
	entries := make([]DocketEntry, len(f.Entries))
	for i, e := range f.Entries {
		entries[i] = DocketEntry(e)
	}
	return CaseResponse{Case: Case(f.Case), DocketEntries: entries}
}

func healthToResponse(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks}
}

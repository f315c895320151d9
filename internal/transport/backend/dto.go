package backend

import (
	"encoding/json"

	"github.com/kailas-cloud/caselens/internal/domain/answer"
	"github.com/kailas-cloud/caselens/internal/domain/casefile"
	"github.com/kailas-cloud/caselens/internal/domain/search/raw"
)

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type answerRequest struct {
	Query         string       `json:"query"`
	SearchResults []raw.Result `json:"searchResults"`
	SessionLink   string       `json:"session_link,omitempty"`
}

type answerResponse struct {
	Answer            string        `json:"answer"`
	Sources           []citationDTO `json:"sources"`
	FollowUpQuestions []string      `json:"followUp_questions"`
	SessionLink       string        `json:"session_link,omitempty"`
}

type citationDTO struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	URL    string `json:"url,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// UnmarshalJSON accepts both citation objects and bare source strings.
func (c *citationDTO) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = citationDTO{Source: s}
		return nil
	}
	type plain citationDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = citationDTO(p)
	return nil
}

func (r answerResponse) toDomain() answer.Answer {
	sources := make([]answer.Source, 0, len(r.Sources))
	for _, s := range r.Sources {
		sources = append(sources, answer.Source{Text: s.Text, Source: s.Source, URL: s.URL, Page: s.Page})
	}
	return answer.New(r.Answer, r.FollowUpQuestions, sources)
}

type caseResponse struct {
	Case          caseDTO          `json:"case"`
	DocketEntries []docketEntryDTO `json:"docket_entries"`
}

type caseDTO struct {
	DocketNumber string `json:"docket_number"`
	CaseName     string `json:"case_name"`
	FilingDate   string `json:"filing_date"`
	Status       string `json:"status"`
	Judge        string `json:"judge,omitempty"`
	Petitioner   string `json:"petitioner,omitempty"`
	Respondent   string `json:"respondent,omitempty"`
}

type docketEntryDTO struct {
	ID           string `json:"docket_entry_id"`
	DocketNumber string `json:"docket_number"`
	FiledDate    string `json:"filed_date"`
	DocumentType string `json:"document_type"`
	Description  string `json:"description"`
	FiledBy      string `json:"filed_by"`
	FilingDate   string `json:"filing_date"`
	DocumentURL  string `json:"document_url,omitempty"`
}

func (r caseResponse) toDomain() casefile.File {
	entries := make([]casefile.Entry, 0, len(r.DocketEntries))
	for _, e := range r.DocketEntries {
		entries = append(entries, casefile.Entry{
			ID:           e.ID,
			DocketNumber: e.DocketNumber,
			FiledDate:    e.FiledDate,
			FilingDate:   e.FilingDate,
			DocumentType: e.DocumentType,
			Description:  e.Description,
			FiledBy:      e.FiledBy,
			DocumentURL:  e.DocumentURL,
		})
	}
	return casefile.File{
		Case: casefile.Case{
			DocketNumber: r.Case.DocketNumber,
			CaseName:     r.Case.CaseName,
			FilingDate:   r.Case.FilingDate,
			Status:       r.Case.Status,
			Judge:        r.Case.Judge,
			Petitioner:   r.Case.Petitioner,
			Respondent:   r.Case.Respondent,
		},
		Entries: entries,
	}
}

type signedURLRequest struct {
	DocumentID string `json:"document_id"`
}

type signedURLResponse struct {
	SignedURL string `json:"signed_url"`
	ExpiresIn int    `json:"expires_in"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

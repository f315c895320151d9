// Package raw describes search hits exactly as the backend returns them.
// Every field is optional; several fields carry the same meaning at different
// nesting levels and any of them may be missing.
package raw

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Result is a single backend search hit.
type Result struct {
	ID       string    `json:"id"`
	Title    string    `json:"title,omitempty"`
	Snippet  string    `json:"snippet,omitempty"`
	URL      string    `json:"url,omitempty"`
	Document *Document `json:"document,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Document is the nested document blob.
type Document struct {
	ID                string             `json:"id,omitempty"`
	DerivedStructData *DerivedStructData `json:"derivedStructData,omitempty"`
	StructData        *StructData        `json:"structData,omitempty"`
}

// DerivedStructData holds the fields the search engine derived from the document.
type DerivedStructData struct {
	Title              string    `json:"title,omitempty"`
	Link               string    `json:"link,omitempty"`
	DisplayTitle       string    `json:"display_title,omitempty"`
	Snippets           Snippets  `json:"snippets,omitempty"`
	ExtractiveSegments []Segment `json:"extractive_segments,omitempty"`
}

// StructData holds structured case fields attached at indexing time.
type StructData struct {
	CaseNumber     string `json:"case_number,omitempty"`
	DocumentType   string `json:"document_type,omitempty"`
	JudgeName      string `json:"judge_name,omitempty"`
	PetitionerName string `json:"petitioner_name,omitempty"`
	RespondentName string `json:"respondent_name,omitempty"`
	FilingDate     string `json:"filing_date,omitempty"`
	DecisionDate   string `json:"decision_date,omitempty"`
	Court          string `json:"court,omitempty"`
	CaseType       string `json:"case_type,omitempty"`
}

// Metadata is the flat enrichment blob.
type Metadata struct {
	DocumentType string `json:"document_type,omitempty"`
	DocketNumber string `json:"docket_number,omitempty"`
	ExhibitID    string `json:"exhibit_id,omitempty"`
	Court        string `json:"court,omitempty"`
	FiledBy      string `json:"filed_by,omitempty"`
	FiledDate    string `json:"filed_date,omitempty"`
	FilingDate   string `json:"filing_date,omitempty"`
	DisplayTitle string `json:"display_title,omitempty"`
}

// Segment is an extractive excerpt of document text.
type Segment struct {
	Content    string     `json:"content,omitempty"`
	PageNumber PageNumber `json:"page_number,omitempty"`
}

// Snippets accepts both plain strings and {"snippet": "..."} objects.
type Snippets []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snippets) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			out = append(out, text)
			continue
		}
		var obj struct {
			Snippet string `json:"snippet"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Snippet != "" {
			out = append(out, obj.Snippet)
		}
	}
	*s = out
	return nil
}

// PageNumber accepts a page number sent either as a JSON string or a number.
type PageNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (p *PageNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PageNumber(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*p = PageNumber(strconv.FormatInt(i, 10))
		return nil
	}
	*p = PageNumber(n.String())
	return nil
}

// Derived returns the derived data blob, or nil.
func (r *Result) Derived() *DerivedStructData {
	if r.Document == nil {
		return nil
	}
	return r.Document.DerivedStructData
}

// Structured returns the structured fields blob, or nil.
func (r *Result) Structured() *StructData {
	if r.Document == nil {
		return nil
	}
	return r.Document.StructData
}

// Segments returns the extractive segments, or nil.
func (r *Result) Segments() []Segment {
	if d := r.Derived(); d != nil {
		return d.ExtractiveSegments
	}
	return nil
}

// RawTitle returns the derived title, falling back to the top-level title.
func (r *Result) RawTitle() string {
	if d := r.Derived(); d != nil && d.Title != "" {
		return d.Title
	}
	return r.Title
}

// Pagination is the backend's paging block.
type Pagination struct {
	TotalResults  int    `json:"total_results,omitempty"`
	TotalPages    int    `json:"total_pages"`
	CurrentPage   int    `json:"current_page"`
	PageSize      int    `json:"page_size,omitempty"`
	HasNext       bool   `json:"has_next"`
	HasPrevious   bool   `json:"has_previous"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// Request is the body of POST /api/search.
type Request struct {
	Query        string   `json:"query"`
	Page         int      `json:"page,omitempty"`
	PageSize     int      `json:"page_size,omitempty"`
	PageToken    string   `json:"page_token,omitempty"`
	DocumentType []string `json:"document_type,omitempty"`
	SessionLink  string   `json:"session_link,omitempty"`
}

// Response is the body returned by POST /api/search.
type Response struct {
	QueryID    string     `json:"queryId,omitempty"`
	Results    []Result   `json:"search_results"`
	Count      int        `json:"count"`
	Pagination Pagination `json:"pagination"`
	Session    string     `json:"session,omitempty"`
}

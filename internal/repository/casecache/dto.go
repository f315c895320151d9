package casecache

import "github.com/kailas-cloud/caselens/internal/domain/casefile"

// cachedFile is the JSON form stored under a case key.
type cachedFile struct {
	Case    cachedCase    `json:"case"`
	Entries []cachedEntry `json:"entries"`
}

type cachedCase struct {
	DocketNumber string `json:"docket_number"`
	CaseName     string `json:"case_name,omitempty"`
	FilingDate   string `json:"filing_date,omitempty"`
	Status       string `json:"status,omitempty"`
	Judge        string `json:"judge,omitempty"`
	Petitioner   string `json:"petitioner,omitempty"`
	Respondent   string `json:"respondent,omitempty"`
}

type cachedEntry struct {
	ID           string `json:"id"`
	DocketNumber string `json:"docket_number,omitempty"`
	FiledDate    string `json:"filed_date,omitempty"`
	FilingDate   string `json:"filing_date,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	Description  string `json:"description,omitempty"`
	FiledBy      string `json:"filed_by,omitempty"`
	DocumentURL  string `json:"document_url,omitempty"`
}

func fromDomain(f casefile.File) cachedFile {
	entries := make([]cachedEntry, 0, len(f.Entries))
	for _, e := range f.Entries {
		entries = append(entries, cachedEntry(e))
	}
	return cachedFile{Case: cachedCase(f.Case), Entries: entries}
}

func (c cachedFile) toDomain() casefile.File {
	entries := make([]casefile.Entry, 0, len(c.Entries))
	for _, e := range c.Entries {
		entries = append(entries, casefile.Entry(e))
	}
	return casefile.File{Case: casefile.Case(c.Case), Entries: entries}
}

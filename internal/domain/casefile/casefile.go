// Package casefile holds case details and docket entries returned by case lookup.
package casefile

import (
	"fmt"
	"strings"
)

// Case is the summary of a court case.
type Case struct {
	DocketNumber string
	CaseName     string
	FilingDate   string
	Status       string
	Judge        string
	Petitioner   string
	Respondent   string
}

// Entry is a single docket entry.
type Entry struct {
	ID           string
	DocketNumber string
	FiledDate    string
	FilingDate   string
	DocumentType string
	Description  string
	FiledBy      string
	DocumentURL  string
}

// File is a case with its docket entries.
type File struct {
	Case    Case
	Entries []Entry
}

// MaxDocketLength bounds docket identifiers accepted for lookup.
const MaxDocketLength = 128

// NormalizeDocket validates a docket identifier for lookup.
// Identifiers without a hyphen are accepted and looked up the same way.
func NormalizeDocket(docket string) (string, error) {
	d := strings.TrimSpace(docket)
	if d == "" {
		return "", fmt.Errorf("docket number is required")
	}
	if len(d) > MaxDocketLength {
		return "", fmt.Errorf("docket number too long (max %d)", MaxDocketLength)
	}
	if strings.ContainsAny(d, "/?#") {
		return "", fmt.Errorf("docket number %q contains reserved characters", d)
	}
	return d, nil
}

// Package extract derives display metadata from loosely structured document text.
//
// Extraction is best-effort: a pattern that does not match leaves its field
// empty. Nothing here performs I/O or keeps state, so the same input always
// yields the same Metadata.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field caps. Longer values are cut and suffixed with Ellipsis,
// except document types which are cut without a suffix.
const (
	MaxSegments       = 3
	MaxDocumentType   = 50
	MaxCaseName       = 60
	MaxCourt          = 60
	MaxIdentifier     = 60
	MaxTitleCaseName  = 40
	Ellipsis          = "..."
	exhibitTitleLabel = "Exhibit "
)

// Metadata is the result of an extraction. Empty strings mean "not found".
type Metadata struct {
	DisplayTitle string
	DocketNumber string
	ExhibitID    string
	DocumentType string
	CaseName     string
	Court        string
}

// IsZero reports whether nothing was extracted.
func (m Metadata) IsZero() bool { return m == Metadata{} }

// Word and tail fragments shared by the document type patterns. A tail is a run
// of capitalized words on one line; lowercase connectors are accepted only
// between them.
const (
	word = `[A-Za-z][A-Za-z'&]*`
	tail = `(?:[ \t]+(?:(?:of|for|to|and|the|in|on|re)[ \t]+)?[A-Z][A-Za-z'&]*){0,6}`
)

// phrase builds "<keyword> [<connector> <word> <tail>]". When connectorRequired
// is set the connector part must be present.
func phrase(keywords, connectors string, connectorRequired bool) *regexp.Regexp {
	rest := `[ \t]+(?i:` + connectors + `)[ \t]+` + word + tail
	if connectorRequired {
		return regexp.MustCompile(`\b(?:` + keywords + `)` + rest)
	}
	return regexp.MustCompile(`\b(?:` + keywords + `)(?:` + rest + `)?`)
}

var (
	titleExhibitRe = regexp.MustCompile(`^\d{3,4}-[A-Z]$`)
	docketRe       = regexp.MustCompile(`(?i)Docket\s+No\.?\s*(\d+-\d+(?:-\d+)?)(?:\s+et\s+al\.?)?`)
	exhibitRe      = regexp.MustCompile(`(?i)\bEXHIBIT\s+([A-Z0-9]+(?:-[A-Z0-9]+)?)\b`)
	courtRe        = regexp.MustCompile(`(?i)UNITED\s+STATES\s+(?:DISTRICT|BANKRUPTCY|TAX)\s+COURT[^,\n]{0,40}`)

	// A document type ends where an exhibit or docket reference begins.
	typeStopRe      = regexp.MustCompile(`(?i)\s+(?:exhibit|docket)\b`)
	typeConnectorRe = regexp.MustCompile(`(?:\s+(?i:of|for|to|and|the|in|on|re))+$`)

	// A party is at most nine words; a longer name keeps its last nine.
	party = `[A-Z][A-Za-z'.&]*(?:\s+(?:[A-Z][A-Za-z'.&]*|of|and|the|&)){0,8}` +
		`(?:,?\s+(?:Inc|LLC|Corp|Co|Ltd)\.?)?`
	caseNameRe = regexp.MustCompile(party + `\s+v\.\s+` + party)
	inReRe     = regexp.MustCompile(`\b(?i:in\s+re):?\s+(` + party + `)`)

	// Ordered by priority: the first pattern that matches decides the type.
	documentTypeRes = []*regexp.Regexp{
		phrase(`Motion|MOTION`, `for|to|in`, true),
		regexp.MustCompile(`\b(?:(?:Order|ORDER)\s+(?i:granting|denying|on|for|to|of|regarding)\s+` +
			word + tail + `|ORDER(?:\s+AND\s+DECISION)?\b)`),
		phrase(`(?:(?:Opening|Reply|Answering|Amicus|OPENING|REPLY|ANSWERING|AMICUS)\s+)?(?:Brief|BRIEF)|`+
			`Memorandum(?:\s+Opinion)?|MEMORANDUM(?:\s+OPINION)?`, `of|in|for|on`, false),
		phrase(`Notice|NOTICE`, `of|to`, true),
		phrase(`(?:(?:Amended|AMENDED)\s+)?(?:Complaint|COMPLAINT|Petition|PETITION)`, `for|to|of`, false),
		phrase(`Declaration|DECLARATION|Affidavit|AFFIDAVIT`, `of|in|re`, false),
		phrase(`Stipulation|STIPULATION`, `of|for|to|re|and`, false),
		regexp.MustCompile(`\b(?:Subpoena|SUBPOENA)(?:\s+(?i:duces\s+tecum))?`),
	}
)

// FromContent extracts metadata from the first extractive segments of a
// document and its raw title.
func FromContent(segments []string, rawTitle string) Metadata {
	var md Metadata

	if titleExhibitRe.MatchString(strings.TrimSpace(rawTitle)) {
		md.ExhibitID = strings.TrimSpace(rawTitle)
	}

	text := joinSegments(segments)
	if text == "" {
		if md.ExhibitID != "" {
			md.DisplayTitle = exhibitTitleLabel + md.ExhibitID
		}
		return md
	}

	if m := docketRe.FindStringSubmatch(text); m != nil {
		md.DocketNumber = truncate(strings.TrimSpace(m[1]), MaxIdentifier, Ellipsis)
	}
	if m := exhibitRe.FindStringSubmatch(text); m != nil {
		md.ExhibitID = truncate(strings.TrimSpace(m[1]), MaxIdentifier, Ellipsis)
	}
	md.DocumentType = documentType(text)
	md.CaseName = caseName(text)
	if m := courtRe.FindString(text); m != "" {
		md.Court = truncate(strings.TrimSpace(m), MaxCourt, Ellipsis)
	}
	md.DisplayTitle = composeTitle(md)
	return md
}

func joinSegments(segments []string) string {
	if len(segments) > MaxSegments {
		segments = segments[:MaxSegments]
	}
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func documentType(text string) string {
	for _, re := range documentTypeRes {
		m := re.FindString(text)
		if m == "" {
			continue
		}
		if loc := typeStopRe.FindStringIndex(m); loc != nil {
			m = typeConnectorRe.ReplaceAllString(m[:loc[0]], "")
		}
		return strings.TrimSpace(truncate(m, MaxDocumentType, ""))
	}
	return ""
}

func caseName(text string) string {
	if m := caseNameRe.FindString(text); m != "" {
		return truncate(strings.TrimRight(m, ", "), MaxCaseName, Ellipsis)
	}
	if m := inReRe.FindStringSubmatch(text); m != nil {
		name := "In re: " + strings.TrimRight(m[1], ", ")
		return truncate(name, MaxCaseName, Ellipsis)
	}
	return ""
}

func composeTitle(md Metadata) string {
	if md.DocumentType != "" {
		switch {
		case md.CaseName != "":
			return md.DocumentType + " - " + truncate(md.CaseName, MaxTitleCaseName, Ellipsis)
		case md.DocketNumber != "":
			return md.DocumentType + " (Docket No. " + md.DocketNumber + ")"
		case md.ExhibitID != "":
			return md.DocumentType + " (Exhibit " + md.ExhibitID + ")"
		default:
			return md.DocumentType
		}
	}
	switch {
	case md.CaseName != "":
		return truncate(md.CaseName, MaxTitleCaseName, Ellipsis)
	case md.ExhibitID != "":
		return exhibitTitleLabel + md.ExhibitID
	case md.DocketNumber != "":
		return "Document - Docket " + md.DocketNumber
	default:
		return ""
	}
}

// truncate cuts s to limit runes and appends suffix when it was cut.
func truncate(s string, limit int, suffix string) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit]), " ") + suffix
}

// Truncate cuts s to limit runes and appends "..." when it was cut.
func Truncate(s string, limit int) string { return truncate(s, limit, Ellipsis) }

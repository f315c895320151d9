package result

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/caselens/internal/domain/document"
	"github.com/kailas-cloud/caselens/internal/domain/search/extract"
	"github.com/kailas-cloud/caselens/internal/domain/search/raw"
)

const (
	maxPetitioner      = 25
	maxRespondent      = 15
	commissionerMarker = "COMMISSIONER"
	commissionerLabel  = "Commissioner"
	minURLNameLength   = 5
)

// Normalize maps a raw backend hit to a Result. Missing fields degrade to ""
// and the display title always resolves to something non-empty.
func Normalize(r raw.Result) Result {
	derived := r.Derived()
	if derived == nil {
		derived = &raw.DerivedStructData{}
	}
	structured := r.Structured()
	if structured == nil {
		structured = &raw.StructData{}
	}
	meta := r.Metadata
	if meta == nil {
		meta = &raw.Metadata{}
	}

	segments := make([]string, 0, len(derived.ExtractiveSegments))
	for _, s := range derived.ExtractiveSegments {
		segments = append(segments, s.Content)
	}
	extracted := extract.FromContent(segments, r.RawTitle())

	id := r.ID
	if id == "" && r.Document != nil {
		id = r.Document.ID
	}

	return New(Fields{
		ID:           id,
		DisplayTitle: displayTitle(r, derived, structured, meta, extracted),
		DocumentType: firstNonEmpty(structured.DocumentType, meta.DocumentType, extracted.DocumentType),
		DocketNumber: firstNonEmpty(structured.CaseNumber, meta.DocketNumber, extracted.DocketNumber),
		FilingDate:   firstNonEmpty(structured.FilingDate, meta.FilingDate, meta.FiledDate),
		JudgeName:    strings.TrimSpace(structured.JudgeName),
		Court:        strings.TrimSpace(structured.Court),
		CaseType:     strings.TrimSpace(structured.CaseType),
		Snippet:      snippet(r, derived),
		DocumentURL:  firstNonEmpty(derived.Link, r.URL),
		ExhibitID:    extracted.ExhibitID,
		MatterID:     firstNonEmpty(derived.Title, meta.DocketNumber, id, document.IDFromURL(derived.Link)),
	})
}

// NormalizeAll normalizes a batch, preserving order.
func NormalizeAll(rs []raw.Result) []Result {
	out := make([]Result, 0, len(rs))
	for _, r := range rs {
		out = append(out, Normalize(r))
	}
	return out
}

func displayTitle(
	r raw.Result, derived *raw.DerivedStructData, structured *raw.StructData,
	meta *raw.Metadata, extracted extract.Metadata,
) string {
	petitioner := strings.TrimSpace(structured.PetitionerName)
	respondent := strings.TrimSpace(structured.RespondentName)
	if petitioner != "" && respondent != "" {
		return shortPetitioner(petitioner) + " v. " + shortRespondent(respondent)
	}
	caseNumber := strings.TrimSpace(structured.CaseNumber)
	docType := strings.TrimSpace(structured.DocumentType)
	if caseNumber != "" && docType != "" {
		return docType + " - Case " + caseNumber
	}
	link := derived.Link
	if link == "" {
		link = r.URL
	}
	urlName := document.NameFromURL(link)
	if utf8.RuneCountInString(urlName) <= minURLNameLength {
		urlName = ""
	}
	return firstNonEmpty(
		derived.DisplayTitle,
		meta.DisplayTitle,
		extracted.DisplayTitle,
		urlName,
		r.RawTitle(),
		FallbackTitle,
	)
}

func shortPetitioner(name string) string {
	if utf8.RuneCountInString(name) > maxPetitioner {
		return string([]rune(name)[:maxPetitioner-3]) + extract.Ellipsis
	}
	return name
}

func shortRespondent(name string) string {
	if strings.Contains(strings.ToUpper(name), commissionerMarker) {
		return commissionerLabel
	}
	if utf8.RuneCountInString(name) > maxRespondent {
		return string([]rune(name)[:maxRespondent-3]) + extract.Ellipsis
	}
	return name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

package result

// FallbackTitle is the display title used when nothing better can be derived.
const FallbackTitle = "Document"

// Result is a normalized search hit ready for display. It is immutable once built.
type Result struct {
	id           string
	displayTitle string
	documentType string
	docketNumber string
	filingDate   string
	judgeName    string
	court        string
	caseType     string
	snippet      string
	documentURL  string
	exhibitID    string
	matterID     string
}

// Fields carries the values for New.
type Fields struct {
	ID           string
	DisplayTitle string
	DocumentType string
	DocketNumber string
	FilingDate   string
	JudgeName    string
	Court        string
	CaseType     string
	Snippet      string
	DocumentURL  string
	ExhibitID    string
	MatterID     string
}

// New creates a result. An empty display title becomes FallbackTitle.
func New(f Fields) Result {
	if f.DisplayTitle == "" {
		f.DisplayTitle = FallbackTitle
	}
	return Result{
		id:           f.ID,
		displayTitle: f.DisplayTitle,
		documentType: f.DocumentType,
		docketNumber: f.DocketNumber,
		filingDate:   f.FilingDate,
		judgeName:    f.JudgeName,
		court:        f.Court,
		caseType:     f.CaseType,
		snippet:      f.Snippet,
		documentURL:  f.DocumentURL,
		exhibitID:    f.ExhibitID,
		matterID:     f.MatterID,
	}
}

// ID returns the backend identifier.
func (r Result) ID() string { return r.id }

// DisplayTitle returns the human-readable title. Never empty.
func (r Result) DisplayTitle() string { return r.displayTitle }

// DocumentType returns the document type, or "".
func (r Result) DocumentType() string { return r.documentType }

// DocketNumber returns the docket number, or "".
func (r Result) DocketNumber() string { return r.docketNumber }

// FilingDate returns the filing date as sent by the backend, or "".
func (r Result) FilingDate() string { return r.filingDate }

// JudgeName returns the judge name, or "".
func (r Result) JudgeName() string { return r.judgeName }

// Court returns the court, or "".
func (r Result) Court() string { return r.court }

// CaseType returns the case type, or "".
func (r Result) CaseType() string { return r.caseType }

// Snippet returns the cleaned snippet text. May be empty.
func (r Result) Snippet() string { return r.snippet }

// DocumentURL returns the document link, or "".
func (r Result) DocumentURL() string { return r.documentURL }

// ExhibitID returns the exhibit identifier found in the text, or "".
func (r Result) ExhibitID() string { return r.exhibitID }

// MatterID returns the identifier used to open the matter details view.
func (r Result) MatterID() string { return r.matterID }

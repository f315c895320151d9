// Package answer holds AI-generated answers and the per-query answer state.
package answer

import (
	"strings"

	"github.com/kailas-cloud/caselens/internal/domain/search/raw"
)

// Status is the lifecycle of the answer for the current query.
type Status string

// Answer status values.
const (
	StatusAbsent  Status = "absent"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
)

// Source is a citation backing the answer.
type Source struct {
	Text   string
	Source string
	URL    string
	Page   int
}

// Answer is a generated answer with suggested follow-up questions.
type Answer struct {
	text      string
	followUps []string
	sources   []Source
}

// New creates an answer. Blank follow-ups are dropped.
func New(text string, followUps []string, sources []Source) Answer {
	fs := make([]string, 0, len(followUps))
	for _, f := range followUps {
		if f = strings.TrimSpace(f); f != "" {
			fs = append(fs, f)
		}
	}
	return Answer{text: strings.TrimSpace(text), followUps: fs, sources: sources}
}

// Text returns the answer body.
func (a Answer) Text() string { return a.text }

// FollowUps returns suggested follow-up questions.
func (a Answer) FollowUps() []string { return a.followUps }

// Sources returns the citations.
func (a Answer) Sources() []Source { return a.sources }

// Request is the context sent to an answer generator.
type Request struct {
	Query       string
	Results     []raw.Result
	SessionLink string
}

// State is what the UI sees for the answer of the current query.
type State struct {
	Status Status
	Answer Answer
}

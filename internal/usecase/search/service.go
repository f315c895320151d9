package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/domain"
	"github.com/kailas-cloud/caselens/internal/domain/answer"
	"github.com/kailas-cloud/caselens/internal/domain/search/batch"
	"github.com/kailas-cloud/caselens/internal/domain/search/filter"
	"github.com/kailas-cloud/caselens/internal/domain/search/page"
	"github.com/kailas-cloud/caselens/internal/domain/search/raw"
	"github.com/kailas-cloud/caselens/internal/domain/search/result"
	"github.com/kailas-cloud/caselens/internal/metrics"
)

// State is the orchestrator state for the current query.
type State string

// Orchestrator states. Filtering and paging happen while Cached.
const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateCached    State = "cached"
	StateFailed    State = "failed"
)

// AnswerMode controls AI answer generation after a batch is cached.
type AnswerMode int

// Answer modes.
const (
	AnswerOff AnswerMode = iota
	AnswerAsync
	AnswerSync
)

const defaultAnswerTimeout = 60 * time.Second

// Options configures a Session.
type Options struct {
	Search        domain.SearchConfig
	AnswerMode    AnswerMode
	AnswerTimeout time.Duration
	Logger        *zap.Logger
}

// View is the filtered, paginated window over the cached batch.
type View struct {
	Query         string
	State         State
	Items         []result.Result
	TotalCount    int
	FilteredCount int
	Page          int
	TotalPages    int
	Filters       []string
	Facets        []batch.Facet
	Error         string
}

// Session is the search orchestrator for one UI session. It fetches one
// batch per distinct query, caches it, and serves filtering and paging from
// memory. The mutex is never held across a backend call; completions of
// superseded searches are discarded by comparing generations.
type Session struct {
	searcher Searcher
	answerer Answerer
	opts     Options
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	state         State
	gen           uint64
	lastQuery     string
	errMsg        string
	cache         batch.Cache
	filters       filter.DocTypes
	page          page.State
	answerContext []raw.Result

	answer        answer.State
	answeredQuery string
}

// NewSession creates a session. answerer may be nil, which disables answers.
func NewSession(searcher Searcher, answerer Answerer, opts Options) *Session {
	def := domain.DefaultSearchConfig()
	if opts.Search.CachePageSize <= 0 {
		opts.Search.CachePageSize = def.CachePageSize
	}
	if opts.Search.DisplayPageSize <= 0 {
		opts.Search.DisplayPageSize = def.DisplayPageSize
	}
	if opts.Search.AnswerContextSize <= 0 {
		opts.Search.AnswerContextSize = opts.Search.DisplayPageSize
	}
	if opts.AnswerTimeout <= 0 {
		opts.AnswerTimeout = defaultAnswerTimeout
	}
	if answerer == nil {
		opts.AnswerMode = AnswerOff
	}
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		searcher: searcher,
		answerer: answerer,
		opts:     opts,
		logger:   l,
		ctx:      ctx,
		cancel:   cancel,
		state:    StateIdle,
		page:     page.NewState(),
		answer:   answer.State{Status: answer.StatusAbsent},
	}
}

// Search fetches a batch for query unless it is the query already searched.
// A repeated query is a no-op unless the previous attempt failed. Backend
// failures do not return an error: they leave the batch empty and the view
// carries the user-facing message.
func (s *Session) Search(ctx context.Context, query string) (View, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return View{}, domain.ErrEmptyQuery
	}

	s.mu.Lock()
	if q == s.lastQuery && (s.state == StateSearching || s.state == StateCached) {
		v := s.viewLocked()
		s.mu.Unlock()
		metrics.SearchesTotal.WithLabelValues("unchanged").Inc()
		return v, nil
	}
	s.gen++
	gen := s.gen
	s.lastQuery = q
	s.state = StateSearching
	s.errMsg = ""
	s.filters.Clear()
	s.page.Reset()
	s.answerContext = nil
	s.cache.Set(batch.New(q, nil, 0, ""))
	s.answer = answer.State{Status: answer.StatusAbsent}
	s.answeredQuery = ""
	s.mu.Unlock()

	s.logger.Debug("search started", zap.String("query", q), zap.Uint64("generation", gen))

	resp, err := s.searcher.Search(ctx, raw.Request{
		Query:    q,
		Page:     1,
		PageSize: s.opts.Search.CachePageSize,
	})

	s.mu.Lock()
	if gen != s.gen {
		v := s.viewLocked()
		s.mu.Unlock()
		s.logger.Debug("stale search discarded", zap.String("query", q), zap.Uint64("generation", gen))
		metrics.SearchesTotal.WithLabelValues("stale").Inc()
		return v, nil
	}

	if err != nil {
		s.state = StateFailed
		s.errMsg = searchMessage(q, err)
		s.cache.Set(batch.New(q, nil, 0, ""))
		v := s.viewLocked()
		s.mu.Unlock()
		s.logger.Warn("search failed", zap.String("query", q), zap.Error(err))
		metrics.SearchesTotal.WithLabelValues("failed").Inc()
		return v, nil
	}

	results := result.NormalizeAll(resp.Results)
	s.cache.Set(batch.New(q, results, resp.Count, resp.Session))
	s.state = StateCached
	n := min(s.opts.Search.AnswerContextSize, len(resp.Results))
	s.answerContext = append([]raw.Result(nil), resp.Results[:n]...)

	req, ok := s.claimAnswerLocked(q, resp.Session)
	if ok && s.opts.AnswerMode == AnswerAsync {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.generate(ctx, gen, req)
		}()
	}
	v := s.viewLocked()
	s.mu.Unlock()

	metrics.SearchesTotal.WithLabelValues("cached").Inc()
	s.logger.Debug("search cached",
		zap.String("query", q),
		zap.Int("results", len(results)),
		zap.Int("total", resp.Count),
	)

	if ok && s.opts.AnswerMode == AnswerSync {
		s.generate(ctx, gen, req)
	}
	return v, nil
}

// claimAnswerLocked marks the answer for q as loading and returns the
// request to send. It returns false when answers are off, the batch is
// empty, or an answer was already requested for q.
func (s *Session) claimAnswerLocked(q, sessionLink string) (answer.Request, bool) {
	if s.opts.AnswerMode == AnswerOff || len(s.answerContext) == 0 || s.answeredQuery == q {
		return answer.Request{}, false
	}
	s.answeredQuery = q
	s.answer = answer.State{Status: answer.StatusLoading}
	return answer.Request{Query: q, Results: s.answerContext, SessionLink: sessionLink}, true
}

// generate calls the answerer and stores the answer if gen is still current.
// It runs with the caller's values but is cancelled only by its own timeout
// or by Close.
func (s *Session) generate(ctx context.Context, gen uint64, req answer.Request) {
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.AnswerTimeout)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	a, err := s.answerer.Answer(actx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Debug("stale answer discarded", zap.String("query", req.Query))
		return
	}
	if err != nil {
		s.answer = answer.State{Status: answer.StatusAbsent}
		s.logger.Warn("answer generation failed", zap.String("query", req.Query), zap.Error(err))
		return
	}
	s.answer = answer.State{Status: answer.StatusReady, Answer: a}
}

// ToggleFilter flips a document-type filter tag and returns to page 1.
func (s *Session) ToggleFilter(tag string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCached {
		return View{}, domain.ErrNotReady
	}
	if _, err := s.filters.Toggle(tag); err != nil {
		return View{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	s.page.Reset()
	return s.viewLocked(), nil
}

// ClearFilters removes every filter tag and returns to page 1.
func (s *Session) ClearFilters() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCached {
		return View{}, domain.ErrNotReady
	}
	s.filters.Clear()
	s.page.Reset()
	return s.viewLocked(), nil
}

// NextPage moves forward within the filtered view. It stays put on the last page.
func (s *Session) NextPage() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCached {
		return View{}, domain.ErrNotReady
	}
	s.page.Next(s.totalPagesLocked())
	return s.viewLocked(), nil
}

// PrevPage moves back within the filtered view. It stays put on page 1.
func (s *Session) PrevPage() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCached {
		return View{}, domain.ErrNotReady
	}
	s.page.Prev()
	return s.viewLocked(), nil
}

// Results returns the current view. A positive p jumps to that page first,
// clamped to the filtered range.
func (s *Session) Results(p int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p > 0 && s.state == StateCached {
		s.page.Go(p, s.totalPagesLocked())
	}
	return s.viewLocked()
}

// Answer returns the answer state for the current query.
func (s *Session) Answer() answer.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answer
}

// Close cancels in-flight answer generation and waits for it to finish.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Session) totalPagesLocked() int {
	return page.TotalPages(len(s.cache.Filter(s.filters)), s.opts.Search.DisplayPageSize)
}

func (s *Session) viewLocked() View {
	filtered := s.cache.Filter(s.filters)
	size := s.opts.Search.DisplayPageSize
	total := page.TotalPages(len(filtered), size)
	s.page.Clamp(total)

	v := View{
		Query:         s.lastQuery,
		State:         s.state,
		Items:         batch.Paginate(filtered, s.page.Current(), size),
		FilteredCount: len(filtered),
		Page:          s.page.Current(),
		TotalPages:    total,
		Filters:       s.filters.Tags(),
		Facets:        s.cache.Facets(),
		Error:         s.errMsg,
	}
	if b, ok := s.cache.Current(); ok {
		v.TotalCount = b.Total()
	}
	return v
}

// searchMessage turns a backend failure into the message shown to the user.
func searchMessage(query string, err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("No results found for %q", query)
	case errors.Is(err, domain.ErrUnavailable):
		return fmt.Sprintf("Search is not available right now for %q", query)
	default:
		return domain.APIMessage(err)
	}
}

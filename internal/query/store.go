package query

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/pders01/chronicle/internal/debuglog"
	"github.com/pders01/chronicle/internal/nyt"
	"github.com/pders01/chronicle/internal/projection"
)

// Request identifies one dispatched fetch. Seq grows monotonically; only the
// request carrying the latest Seq may change the state when it resolves.
type Request struct {
	Seq     uint64
	ID      string
	Keyword string // recorded in State.Keyword
	Query   string // sent to the archive
	Page    int
}

// Store owns the State and the request-tagging bookkeeping. It is driven by
// a single event loop and is not safe for concurrent use.
type Store struct {
	state        State
	seq          uint64
	inFlight     uint64
	last         Request
	hasLast      bool
	defaultQuery string
}

type Option func(*Store)

// WithDefaultQuery sets the archive query used for latest mode.
func WithDefaultQuery(q string) Option {
	return func(s *Store) {
		if q = strings.TrimSpace(q); q != "" {
			s.defaultQuery = q
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{state: New(), defaultQuery: nyt.LatestQuery}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state. Slices are shared but never mutated
// in place by the store.
func (s *Store) Snapshot() State {
	return s.state
}

func (s *Store) SetKeyword(keyword string) {
	s.state = s.state.SetKeyword(keyword)
}

func (s *Store) SetPage(page int) {
	s.state = s.state.SetPage(page)
}

// Begin dispatches a fetch for keyword and page. A blank keyword or
// LatestKeyword selects latest mode. The page is clamped to the provider
// range.
func (s *Store) Begin(keyword string, page int) Request {
	keyword = strings.TrimSpace(keyword)
	queryText := keyword
	if keyword == "" || keyword == LatestKeyword {
		keyword = LatestKeyword
		queryText = s.defaultQuery
	}

	page = clampPage(page)

	s.seq++
	req := Request{
		Seq:     s.seq,
		ID:      uuid.NewString(),
		Keyword: keyword,
		Query:   queryText,
		Page:    page,
	}
	s.inFlight = req.Seq
	s.last = req
	s.hasLast = true

	s.state = s.state.SetKeyword(keyword).SetPage(page).StartFetch()

	debuglog.WithFields(debuglog.Fields{"req": req.ID, "seq": req.Seq, "page": page}).
		Debugf("dispatch %q", queryText)
	return req
}

// BeginLatest dispatches a latest-articles fetch.
func (s *Store) BeginLatest(page int) Request {
	return s.Begin(LatestKeyword, page)
}

// Current reports whether req is the latest dispatched request and is still
// awaiting its resolution.
func (s *Store) Current(req Request) bool {
	return req.Seq != 0 && req.Seq == s.inFlight
}

// Succeed applies a successful resolution. Superseded requests are dropped
// and false is returned.
func (s *Store) Succeed(req Request, rs *nyt.ResultSet) bool {
	if !s.Current(req) {
		s.discard(req)
		return false
	}
	s.inFlight = 0
	s.state = s.state.FetchSucceeded(req.Keyword, req.Page, rs)
	return true
}

// Fail applies a failed resolution. Archive errors show their fixed per-kind
// message even when wrapped.
func (s *Store) Fail(req Request, err error) bool {
	if !s.Current(req) {
		s.discard(req)
		return false
	}
	s.inFlight = 0

	msg := nyt.KindNetworkFailure.Message()
	var se *nyt.SearchError
	switch {
	case errors.As(err, &se):
		msg = se.Error()
	case err != nil:
		msg = err.Error()
	}
	s.state = s.state.FetchFailed(msg)
	return true
}

func (s *Store) discard(req Request) {
	debuglog.WithFields(debuglog.Fields{"req": req.ID, "seq": req.Seq, "latest": s.seq}).
		Debugf("discarding superseded response")
}

// Clear empties the search and abandons any in-flight request.
func (s *Store) Clear() {
	s.inFlight = 0
	s.hasLast = false
	s.state = s.state.Clear()
	s.state.Loading = false
}

// Retry re-dispatches the last request. It reports false when nothing has
// been dispatched since the last clear.
func (s *Store) Retry() (Request, bool) {
	if !s.hasLast {
		return Request{}, false
	}
	return s.Begin(s.last.Keyword, s.last.Page), true
}

// ChangePage dispatches the current keyword for another page. Pages outside
// the navigable range, and the current page itself, are ignored.
func (s *Store) ChangePage(page int) (Request, bool) {
	total := s.state.TotalPages()
	if page < 0 || page >= projection.NavigablePages(total) || page == s.state.Page {
		return Request{}, false
	}
	s.SetPage(page)
	return s.Begin(s.state.Keyword, page), true
}

// Pending reports whether a dispatched request has not resolved yet.
func (s *Store) Pending() bool {
	return s.inFlight != 0
}

func clampPage(page int) int {
	if page < 0 {
		return 0
	}
	if page >= nyt.MaxPages {
		return nyt.MaxPages - 1
	}
	return page
}

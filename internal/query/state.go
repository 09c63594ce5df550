// Package query holds the search state of the application and the pure
// transitions that move it through a request's lifecycle.
package query

import (
	"github.com/pders01/chronicle/internal/nyt"
	"github.com/pders01/chronicle/internal/projection"
)

// LatestKeyword is the keyword recorded while browsing latest articles.
const LatestKeyword = "Latest News"

// State is a snapshot of the search. Transitions take a State by value and
// return the next one; nothing here performs I/O.
type State struct {
	Keyword       string
	Page          int
	Articles      []nyt.Article
	Metadata      *nyt.Metadata
	Loading       bool
	Err           string
	HasSearched   bool
	IsInitialLoad bool
}

// New returns the state the application starts with.
func New() State {
	return State{IsInitialLoad: true}
}

// IsLatest reports whether the state shows latest articles rather than a
// keyword search.
func (s State) IsLatest() bool {
	return s.Keyword == "" || s.Keyword == LatestKeyword
}

// StartFetch marks a request in flight. Previous results stay visible.
func (s State) StartFetch() State {
	s.Loading = true
	s.Err = ""
	return s
}

// FetchSucceeded installs a result page. Articles and metadata always move
// together.
func (s State) FetchSucceeded(keyword string, page int, rs *nyt.ResultSet) State {
	s.Loading = false
	s.Err = ""
	s.Keyword = keyword
	s.Page = page
	s.HasSearched = true
	s.IsInitialLoad = false

	if rs == nil {
		s.Articles = []nyt.Article{}
		s.Metadata = &nyt.Metadata{}
		return s
	}

	articles := make([]nyt.Article, len(rs.Articles))
	copy(articles, rs.Articles)
	meta := rs.Metadata
	s.Articles = articles
	s.Metadata = &meta
	return s
}

// FetchFailed records a failure. Stale results are dropped so an error is
// never shown next to a previous page.
func (s State) FetchFailed(msg string) State {
	if msg == "" {
		msg = nyt.KindNetworkFailure.Message()
	}
	s.Loading = false
	s.Err = msg
	s.HasSearched = true
	s.IsInitialLoad = false
	s.Articles = nil
	s.Metadata = nil
	return s
}

func (s State) SetKeyword(keyword string) State {
	s.Keyword = keyword
	return s
}

func (s State) SetPage(page int) State {
	s.Page = page
	return s
}

// Clear returns to the empty search. IsInitialLoad is left as is, and so is
// Loading; Store.Clear handles in-flight requests.
func (s State) Clear() State {
	s.Articles = nil
	s.Metadata = nil
	s.Keyword = ""
	s.Page = 0
	s.Err = ""
	s.HasSearched = false
	return s
}

// FindArticle looks up an article of the current page by URI.
func (s State) FindArticle(uri string) (*nyt.Article, bool) {
	return nyt.FindByURI(s.Articles, uri)
}

// Mode is the presentation mode for s.
func (s State) Mode() projection.Mode {
	return projection.ModeOf(s.Loading, s.Err, s.HasSearched, len(s.Articles))
}

// TotalPages is the uncapped page count of the current result set.
func (s State) TotalPages() int {
	return projection.TotalPages(s.Metadata, nyt.PageSize)
}

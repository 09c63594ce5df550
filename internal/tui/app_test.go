package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/chronicle/internal/config"
	"github.com/pders01/chronicle/internal/nyt"
	"github.com/pders01/chronicle/internal/projection"
	"github.com/pders01/chronicle/internal/query"
)

type searchCall struct {
	query string
	page  int
}

type fakeSearcher struct {
	mu    sync.Mutex
	calls []searchCall
	fn    func(query string, page int) (*nyt.ResultSet, error)
}

func (f *fakeSearcher) Search(_ context.Context, q string, page int) (*nyt.ResultSet, error) {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{query: q, page: page})
	fn := f.fn
	f.mu.Unlock()
	if fn == nil {
		return resultSet(q, 10, 2500), nil
	}
	return fn(q, page)
}

func (f *fakeSearcher) Calls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]searchCall(nil), f.calls...)
}

func resultSet(prefix string, n, hits int) *nyt.ResultSet {
	articles := make([]nyt.Article, n)
	for i := range articles {
		uri := fmt.Sprintf("nyt://article/%s-%d", prefix, i)
		articles[i] = nyt.Article{
			URI:      uri,
			WebURL:   fmt.Sprintf("https://www.nytimes.com/2025/01/05/%s-%d.html", prefix, i),
			Headline: nyt.Headline{Main: fmt.Sprintf("%s headline %d", prefix, i)},
			Snippet:  "Snippet",
			PubDate:  "2025-01-05T10:00:00+0000",
		}
	}
	return &nyt.ResultSet{Articles: articles, Metadata: nyt.Metadata{Hits: hits}}
}

// newTestApp uses a long debounce so nothing commits on its own.
func newTestApp(t *testing.T, opts ...Option) (*App, *fakeSearcher) {
	t.Helper()
	cfg := config.TestConfig()
	cfg.Search.Debounce = time.Minute
	return newTestAppWithConfig(t, cfg, opts...)
}

func newTestAppWithConfig(t *testing.T, cfg *config.Config, opts ...Option) (*App, *fakeSearcher) {
	t.Helper()
	fs := &fakeSearcher{}
	app := NewApp(fs, cfg, opts...)
	t.Cleanup(app.Close)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app, fs
}

// collect runs cmd and any batched commands, returning the messages.
// Commands that wait on the debouncer must not be passed here.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func findResult(t *testing.T, msgs []tea.Msg) searchResultMsg {
	t.Helper()
	for _, m := range msgs {
		if r, ok := m.(searchResultMsg); ok {
			return r
		}
	}
	require.FailNow(t, "no search result among messages")
	return searchResultMsg{}
}

func press(app *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := app.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle applies the search result produced by cmd.
func settle(t *testing.T, app *App, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	_, next := app.Update(findResult(t, collect(cmd)))
	return next
}

func TestApp_InitLoadsLatest(t *testing.T) {
	app, _ := newTestApp(t)

	cmd := app.Init()
	assert.NotNil(t, cmd)

	s := app.store.Snapshot()
	assert.True(t, s.Loading)
	assert.Equal(t, query.LatestKeyword, s.Keyword)
	assert.Equal(t, MsgLoading, app.status)
}

func TestApp_LatestEndToEnd(t *testing.T) {
	app, fs := newTestApp(t)

	settle(t, app, app.loadInitial())

	calls := fs.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, nyt.LatestQuery, calls[0].query)
	assert.Equal(t, 0, calls[0].page)

	s := app.store.Snapshot()
	assert.False(t, s.IsInitialLoad)
	assert.True(t, s.HasSearched)
	assert.Equal(t, projection.ModeResults, s.Mode())
	assert.Len(t, app.resultList.Items(), 10)

	out := app.View()
	assert.Contains(t, out, "Latest News")
	assert.Contains(t, out, "Found 2,500 articles")
	assert.Contains(t, out, "next ›")
	assert.NotContains(t, out, " 101 ")
}

func TestApp_InitialQuery(t *testing.T) {
	app, fs := newTestApp(t, WithInitialQuery("  climate  "))

	assert.Equal(t, "climate", app.searchInput.Value())
	settle(t, app, app.loadInitial())

	require.Len(t, fs.Calls(), 1)
	assert.Equal(t, "climate", fs.Calls()[0].query)
	assert.Contains(t, app.View(), `Search Results for "climate"`)
}

func TestApp_TypingDebounces(t *testing.T) {
	app, _ := newTestAppWithConfig(t, config.TestConfig())

	for _, r := range "cat" {
		press(app, runes(string(r)))
	}
	assert.Equal(t, "cat", app.searchInput.Value())

	deadline := time.After(2 * time.Second)
	for kw := ""; kw != "cat"; {
		select {
		case kw = <-app.debouncer.Commits():
		case <-deadline:
			t.Fatal("no debounced commit")
		}
	}
	app.Update(searchCommitMsg{keyword: "cat"})

	s := app.store.Snapshot()
	assert.Equal(t, "cat", s.Keyword)
	assert.True(t, s.Loading)

	assert.Nil(t, app.commitKeyword("cat"), "same keyword is not fetched again")
	assert.Nil(t, app.commitKeyword("   "), "empty keyword is ignored")
}

func TestApp_ClearingInputCancelsPending(t *testing.T) {
	app, _ := newTestApp(t)

	press(app, runes("a"))
	require.True(t, app.debouncer.Pending())

	press(app, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "", app.searchInput.Value())
	assert.False(t, app.debouncer.Pending())
}

func TestApp_EnterSubmits(t *testing.T) {
	app, fs := newTestApp(t)

	for _, r := range "dogs" {
		press(app, runes(string(r)))
	}
	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, app.debouncer.Pending(), "submit cancels the pending commit")

	s := app.store.Snapshot()
	assert.Equal(t, "dogs", s.Keyword)
	assert.True(t, s.Loading)

	settle(t, app, cmd)
	assert.Equal(t, "dogs", fs.Calls()[0].query)
	assert.Equal(t, "10 results", app.status)
}

func TestApp_EnterEmptyIsNoop(t *testing.T) {
	app, _ := newTestApp(t)

	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, app.store.Snapshot().Loading)
}

func TestApp_StaleResultIgnored(t *testing.T) {
	app, _ := newTestApp(t)

	cats := app.store.Begin("cats", 0)
	dogs := app.store.Begin("dogs", 0)

	app.Update(searchResultMsg{req: cats, rs: resultSet("cats", 10, 100)})
	assert.Empty(t, app.resultList.Items())
	assert.Equal(t, "dogs", app.store.Snapshot().Keyword)

	app.Update(searchResultMsg{req: dogs, rs: resultSet("dogs", 3, 3)})
	require.Len(t, app.resultList.Items(), 3)
	item := app.resultList.Items()[0].(articleItem)
	assert.Equal(t, "dogs headline 0", item.article.Title())
}

func TestApp_NoResults(t *testing.T) {
	app, fs := newTestApp(t)
	fs.fn = func(string, int) (*nyt.ResultSet, error) {
		return &nyt.ResultSet{Articles: []nyt.Article{}}, nil
	}

	app.searchInput.SetValue("zzzzznotreal")
	settle(t, app, press(app, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Equal(t, projection.ModeNoResults, app.store.Snapshot().Mode())
	assert.Equal(t, StatusWarn, app.statusKind)
	assert.Contains(t, app.View(), MsgNoResults)
}

func TestApp_ErrorAndRetry(t *testing.T) {
	app, fs := newTestApp(t)
	fs.fn = func(string, int) (*nyt.ResultSet, error) {
		return nil, &nyt.SearchError{Kind: nyt.KindUnauthorized, Status: 401}
	}

	app.searchInput.SetValue("cats")
	settle(t, app, press(app, tea.KeyMsg{Type: tea.KeyEnter}))

	s := app.store.Snapshot()
	assert.Equal(t, projection.ModeError, s.Mode())
	assert.Equal(t, "Invalid API key.", s.Err)
	assert.Nil(t, s.Articles)
	assert.True(t, s.HasSearched)

	out := app.View()
	assert.Contains(t, out, "Invalid API key.")
	assert.Contains(t, out, MsgTryAgain)

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, app.searchInput.Focused(), "esc leaves the box when there is an error to retry")

	fs.fn = nil
	cmd := press(app, runes("r"))
	require.NotNil(t, cmd)
	assert.True(t, app.store.Snapshot().Loading)
	assert.Empty(t, app.store.Snapshot().Err)

	settle(t, app, cmd)
	assert.Equal(t, projection.ModeResults, app.store.Snapshot().Mode())
	assert.Len(t, fs.Calls(), 2)
}

func TestApp_RetryWithoutErrorIsNoop(t *testing.T) {
	app, _ := newTestApp(t)
	settle(t, app, app.loadInitial())
	app.searchInput.Blur()

	assert.Nil(t, press(app, runes("r")))
}

func TestApp_PageKeys(t *testing.T) {
	app, fs := newTestApp(t)
	settle(t, app, app.loadInitial())
	app.searchInput.Blur()

	assert.Nil(t, press(app, tea.KeyMsg{Type: tea.KeyLeft}), "no page before the first")

	cmd := press(app, runes("n"))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, app.store.Snapshot().Page)
	settle(t, app, cmd)

	cmd = press(app, tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd)
	settle(t, app, cmd)
	assert.Equal(t, 2, app.store.Snapshot().Page)

	cmd = press(app, runes("["))
	require.NotNil(t, cmd)
	settle(t, app, cmd)
	assert.Equal(t, 1, app.store.Snapshot().Page)

	calls := fs.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, []int{0, 1, 2, 1}, []int{calls[0].page, calls[1].page, calls[2].page, calls[3].page})
	for _, c := range calls {
		assert.Equal(t, nyt.LatestQuery, c.query)
	}
}

func TestApp_ClearSearch(t *testing.T) {
	app, _ := newTestApp(t)
	app.searchInput.SetValue("cats")
	settle(t, app, press(app, tea.KeyMsg{Type: tea.KeyEnter}))
	require.NotEmpty(t, app.resultList.Items())

	press(app, tea.KeyMsg{Type: tea.KeyCtrlL})

	s := app.store.Snapshot()
	assert.Empty(t, s.Keyword)
	assert.Nil(t, s.Articles)
	assert.False(t, s.HasSearched)
	assert.Empty(t, app.resultList.Items())
	assert.Equal(t, "", app.searchInput.Value())
	assert.True(t, app.searchInput.Focused())
	assert.Equal(t, projection.ModeInitial, s.Mode())
}

func TestApp_ClearDropsInFlight(t *testing.T) {
	app, _ := newTestApp(t)
	app.searchInput.SetValue("cats")
	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})

	press(app, tea.KeyMsg{Type: tea.KeyCtrlL})
	settle(t, app, cmd)

	assert.Empty(t, app.resultList.Items())
	assert.False(t, app.store.Snapshot().Loading)
}

func TestApp_ReaderFlow(t *testing.T) {
	app, _ := newTestApp(t)
	settle(t, app, app.loadInitial())

	press(app, tea.KeyMsg{Type: tea.KeyTab})
	require.False(t, app.searchInput.Focused())

	cmd := press(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ViewReader, app.view)
	require.NotNil(t, app.currentArticle)
	assert.Equal(t, "nyt://article/news-0", app.currentArticle.URI)
	assert.True(t, app.loadingArticle)

	for _, m := range collect(cmd) {
		if r, ok := m.(articleRenderedMsg); ok {
			app.Update(r)
		}
	}
	assert.False(t, app.loadingArticle)

	open := press(app, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.NotNil(t, open)
	assert.Equal(t, MsgOpening, app.status)

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewResults, app.view)
	assert.Nil(t, app.currentArticle)
	assert.False(t, app.store.Snapshot().Loading, "returning does not refetch")
}

func TestApp_StaleRenderIgnored(t *testing.T) {
	app, _ := newTestApp(t)
	app.view = ViewReader
	app.currentArticle = &nyt.Article{URI: "nyt://article/a"}
	app.loadingArticle = true

	app.Update(articleRenderedMsg{uri: "nyt://article/b", content: "other"})
	assert.True(t, app.loadingArticle)
}

func TestApp_LookupRefetchThenFound(t *testing.T) {
	uri := "nyt://article/cats-4"
	app, fs := newTestApp(t, WithInitialQuery("cats"), WithArticle(nyt.EncodeRef(uri)))
	assert.Equal(t, ViewReader, app.view)

	cmd := app.resolveLookup()
	require.NotNil(t, cmd, "refetch dispatched")
	next := settle(t, app, cmd)

	calls := fs.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "cats", calls[0].query)
	assert.Equal(t, 0, calls[0].page)

	assert.Equal(t, ViewReader, app.view)
	require.NotNil(t, app.currentArticle)
	assert.Equal(t, uri, app.currentArticle.URI)
	assert.Nil(t, app.lookup)
	assert.NotNil(t, next)
}

func TestApp_LookupMissAfterRefetchIsTerminal(t *testing.T) {
	app, fs := newTestApp(t, WithInitialQuery("cats"), WithArticle(nyt.EncodeRef("nyt://article/gone")))

	settle(t, app, app.resolveLookup())

	assert.Equal(t, ViewNotFound, app.view)
	assert.Len(t, fs.Calls(), 1, "only one refetch")
	assert.Contains(t, app.View(), MsgNotFound)

	cmd := press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, ViewResults, app.view)
	assert.Len(t, app.resultList.Items(), 10)
}

func TestApp_LookupInLatest(t *testing.T) {
	uri := "nyt://article/news-2"
	app, fs := newTestApp(t, WithArticle(nyt.EncodeRef(uri)))

	settle(t, app, app.resolveLookup())

	require.Len(t, fs.Calls(), 1)
	assert.Equal(t, nyt.LatestQuery, fs.Calls()[0].query)
	require.NotNil(t, app.currentArticle)
	assert.Equal(t, uri, app.currentArticle.URI)
}

func TestApp_LookupMalformedRef(t *testing.T) {
	app, fs := newTestApp(t, WithArticle("nyt%3A%2F%2Farticle%2"))

	assert.Nil(t, app.resolveLookup())
	assert.Equal(t, ViewNotFound, app.view)
	assert.Empty(t, fs.Calls())

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewResults, app.view)
	s := app.store.Snapshot()
	assert.True(t, s.Loading, "startup fetch runs once the lookup is abandoned")
	assert.Equal(t, query.LatestKeyword, s.Keyword)
}

func TestApp_SpinnerStopsWhenIdle(t *testing.T) {
	app, _ := newTestApp(t)
	cmd := app.loadInitial()
	assert.True(t, app.spinning)
	settle(t, app, cmd)

	_, tick := app.Update(app.spinner.Tick())
	assert.Nil(t, tick)
	assert.False(t, app.spinning)
}

func TestApp_ErrorMsgShownInStatus(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(errorMsg{err: fmt.Errorf("failed to open link: boom")})

	assert.Equal(t, StatusError, app.statusKind)
	assert.Contains(t, app.getCustomStatusBar(), "boom")
}

func TestApp_ViewModes(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Contains(t, app.View(), "Type to search the archive")

	app.loadInitial()
	assert.Contains(t, app.View(), MsgLoading)
}

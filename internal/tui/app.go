package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/chronicle/internal/config"
	"github.com/pders01/chronicle/internal/debounce"
	"github.com/pders01/chronicle/internal/debuglog"
	"github.com/pders01/chronicle/internal/media"
	"github.com/pders01/chronicle/internal/nyt"
	"github.com/pders01/chronicle/internal/projection"
	"github.com/pders01/chronicle/internal/query"
	"github.com/pders01/chronicle/internal/validation"
)

type App struct {
	ctx             context.Context
	config          *config.Config
	client          nyt.Searcher
	store           *query.Store
	debouncer       *debounce.Debouncer[string]
	launcher        *media.Launcher
	keyHandler      *KeyHandler
	resultList      list.Model
	searchInput     textinput.Model
	viewport        viewport.Model
	spinner         spinner.Model
	help            help.Model
	view            View
	currentArticle  *nyt.Article
	lookup          *query.Lookup
	initialQuery    string
	width           int
	height          int
	status          string
	statusKind      StatusKind
	spinning        bool
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	loadingArticle  bool
}

type Option func(*App)

// WithContext sets the parent context of archive requests.
func WithContext(ctx context.Context) Option {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

func WithLauncher(l *media.Launcher) Option {
	return func(a *App) {
		if l != nil {
			a.launcher = l
		}
	}
}

// WithInitialQuery starts with a keyword search instead of latest articles.
func WithInitialQuery(keyword string) Option {
	return func(a *App) {
		a.initialQuery = validation.SanitizeQuery(keyword)
	}
}

// WithArticle opens the article with the given encoded reference on start.
// The reference is resolved against the first page of the initial query, or
// of latest articles when there is none.
func WithArticle(ref string) Option {
	return func(a *App) {
		a.lookup = query.NewLookup(ref)
	}
}

func NewApp(client nyt.Searcher, cfg *config.Config, opts ...Option) *App {
	ApplyTheme(cfg.UI.Colors)

	resultList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultList.SetShowTitle(false)
	resultList.SetShowStatusBar(false)
	resultList.SetShowHelp(false)
	resultList.SetFilteringEnabled(false)

	si := textinput.New()
	si.Placeholder = "Search the New York Times archive..."
	si.CharLimit = validation.MaxQueryLength
	si.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(AccentColor)),
	)

	app := &App{
		ctx:         context.Background(),
		config:      cfg,
		client:      client,
		store:       query.NewStore(query.WithDefaultQuery(cfg.Search.DefaultQuery)),
		debouncer:   debounce.New[string](cfg.Search.Debounce),
		launcher:    media.NewLauncher(cfg.UI.Opener),
		resultList:  resultList,
		searchInput: si,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		help:        help.New(),
		view:        ViewResults,
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.initialQuery != "" {
		app.searchInput.SetValue(app.initialQuery)
		app.store.SetKeyword(app.initialQuery)
	}
	if app.lookup != nil {
		if app.initialQuery == "" {
			app.store.SetKeyword(query.LatestKeyword)
		}
		app.view = ViewReader
		app.loadingArticle = true
	}

	app.keyHandler = NewKeyHandler(app, cfg)
	return app
}

// Close releases the debouncer. The program must not deliver messages after
// Close.
func (a *App) Close() {
	a.debouncer.Close()
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, textinput.Blink, a.waitForCommit()}

	switch {
	case a.lookup != nil:
		cmds = append(cmds, a.resolveLookup())
	case a.store.Snapshot().IsInitialLoad:
		cmds = append(cmds, a.loadInitial())
	}
	return tea.Batch(cmds...)
}

// loadInitial runs the startup fetch: the initial query if one was given,
// otherwise latest articles.
func (a *App) loadInitial() tea.Cmd {
	if a.initialQuery != "" {
		a.debouncer.MarkCommitted(a.initialQuery)
		return a.dispatch(a.store.Begin(a.initialQuery, 0))
	}
	return a.dispatch(a.store.BeginLatest(0))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case searchCommitMsg:
		return a, tea.Batch(a.commitKeyword(msg.keyword), a.waitForCommit())

	case searchResultMsg:
		return a, a.applyResult(msg)

	case articleRenderedMsg:
		if a.view == ViewReader && a.currentArticle != nil && a.currentArticle.URI == msg.uri {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingArticle = false
			a.clearStatus()
		}
		return a, nil

	case openedMsg:
		a.setStatus("Opened "+shortURL(msg.url, 60), StatusSuccess)
		return a, nil

	case errorMsg:
		a.setStatus(msg.err.Error(), StatusError)
		return a, nil
	}

	switch a.view {
	case ViewResults:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	case ViewReader:
		if _, ok := msg.(tea.MouseMsg); ok {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	a.resultList.SetSize(width, max(height-13, 3))
	a.viewport.Width = width
	a.viewport.Height = height - 3
	a.help.Width = width

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = width - 4
	}
	a.searchInput.Width = max(inputWidth, 1)
}

func (a *App) busy() bool {
	return a.store.Snapshot().Loading || a.loadingArticle
}

func (a *App) startSpinner() tea.Cmd {
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

// dispatch sends req to the archive and shows progress.
func (a *App) dispatch(req query.Request) tea.Cmd {
	if req.Keyword == query.LatestKeyword {
		a.setStatus(MsgLoading, StatusInfo)
	} else {
		a.setStatus(MsgSearching(req.Keyword, req.Page), StatusInfo)
	}
	return tea.Batch(a.search(req), a.startSpinner())
}

// commitKeyword starts a search for a debounced keyword unless it is empty
// or already the store's keyword.
func (a *App) commitKeyword(keyword string) tea.Cmd {
	keyword = validation.SanitizeQuery(keyword)
	if keyword == "" || keyword == a.store.Snapshot().Keyword {
		return nil
	}
	return a.dispatch(a.store.Begin(keyword, 0))
}

// submit searches for the input value immediately.
func (a *App) submit() tea.Cmd {
	keyword := validation.SanitizeQuery(a.searchInput.Value())
	a.debouncer.Cancel()
	if keyword == "" {
		return nil
	}
	a.debouncer.MarkCommitted(keyword)
	return a.dispatch(a.store.Begin(keyword, 0))
}

func (a *App) applyResult(msg searchResultMsg) tea.Cmd {
	var applied bool
	if msg.err != nil {
		applied = a.store.Fail(msg.req, msg.err)
		var se *nyt.SearchError
		if applied && errors.As(msg.err, &se) {
			debuglog.WithFields(debuglog.Fields{"req": msg.req.ID, "kind": se.Kind}).
				Warnf("search failed: %s", se.Detail())
		}
	} else {
		applied = a.store.Succeed(msg.req, msg.rs)
	}
	if !applied {
		return nil
	}

	s := a.store.Snapshot()
	a.resultList.SetItems(articleItems(s.Articles, a.config.UI.Article.MaxSnippetLength))
	a.resultList.Select(0)

	switch s.Mode() {
	case projection.ModeError:
		a.setStatus(s.Err, StatusError)
	case projection.ModeNoResults:
		a.setStatus(MsgNoResults, StatusWarn)
	default:
		a.setStatus(MsgResultsCount(len(s.Articles)), StatusSuccess)
	}

	if a.lookup != nil {
		return a.resolveLookup()
	}
	return nil
}

// resolveLookup advances a pending article lookup.
func (a *App) resolveLookup() tea.Cmd {
	res, article := a.lookup.Resolve(a.store.Snapshot())
	debuglog.Debugf("lookup %s: %s", a.lookup.URI(), res)

	switch res {
	case query.Found:
		a.lookup = nil
		return a.showArticle(*article)
	case query.Refetch:
		return a.dispatch(a.store.Begin(a.store.Snapshot().Keyword, 0))
	case query.NotFound:
		a.lookup = nil
		a.loadingArticle = false
		a.view = ViewNotFound
		a.setStatus(MsgNotFound, StatusWarn)
		return nil
	default:
		a.view = ViewReader
		a.loadingArticle = true
		return a.startSpinner()
	}
}

func (a *App) showArticle(article nyt.Article) tea.Cmd {
	a.currentArticle = &article
	a.view = ViewReader
	a.loadingArticle = true
	a.setStatus(MsgLoadingArticle, StatusInfo)
	return tea.Batch(a.startSpinner(), a.renderArticle(article))
}

func (a *App) changePage(delta int) tea.Cmd {
	req, ok := a.store.ChangePage(a.store.Snapshot().Page + delta)
	if !ok {
		return nil
	}
	return a.dispatch(req)
}

func (a *App) retry() tea.Cmd {
	if a.store.Snapshot().Err == "" {
		return nil
	}
	req, ok := a.store.Retry()
	if !ok {
		return nil
	}
	return a.dispatch(req)
}

func (a *App) clearSearch() {
	a.store.Clear()
	a.debouncer.Cancel()
	a.debouncer.MarkCommitted("")
	a.searchInput.Reset()
	a.searchInput.Focus()
	a.resultList.SetItems([]list.Item{})
	a.spinning = false
	a.setStatus(MsgCleared, StatusInfo)
}

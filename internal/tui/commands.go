package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/chronicle/internal/debuglog"
	"github.com/pders01/chronicle/internal/nyt"
	"github.com/pders01/chronicle/internal/query"
)

type searchResultMsg struct {
	req query.Request
	rs  *nyt.ResultSet
	err error
}

// searchCommitMsg carries a keyword committed by the debouncer.
type searchCommitMsg struct {
	keyword string
}

type articleRenderedMsg struct {
	uri     string
	content string
}

type openedMsg struct {
	url string
}

type errorMsg struct {
	err error
}

// search runs one archive request. It captures only the client and the
// request so it can run off the event loop.
func (a *App) search(req query.Request) tea.Cmd {
	client := a.client
	parent := a.ctx
	return func() tea.Msg {
		ctx := nyt.WithRequestID(parent, req.ID)
		rs, err := client.Search(ctx, req.Query, req.Page)
		return searchResultMsg{req: req, rs: rs, err: err}
	}
}

// waitForCommit delivers the next debounced keyword. It is re-issued after
// every commit.
func (a *App) waitForCommit() tea.Cmd {
	commits := a.debouncer.Commits()
	return func() tea.Msg {
		keyword, ok := <-commits
		if !ok {
			return nil
		}
		return searchCommitMsg{keyword: keyword}
	}
}

func (a *App) renderArticle(article nyt.Article) tea.Cmd {
	r, err := a.getRenderer()
	return func() tea.Msg {
		if err != nil {
			return articleRenderedMsg{uri: article.URI, content: "Error initializing renderer: " + err.Error()}
		}
		rendered, err := r.Render(ArticleMarkdown(&article))
		if err != nil {
			return articleRenderedMsg{
				uri:     article.URI,
				content: fmt.Sprintf("# Error\n\nFailed to render article: %s\n\nPress Escape to go back.", err),
			}
		}
		return articleRenderedMsg{uri: article.URI, content: rendered}
	}
}

func (a *App) openURL(url string) tea.Cmd {
	launcher := a.launcher
	return func() tea.Msg {
		if err := launcher.Open(url); err != nil {
			debuglog.Warnf("open %s: %v", url, err)
			return errorMsg{err: fmt.Errorf("failed to open link: %w", err)}
		}
		return openedMsg{url: url}
	}
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	w := wrapWidth(a.width, a.config.UI.Article)
	if a.glamourRenderer == nil || abs(a.rendererWidth-w) > 10 {
		r, err := NewRenderer(a.width, a.config.UI.Article)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = w
	}
	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

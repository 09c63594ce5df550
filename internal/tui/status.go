package tui

import (
	"fmt"
)

// StatusKind is the severity of a status bar message.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

const (
	MsgLoading        = "Loading articles…"
	MsgLoadingArticle = "Loading article…"
	MsgNoResults      = "No articles found"
	MsgOpening        = "Opening in browser…"
	MsgCleared        = "Search cleared"
	MsgTryAgain       = "r: try again"
	MsgNotFound       = "Article not found"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgSearching(keyword string, page int) string {
	if page > 0 {
		return fmt.Sprintf("Searching %q • page %d…", keyword, page+1)
	}
	return fmt.Sprintf("Searching %q…", keyword)
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	style := StatusInfoStyle
	prefix := ""
	switch a.statusKind {
	case StatusSuccess:
		style = StatusSuccessStyle
		prefix = "✓ "
	case StatusWarn:
		style = StatusWarnStyle
	case StatusError:
		style = StatusErrorStyle
		prefix = "✗ "
	}
	text := prefix + a.status
	if a.busy() {
		text = a.spinner.View() + " " + text
	}
	return style.Render(text)
}

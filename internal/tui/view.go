package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/chronicle/internal/projection"
	"github.com/pders01/chronicle/internal/query"
)

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewResults:
		content = a.resultsView()
	case ViewReader:
		if a.loadingArticle {
			content = panel(a.width, a.height-3, a.spinner.View()+" "+renderMuted(MsgLoadingArticle))
		} else {
			content = a.viewport.View()
		}
	case ViewNotFound:
		content = notFoundPanel(a.width, a.height-3)
	}

	statusBar := a.getCustomStatusBar()
	if statusBar == "" {
		return content
	}
	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width-1, 1)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, statusBar)
}

func (a *App) resultsView() string {
	s := a.store.Snapshot()

	header := resultsHeader(projection.Heading(s.Keyword, s.IsLatest()),
		projection.Summary(s.Metadata, s.Page, len(s.Articles)), a.width)
	input := searchBox(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width)

	body := a.resultsBody(s)

	rows := []string{header, "", input, "", body}
	if pager := a.pager(s); pager != "" {
		rows = append(rows, "", pager)
	}

	return ContentWrapper(a.width, max(a.height-3, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Top, rows...))
}

func (a *App) resultsBody(s query.State) string {
	bodyHeight := max(a.height-13, 3)

	switch s.Mode() {
	case projection.ModeLoading:
		if len(s.Articles) > 0 {
			return a.resultList.View()
		}
		return panel(a.width, bodyHeight, a.spinner.View()+" "+renderMuted(MsgLoading))
	case projection.ModeError:
		return errorPanel(a.width, bodyHeight, s.Err)
	case projection.ModeInitial:
		return panel(a.width, bodyHeight, GetWelcomeMessage())
	case projection.ModeNoResults:
		return noResultsPanel(a.width, bodyHeight, s.Keyword)

	default:
		return a.resultList.View()
	}
}

// pager renders the page strip. Pages at or past the archive ceiling are
// never shown.
func (a *App) pager(s query.State) string {
	total := s.TotalPages()
	if s.Mode() != projection.ModeResults || projection.NavigablePages(total) <= 1 {
		return ""
	}

	window := a.config.Search.WindowSize
	if window <= 0 {
		window = projection.DefaultWindow
	}

	parts := make([]string, 0, window+2)
	prev := PageStyle.Render("‹ prev")
	if !projection.CanPrev(s.Page) {
		prev = PageStyle.Faint(true).Render("‹ prev")
	}
	parts = append(parts, prev)

	for _, p := range projection.PageWindow(s.Page, total, window) {
		label := fmt.Sprintf("%d", p+1)
		if p == s.Page {
			parts = append(parts, CurrentPageStyle.Render(label))
		} else {
			parts = append(parts, PageStyle.Render(label))
		}
	}

	next := PageStyle.Render("next ›")
	if !projection.CanNext(s.Page, total) {
		next = PageStyle.Faint(true).Render("next ›")
	}
	parts = append(parts, next)

	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (a *App) getCustomStatusBar() string {
	bindings := a.keyHandler.GetHelpForCurrentView()
	if len(bindings) == 0 && a.status == "" {
		return ""
	}

	if status := a.renderStatus(); status != "" && a.statusKind == StatusError {
		return StatusBarStyle.Width(a.width).Render(status)
	}

	line := a.help.ShortHelpView(bindings)
	if status := a.renderStatus(); status != "" {
		line = status + SeparatorStyle.Render("  •  ") + line
	}
	return StatusBarStyle.Width(a.width).Render(line)
}

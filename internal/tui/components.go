package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// resultsHeader is the heading line with the result summary below it.
func resultsHeader(heading, summary string, width int) string {
	rows := []string{HeaderStyle.Render(truncateEnd("› "+heading, width-2))}
	if summary != "" {
		rows = append(rows, renderMuted(truncateEnd(summary, width-2)))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

func searchBox(inputView string, focused bool, contentWidth int) string {
	border := MutedColor
	if focused {
		border = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

// panel centers content in a width x height box.
func panel(width, height int, rows ...string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(max(height, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func errorPanel(width, height int, message string) string {
	return panel(width, height, ErrorMessageStyle.Render("✗ "+message), "", HelpStyle.Render(MsgTryAgain))
}

func noResultsPanel(width, height int, keyword string) string {
	return panel(width, height,
		HeaderStyle.Render(MsgNoResults),
		renderMuted(fmt.Sprintf("Nothing matched %q. Try different keywords.", keyword)))
}

func notFoundPanel(width, height int) string {
	return panel(width, height,
		ErrorMessageStyle.Render(MsgNotFound),
		"",
		renderMuted("The article is not part of the current results."),
		"",
		HelpStyle.Render("esc: back to results"))
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

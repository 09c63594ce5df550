package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/chronicle/internal/nyt"
)

type articleItem struct {
	article    nyt.Article
	maxSnippet int
}

func (i articleItem) Title() string {
	title := i.article.Title()
	if title == "" {
		title = "(untitled)"
	}
	if k := i.article.Headline.Kicker; k != "" {
		return KickerStyle.Render(strings.ToUpper(k)+" ") + title
	}
	return title
}

func (i articleItem) Description() string {
	desc := i.article.Snippet
	if desc == "" {
		desc = i.article.Abstract
	}
	limit := i.maxSnippet
	if limit <= 0 {
		limit = 120
	}
	desc = truncateEnd(strings.TrimSpace(desc), limit)

	var meta []string
	if i.article.PubDate != "" {
		meta = append(meta, nyt.FormatDate(i.article.PubDate))
	}
	if i.article.SectionName != "" {
		meta = append(meta, i.article.SectionName)
	}

	out := lipgloss.NewStyle().Foreground(MutedColor).Render(desc)
	if len(meta) > 0 {
		out += TimeStyle.Render(" • " + strings.Join(meta, " • "))
	}
	return out
}

func (i articleItem) FilterValue() string { return i.article.Title() }

func articleItems(articles []nyt.Article, maxSnippet int) []list.Item {
	items := make([]list.Item, len(articles))
	for i, a := range articles {
		items[i] = articleItem{article: a, maxSnippet: maxSnippet}
	}
	return items
}

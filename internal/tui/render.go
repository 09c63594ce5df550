package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/pders01/chronicle/internal/config"
	"github.com/pders01/chronicle/internal/nyt"
)

const maxTopics = 8

// ArticleMarkdown lays out an article as markdown for the reader.
func ArticleMarkdown(a *nyt.Article) string {
	var b strings.Builder

	if k := strings.TrimSpace(a.Headline.Kicker); k != "" {
		fmt.Fprintf(&b, "**%s**\n\n", strings.ToUpper(k))
	}
	fmt.Fprintf(&b, "# %s\n\n", a.Title())

	var meta []string
	if a.Byline.Original != "" {
		meta = append(meta, a.Byline.Original)
	}
	if a.PubDate != "" {
		meta = append(meta, nyt.FormatDate(a.PubDate))
	}
	if section := sectionLabel(a); section != "" {
		meta = append(meta, section)
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " • "))
	}

	if img := a.Image(); img != nil {
		alt := a.Multimedia.Caption
		if alt == "" {
			alt = a.Title()
		}
		fmt.Fprintf(&b, "![%s](%s)\n\n", alt, img.URL)
	}
	if a.Multimedia != nil && (a.Multimedia.Caption != "" || a.Multimedia.Credit != "") {
		caption := a.Multimedia.Caption
		if a.Multimedia.Credit != "" {
			caption = strings.TrimSpace(caption + " *Credit: " + a.Multimedia.Credit + "*")
		}
		fmt.Fprintf(&b, "> %s\n\n", caption)
	}

	if a.Abstract != "" {
		fmt.Fprintf(&b, "**%s**\n\n", a.Abstract)
	}

	b.WriteString("---\n\n")

	if a.LeadParagraph != "" {
		fmt.Fprintf(&b, "%s\n\n", a.LeadParagraph)
	}
	if a.Snippet != "" && a.Snippet != a.Abstract && a.Snippet != a.LeadParagraph {
		fmt.Fprintf(&b, "%s\n\n", a.Snippet)
	}

	if topics := topicNames(a.Keywords); len(topics) > 0 {
		b.WriteString("**Related topics**\n\n")
		for _, t := range topics {
			fmt.Fprintf(&b, "- %s\n", t)
		}
		b.WriteString("\n")
	}

	if a.WordCount > 0 {
		fmt.Fprintf(&b, "*%d words*\n\n", a.WordCount)
	}
	if a.WebURL != "" {
		fmt.Fprintf(&b, "[Read the full article on nytimes.com](%s)\n", a.WebURL)
	}

	return b.String()
}

func sectionLabel(a *nyt.Article) string {
	switch {
	case a.SectionName != "" && a.SubsectionName != "":
		return a.SectionName + " › " + a.SubsectionName
	case a.SectionName != "":
		return a.SectionName
	default:
		return a.NewsDesk
	}
}

func topicNames(keywords []nyt.Keyword) []string {
	var names []string
	for _, k := range keywords {
		if k.Value == "" {
			continue
		}
		names = append(names, k.Value)
		if len(names) == maxTopics {
			break
		}
	}
	return names
}

// wrapWidth picks a readable wrap width for a terminal of the given width.
func wrapWidth(termWidth int, cfg config.ArticleConfig) int {
	maxWidth := cfg.WordWrapMaxWidth
	if maxWidth <= 0 {
		maxWidth = 120
	}
	minWidth := cfg.WordWrapMinWidth
	if minWidth <= 0 {
		minWidth = 40
	}

	w := (termWidth * 9) / 10
	w = min(w, maxWidth)
	w = max(w, minWidth)
	if termWidth < 50 {
		w = max(termWidth-4, 20)
	}
	return w
}

// NewRenderer builds a glamour renderer sized for termWidth.
func NewRenderer(termWidth int, cfg config.ArticleConfig) (*glamour.TermRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth(termWidth, cfg)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return r, nil
}

// RenderArticle renders an article for a terminal of the given width.
func RenderArticle(a *nyt.Article, termWidth int, cfg config.ArticleConfig) (string, error) {
	r, err := NewRenderer(termWidth, cfg)
	if err != nil {
		return "", err
	}
	out, err := r.Render(ArticleMarkdown(a))
	if err != nil {
		return "", fmt.Errorf("rendering article: %w", err)
	}
	return out, nil
}

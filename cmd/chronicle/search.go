package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/chronicle/internal/config"
	"github.com/pders01/chronicle/internal/debuglog"
	"github.com/pders01/chronicle/internal/nyt"
	"github.com/pders01/chronicle/internal/projection"
	"github.com/pders01/chronicle/internal/query"
	"github.com/pders01/chronicle/internal/tui"
	"github.com/pders01/chronicle/internal/validation"
)

var flagPage int

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Print one page of search results",
	Long:  "Search the archive once and print the results. Without a keyword the latest articles are listed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer debuglog.Close()

		keyword := validation.SanitizeQuery(strings.Join(args, " "))
		return runSearch(cmd.Context(), cmd.OutOrStdout(), newSearcher(cfg), cfg, keyword, flagPage-1)
	},
}

func init() {
	searchCmd.Flags().IntVarP(&flagPage, "page", "p", 1, "result page, starting at 1")
}

// fetch runs req and applies the outcome to store. The returned error carries
// the user-facing message.
func fetch(ctx context.Context, client nyt.Searcher, store *query.Store, req query.Request) error {
	rs, err := client.Search(nyt.WithRequestID(ctx, req.ID), req.Query, req.Page)
	if err != nil {
		store.Fail(req, err)
		return errors.New(store.Snapshot().Err)
	}
	store.Succeed(req, rs)
	return nil
}

func runSearch(ctx context.Context, out io.Writer, client nyt.Searcher, cfg *config.Config, keyword string, page int) error {
	store := query.NewStore(query.WithDefaultQuery(cfg.Search.DefaultQuery))
	if err := fetch(ctx, client, store, store.Begin(keyword, page)); err != nil {
		return err
	}
	printResults(out, store.Snapshot(), cfg.UI.Article.MaxSnippetLength)
	return nil
}

func printResults(out io.Writer, s query.State, snippetLen int) {
	fmt.Fprintln(out, tui.HeaderStyle.Render(projection.Heading(s.Keyword, s.IsLatest())))

	if s.Mode() == projection.ModeNoResults {
		fmt.Fprintln(out, tui.MsgNoResults)
		return
	}
	fmt.Fprintln(out, tui.TimeStyle.Render(projection.Summary(s.Metadata, s.Page, len(s.Articles))))
	fmt.Fprintln(out)

	for i, a := range s.Articles {
		n := s.Page*nyt.PageSize + i + 1
		fmt.Fprintf(out, "%3d. %s\n", n, tui.TitleStyle.UnsetPadding().UnsetBackground().Render(a.Title()))

		var meta []string
		if a.PubDate != "" {
			meta = append(meta, nyt.FormatDate(a.PubDate))
		}
		if a.SectionName != "" {
			meta = append(meta, a.SectionName)
		}
		if len(meta) > 0 {
			fmt.Fprintf(out, "     %s\n", tui.TimeStyle.Render(strings.Join(meta, " • ")))
		}
		if desc := snippet(a, snippetLen); desc != "" {
			fmt.Fprintf(out, "     %s\n", desc)
		}
		fmt.Fprintf(out, "     %s\n", nyt.EncodeRef(a.URI))
	}

	total := s.TotalPages()
	if projection.CanNext(s.Page, total) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, tui.HelpStyle.Render(fmt.Sprintf("more: --page %d", s.Page+2)))
	}
}

func snippet(a nyt.Article, limit int) string {
	desc := strings.TrimSpace(a.Snippet)
	if desc == "" {
		desc = strings.TrimSpace(a.Abstract)
	}
	if limit <= 0 {
		limit = 120
	}
	r := []rune(desc)
	if len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return desc
}

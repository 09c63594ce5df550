package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pders01/chronicle/internal/config"
	"github.com/pders01/chronicle/internal/debuglog"
	"github.com/pders01/chronicle/internal/nyt"
	"github.com/pders01/chronicle/internal/query"
	"github.com/pders01/chronicle/internal/tui"
	"github.com/pders01/chronicle/internal/validation"
)

var (
	flagArticleQuery string
	flagWidth        int
)

var errArticleNotFound = errors.New(tui.MsgNotFound)

var articleCmd = &cobra.Command{
	Use:   "article <ref>",
	Short: "Render one article",
	Long: "Render the article with the given escaped URI. The article is looked up in the " +
		"first page of --query, or of the latest articles.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		defer debuglog.Close()

		keyword := validation.SanitizeQuery(flagArticleQuery)
		return runArticle(cmd.Context(), cmd.OutOrStdout(), newSearcher(cfg), cfg, args[0], keyword)
	},
}

func init() {
	articleCmd.Flags().StringVarP(&flagArticleQuery, "query", "q", "", "keyword whose results contain the article")
	articleCmd.Flags().IntVar(&flagWidth, "width", 100, "terminal width used for wrapping")
}

func runArticle(ctx context.Context, out io.Writer, client nyt.Searcher, cfg *config.Config, ref, keyword string) error {
	store := query.NewStore(query.WithDefaultQuery(cfg.Search.DefaultQuery))
	if keyword == "" {
		keyword = query.LatestKeyword
	}
	store.SetKeyword(keyword)

	lookup := query.NewLookup(ref)
	for {
		res, article := lookup.Resolve(store.Snapshot())
		debuglog.Debugf("lookup %s: %s", lookup.URI(), res)

		switch res {
		case query.Found:
			rendered, err := tui.RenderArticle(article, flagWidth, cfg.UI.Article)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		case query.Refetch:
			if err := fetch(ctx, client, store, store.Begin(store.Snapshot().Keyword, 0)); err != nil {
				return err
			}
		case query.NotFound:
			return errArticleNotFound
		default:
			return fmt.Errorf("lookup %s: unexpected state %s", lookup.URI(), res)
		}
	}
}

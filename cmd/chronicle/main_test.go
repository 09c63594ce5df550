package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/chronicle/internal/config"
	"github.com/pders01/chronicle/internal/nyt"
)

type stubSearcher struct {
	queries []string
	pages   []int
	rs      *nyt.ResultSet
	err     error
}

func (s *stubSearcher) Search(_ context.Context, q string, page int) (*nyt.ResultSet, error) {
	s.queries = append(s.queries, q)
	s.pages = append(s.pages, page)
	return s.rs, s.err
}

func articles(prefix string, n int) []nyt.Article {
	out := make([]nyt.Article, n)
	for i := range out {
		out[i] = nyt.Article{
			URI:         fmt.Sprintf("nyt://article/%s-%d", prefix, i),
			WebURL:      fmt.Sprintf("https://www.nytimes.com/%s-%d.html", prefix, i),
			Headline:    nyt.Headline{Main: fmt.Sprintf("%s story %d", prefix, i)},
			Snippet:     "A snippet.",
			PubDate:     "2025-01-05T10:00:00+0000",
			SectionName: "World",
		}
	}
	return out
}

func TestVersionCommand(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	versionCmd.Run(nil, nil)

	w.Close()
	os.Stdout = old
	out := <-outC

	// Version is "dev" by default in tests
	if !strings.Contains(out, "chronicle dev") {
		t.Errorf("Expected version output to contain 'chronicle dev', got: %s", out)
	}
	if !strings.Contains(out, "github.com/pders01/chronicle") {
		t.Errorf("Expected version output to contain the module path, got: %s", out)
	}
}

func TestGenerateConfigCommand(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, ".config", "chronicle", "config.toml")
	t.Setenv("HOME", tmpDir)

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	configGenCmd.Run(nil, nil)

	w.Close()
	os.Stdout = old
	out := <-outC

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Errorf("Config file was not created at %s", configFile)
	}
	if !strings.Contains(out, "Generated default configuration at:") {
		t.Errorf("Expected output to contain 'Generated default configuration at:', got: %s", out)
	}
}

func TestRunSearch(t *testing.T) {
	stub := &stubSearcher{rs: &nyt.ResultSet{Articles: articles("cats", 3), Metadata: nyt.Metadata{Hits: 23}}}
	var out bytes.Buffer

	err := runSearch(context.Background(), &out, stub, config.TestConfig(), "cats", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"cats"}, stub.queries)
	assert.Equal(t, []int{1}, stub.pages)

	text := out.String()
	assert.Contains(t, text, `Search Results for "cats"`)
	assert.Contains(t, text, "Found 23 articles • Page 2 of 3 • Showing 3 results")
	assert.Contains(t, text, " 11. cats story 0")
	assert.Contains(t, text, "January 5, 2025 • World")
	assert.Contains(t, text, nyt.EncodeRef("nyt://article/cats-2"))
	assert.Contains(t, text, "more: --page 3")
}

func TestRunSearch_Latest(t *testing.T) {
	stub := &stubSearcher{rs: &nyt.ResultSet{Articles: articles("news", 10), Metadata: nyt.Metadata{Hits: 2500}}}
	var out bytes.Buffer

	require.NoError(t, runSearch(context.Background(), &out, stub, config.TestConfig(), "", 0))

	assert.Equal(t, []string{nyt.LatestQuery}, stub.queries)
	assert.Contains(t, out.String(), "Latest News")
	assert.Contains(t, out.String(), "Page 1 of 100")
}

func TestRunSearch_NoResults(t *testing.T) {
	stub := &stubSearcher{rs: &nyt.ResultSet{}}
	var out bytes.Buffer

	require.NoError(t, runSearch(context.Background(), &out, stub, config.TestConfig(), "zzzz", 0))
	assert.Contains(t, out.String(), "No articles found")
}

func TestRunSearch_Error(t *testing.T) {
	stub := &stubSearcher{err: fmt.Errorf("searching: %w", &nyt.SearchError{Kind: nyt.KindRateLimited, Status: 429})}

	err := runSearch(context.Background(), io.Discard, stub, config.TestConfig(), "cats", 0)
	require.Error(t, err)
	assert.Equal(t, "Rate limit exceeded. Please try again later.", err.Error())
}

func TestRunArticle(t *testing.T) {
	stub := &stubSearcher{rs: &nyt.ResultSet{Articles: articles("cats", 3), Metadata: nyt.Metadata{Hits: 3}}}
	var out bytes.Buffer

	ref := nyt.EncodeRef("nyt://article/cats-1")
	require.NoError(t, runArticle(context.Background(), &out, stub, config.TestConfig(), ref, "cats"))

	assert.Equal(t, []string{"cats"}, stub.queries)
	assert.Equal(t, []int{0}, stub.pages)
	assert.Contains(t, out.String(), "cats story 1")
}

func TestRunArticle_NotFound(t *testing.T) {
	stub := &stubSearcher{rs: &nyt.ResultSet{Articles: articles("cats", 3), Metadata: nyt.Metadata{Hits: 3}}}

	err := runArticle(context.Background(), io.Discard, stub, config.TestConfig(), nyt.EncodeRef("nyt://article/gone"), "")
	assert.ErrorIs(t, err, errArticleNotFound)
	assert.Equal(t, []string{nyt.LatestQuery}, stub.queries, "one refetch of latest articles")
}

func TestRunArticle_MalformedRef(t *testing.T) {
	stub := &stubSearcher{}

	err := runArticle(context.Background(), io.Discard, stub, config.TestConfig(), "nyt%3A%2F%2F%2", "cats")
	assert.ErrorIs(t, err, errArticleNotFound)
	assert.Empty(t, stub.queries)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", snippet(nyt.Article{Abstract: " abc "}, 10))
	assert.Equal(t, "abcd…", snippet(nyt.Article{Snippet: "abcdefgh"}, 5))
}

package nyt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pders01/chronicle/internal/config"
	"github.com/pders01/chronicle/internal/debuglog"
)

const (
	// PageSize is fixed by the archive.
	PageSize = 10
	// MaxPages is the provider ceiling: only pages 0..MaxPages-1 are served.
	MaxPages = 100
	// LatestQuery is sent when browsing latest articles instead of a keyword.
	LatestQuery = "news"

	maxBodyBytes = 8 << 20
)

// Searcher performs one archive query.
type Searcher interface {
	Search(ctx context.Context, query string, page int) (*ResultSet, error)
}

// Client talks to the Article Search endpoint. It performs exactly one
// attempt per call and holds no state besides its configuration.
type Client struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	userAgent string
}

func NewClient(cfg config.APIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.Key,
		userAgent: cfg.UserAgent,
	}
}

type requestIDKey struct{}

// WithRequestID attaches a correlation id that Search puts on its log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Search fetches one page of results for query. Empty queries and negative
// pages are rejected before any I/O. Every other failure is a *SearchError.
func (c *Client) Search(ctx context.Context, query string, page int) (*ResultSet, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if page < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	log := debuglog.WithFields(debuglog.Fields{
		"req":   requestID(ctx),
		"query": query,
		"page":  page,
	})

	endpoint, err := c.buildURL(query, page)
	if err != nil {
		return nil, &SearchError{Kind: KindNetworkFailure, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &SearchError{Kind: KindNetworkFailure, Err: fmt.Errorf("creating request: %w", err)}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		se := transportError(err)
		log.Warnf("search failed after %v: %s", time.Since(start), se.Detail())
		return nil, se
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		se := statusError(resp.StatusCode)
		log.Warnf("search rejected: %s", se.Detail())
		return nil, se
	}

	var doc searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&doc); err != nil {
		se := transportError(fmt.Errorf("decoding response: %w", err))
		log.Warnf("search failed: %s", se.Detail())
		return nil, se
	}
	if doc.Status != "" && doc.Status != "OK" {
		se := &SearchError{Kind: KindNetworkFailure, Status: resp.StatusCode, Err: fmt.Errorf("provider status %q", doc.Status)}
		log.Warnf("search failed: %s", se.Detail())
		return nil, se
	}

	articles := doc.Response.Docs
	if articles == nil {
		articles = []Article{}
	}

	log.Debugf("search ok in %v: %d docs, %d hits", time.Since(start), len(articles), doc.Response.Metadata.Hits)
	return &ResultSet{Articles: articles, Metadata: doc.Response.Metadata}, nil
}

func (c *Client) buildURL(query string, page int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint: %w", err)
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("api-key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

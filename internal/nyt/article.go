package nyt

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

var pubDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02",
}

// ParseDate parses the archive's pub_date field.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a pub_date as "January 2, 2006". Unparsable input is
// returned unchanged.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("January 2, 2006")
}

// FindByURI returns the article with the given canonical URI.
func FindByURI(articles []Article, uri string) (*Article, bool) {
	for i := range articles {
		if articles[i].URI == uri {
			return &articles[i], true
		}
	}
	return nil, false
}

// EncodeRef turns an article URI into a reference safe for paths and
// command-line arguments.
func EncodeRef(uri string) string {
	return url.PathEscape(uri)
}

// DecodeRef reverses EncodeRef.
func DecodeRef(ref string) (string, error) {
	uri, err := url.PathUnescape(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("decoding article reference: %w", err)
	}
	if uri == "" {
		return "", fmt.Errorf("decoding article reference: empty")
	}
	return uri, nil
}

package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"unicode"
)

// MaxQueryLength bounds a search keyword before it is sent to the archive.
const MaxQueryLength = 256

// URLValidator checks URLs that leave the process: the archive endpoint from
// configuration and article links handed to the system browser.
type URLValidator struct {
	// AllowLocalhost permits loopback hosts (tests point the client at httptest).
	AllowLocalhost bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

func NewURLValidator() *URLValidator {
	return &URLValidator{
		AllowLocalhost: false,
		MaxLength:      2048,
	}
}

func NewPermissiveURLValidator() *URLValidator {
	return &URLValidator{
		AllowLocalhost: true,
		MaxLength:      2048,
	}
}

// ValidateEndpoint validates the archive base URL and returns it normalized.
// The endpoint must not carry a query string; the client owns the parameters.
func (v *URLValidator) ValidateEndpoint(input string) (string, error) {
	u, err := v.parse(input)
	if err != nil {
		return "", err
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("endpoint must not contain query or fragment")
	}
	return u.String(), nil
}

// ValidateArticleURL validates an article web URL before it is opened.
// Only http and https are accepted; javascript:, file: and friends are not.
func (v *URLValidator) ValidateArticleURL(input string) (string, error) {
	u, err := v.parse(input)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (v *URLValidator) parse(input string) (*url.URL, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return nil, fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") || strings.IndexFunc(input, unicode.IsControl) >= 0 {
		return nil, fmt.Errorf("URL contains invalid characters")
	}

	u, err := url.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("URL must use http or https protocol")
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL must have a valid hostname")
	}

	hostname := u.Hostname()
	if !v.AllowLocalhost && isLocalhost(hostname) {
		return nil, fmt.Errorf("localhost URLs are not permitted")
	}
	if strings.Contains(u.Path, "..") {
		return nil, fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	return u, nil
}

// isLocalhost checks if a hostname refers to the loopback interface
func isLocalhost(hostname string) bool {
	if hostname == "localhost" || strings.HasSuffix(hostname, ".localhost") {
		return true
	}
	ip := net.ParseIP(hostname)
	return ip != nil && ip.IsLoopback()
}

// SanitizeQuery trims a raw search keyword, flattens whitespace runs into
// single spaces and bounds its length.
func SanitizeQuery(input string) string {
	fields := strings.FieldsFunc(input, unicode.IsSpace)
	out := strings.Join(fields, " ")

	if r := []rune(out); len(r) > MaxQueryLength {
		out = strings.TrimSpace(string(r[:MaxQueryLength]))
	}
	return out
}

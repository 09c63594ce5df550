package tui

import "strings"

const ellipsis = "…"

// truncateEnd cuts s to limit runes, ending in an ellipsis when shortened.
func truncateEnd(s string, limit int) string {
	r := []rune(s)
	switch {
	case limit <= 0:
		return ""
	case len(r) <= limit:
		return s
	case limit == 1:
		return ellipsis
	}
	return strings.TrimRight(string(r[:limit-1]), " ") + ellipsis
}

// shortURL drops the scheme from u and elides its middle so that both the
// host and the article slug stay visible.
func shortURL(u string, limit int) string {
	u = strings.TrimPrefix(strings.TrimPrefix(u, "https://"), "http://")
	r := []rune(u)
	if limit <= 0 {
		return ""
	}
	if len(r) <= limit {
		return u
	}
	if limit == 1 {
		return ellipsis
	}
	head := (limit - 1) / 2
	tail := limit - 1 - head
	return string(r[:head]) + ellipsis + string(r[len(r)-tail:])
}

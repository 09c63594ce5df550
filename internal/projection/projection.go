// Package projection derives display values from search state. Every function
// is pure.
package projection

import (
	"fmt"

	"github.com/pders01/chronicle/internal/nyt"
)

// Ceiling is the number of pages the archive will serve.
const Ceiling = nyt.MaxPages

// DefaultWindow is the number of page links shown in the pager.
const DefaultWindow = 5

// Mode selects what the results area shows. Exactly one applies at a time.
type Mode int

const (
	ModeLoading Mode = iota
	ModeError
	ModeInitial
	ModeNoResults
	ModeResults
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeError:
		return "error"
	case ModeInitial:
		return "initial"
	case ModeNoResults:
		return "no_results"
	case ModeResults:
		return "results"
	default:
		return "unknown"
	}
}

// ModeOf picks the presentation mode. Checks run in order loading, error,
// initial, no results, results.
func ModeOf(loading bool, err string, hasSearched bool, count int) Mode {
	switch {
	case loading:
		return ModeLoading
	case err != "":
		return ModeError
	case !hasSearched:
		return ModeInitial
	case count == 0:
		return ModeNoResults
	default:
		return ModeResults
	}
}

// TotalPages is the number of pages the hit count spans. It is not capped.
func TotalPages(meta *nyt.Metadata, pageSize int) int {
	if meta == nil || pageSize <= 0 || meta.Hits <= 0 {
		return 0
	}
	return (meta.Hits + pageSize - 1) / pageSize
}

// NavigablePages caps total at the archive ceiling.
func NavigablePages(total int) int {
	if total < 0 {
		return 0
	}
	return min(total, Ceiling)
}

// PageWindow returns the page indexes to offer, centred on current where
// the edges allow. No index at or beyond the ceiling is ever included.
func PageWindow(current, total, windowSize int) []int {
	navigable := NavigablePages(total)
	if navigable == 0 || windowSize <= 0 {
		return nil
	}

	size := min(windowSize, navigable)
	start := current - windowSize/2
	start = min(start, navigable-size)
	start = max(start, 0)

	pages := make([]int, size)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

func CanPrev(page int) bool {
	return page > 0
}

func CanNext(page, total int) bool {
	return page+1 < NavigablePages(total)
}

// Heading is the title above the result list.
func Heading(keyword string, latest bool) string {
	if latest {
		return "Latest News"
	}
	return fmt.Sprintf("Search Results for %q", keyword)
}

// Summary describes the result page, for example
// "Found 2,500 articles • Page 1 of 100 • Showing 10 results".
func Summary(meta *nyt.Metadata, page, shown int) string {
	if meta == nil {
		return ""
	}
	total := NavigablePages(TotalPages(meta, nyt.PageSize))
	return fmt.Sprintf("Found %s %s • Page %d of %d • Showing %d %s",
		thousands(meta.Hits), plural(meta.Hits, "article", "articles"),
		page+1, max(total, 1),
		shown, plural(shown, "result", "results"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func thousands(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return "-" + thousands(-n)
	}
	if len(s) <= 3 {
		return s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/chronicle/internal/nyt"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(nil, 10))
	assert.Equal(t, 0, TotalPages(&nyt.Metadata{Hits: 0}, 10))
	assert.Equal(t, 1, TotalPages(&nyt.Metadata{Hits: 1}, 10))
	assert.Equal(t, 1, TotalPages(&nyt.Metadata{Hits: 10}, 10))
	assert.Equal(t, 2, TotalPages(&nyt.Metadata{Hits: 11}, 10))
	assert.Equal(t, 250, TotalPages(&nyt.Metadata{Hits: 2500}, 10))
	assert.Equal(t, 0, TotalPages(&nyt.Metadata{Hits: 20}, 0))
}

func TestNavigablePages(t *testing.T) {
	assert.Equal(t, 0, NavigablePages(0))
	assert.Equal(t, 42, NavigablePages(42))
	assert.Equal(t, 100, NavigablePages(250))
	assert.Equal(t, 0, NavigablePages(-3))
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		window  int
		want    []int
	}{
		{"start", 0, 250, 5, []int{0, 1, 2, 3, 4}},
		{"centred", 10, 250, 5, []int{8, 9, 10, 11, 12}},
		{"near ceiling", 98, 250, 5, []int{95, 96, 97, 98, 99}},
		{"end of small set", 6, 7, 5, []int{2, 3, 4, 5, 6}},
		{"fewer pages than window", 1, 3, 5, []int{0, 1, 2}},
		{"single page", 0, 1, 5, []int{0}},
		{"no pages", 0, 0, 5, nil},
		{"zero window", 3, 10, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageWindow(tt.current, tt.total, tt.window))
		})
	}
}

func TestPageWindowCeilingClamp(t *testing.T) {
	pages := PageWindow(500, 1000, 5)
	assert.Len(t, pages, 5)
	for _, p := range pages {
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, Ceiling, "page %d is beyond the archive ceiling", p)
	}
	assert.NotContains(t, pages, 500)
	assert.Equal(t, []int{95, 96, 97, 98, 99}, pages)
}

func TestCanPrevNext(t *testing.T) {
	assert.False(t, CanPrev(0))
	assert.True(t, CanPrev(1))

	assert.True(t, CanNext(0, 250))
	assert.True(t, CanNext(98, 250))
	assert.False(t, CanNext(99, 250), "page 100 is never offered")
	assert.False(t, CanNext(0, 1))
	assert.False(t, CanNext(0, 0))
}

func TestModeOf(t *testing.T) {
	tests := []struct {
		name        string
		loading     bool
		err         string
		hasSearched bool
		count       int
		want        Mode
	}{
		{"loading wins", true, "", true, 10, ModeLoading},
		{"loading before search", true, "", false, 0, ModeLoading},
		{"error", false, "Invalid API key.", true, 0, ModeError},
		{"initial", false, "", false, 0, ModeInitial},
		{"no results", false, "", true, 0, ModeNoResults},
		{"results", false, "", true, 10, ModeResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModeOf(tt.loading, tt.err, tt.hasSearched, tt.count))
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "loading", ModeLoading.String())
	assert.Equal(t, "no_results", ModeNoResults.String())
	assert.Equal(t, "unknown", Mode(42).String())
}

func TestHeading(t *testing.T) {
	assert.Equal(t, "Latest News", Heading("Latest News", true))
	assert.Equal(t, `Search Results for "cats"`, Heading("cats", false))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil, 0, 0))
	assert.Equal(t,
		"Found 2,500 articles • Page 1 of 100 • Showing 10 results",
		Summary(&nyt.Metadata{Hits: 2500}, 0, 10))
	assert.Equal(t,
		"Found 1 article • Page 1 of 1 • Showing 1 result",
		Summary(&nyt.Metadata{Hits: 1}, 0, 1))
	assert.Equal(t,
		"Found 0 articles • Page 1 of 1 • Showing 0 results",
		Summary(&nyt.Metadata{Hits: 0}, 0, 0))
}

func TestThousands(t *testing.T) {
	assert.Equal(t, "0", thousands(0))
	assert.Equal(t, "999", thousands(999))
	assert.Equal(t, "1,000", thousands(1000))
	assert.Equal(t, "1,234,567", thousands(1234567))
	assert.Equal(t, "-12,000", thousands(-12000))
}

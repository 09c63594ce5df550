package query

import (
	"github.com/pders01/chronicle/internal/nyt"
)

// Resolution is the outcome of resolving an article reference.
type Resolution int

const (
	// Pending means a fetch is in flight; resolve again once it settles.
	Pending Resolution = iota
	Found
	// Refetch asks the caller to reload page 0 of the current keyword.
	Refetch
	NotFound
)

func (r Resolution) String() string {
	switch r {
	case Pending:
		return "pending"
	case Found:
		return "found"
	case Refetch:
		return "refetch"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Lookup resolves one article reference against successive states. It
// requests at most one refetch; a miss after that is terminal.
type Lookup struct {
	uri       string
	valid     bool
	refetched bool
}

// NewLookup prepares a lookup for an encoded reference. A reference that
// cannot be decoded resolves to NotFound.
func NewLookup(ref string) *Lookup {
	uri, err := nyt.DecodeRef(ref)
	return &Lookup{uri: uri, valid: err == nil}
}

// NewLookupURI prepares a lookup for a canonical URI.
func NewLookupURI(uri string) *Lookup {
	return &Lookup{uri: uri, valid: uri != ""}
}

func (l *Lookup) URI() string {
	return l.uri
}

// Resolve checks s for the article.
func (l *Lookup) Resolve(s State) (Resolution, *nyt.Article) {
	if !l.valid {
		return NotFound, nil
	}
	if a, ok := s.FindArticle(l.uri); ok {
		return Found, a
	}
	if s.Loading {
		return Pending, nil
	}
	if !l.refetched && s.Keyword != "" {
		l.refetched = true
		return Refetch, nil
	}
	return NotFound, nil
}

package nyt

import (
	"bytes"
	"encoding/json"
)

// Article is a single document returned by the archive. Values are treated as
// read-only once decoded.
type Article struct {
	ID             string      `json:"_id"`
	Abstract       string      `json:"abstract"`
	Byline         Byline      `json:"byline"`
	DocumentType   string      `json:"document_type"`
	Headline       Headline    `json:"headline"`
	Keywords       []Keyword   `json:"keywords"`
	Multimedia     *Multimedia `json:"multimedia,omitempty"`
	NewsDesk       string      `json:"news_desk"`
	PubDate        string      `json:"pub_date"`
	SectionName    string      `json:"section_name"`
	Snippet        string      `json:"snippet"`
	Source         string      `json:"source"`
	SubsectionName string      `json:"subsection_name"`
	TypeOfMaterial string      `json:"type_of_material"`
	URI            string      `json:"uri"`
	WebURL         string      `json:"web_url"`
	WordCount      int         `json:"word_count"`
	LeadParagraph  string      `json:"lead_paragraph,omitempty"`
}

type Byline struct {
	Original string `json:"original"`
}

type Headline struct {
	Main          string `json:"main"`
	Kicker        string `json:"kicker"`
	PrintHeadline string `json:"print_headline"`
}

type Keyword struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Rank  int    `json:"rank"`
}

type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type Multimedia struct {
	Caption   string `json:"caption"`
	Credit    string `json:"credit"`
	Default   *Image `json:"default,omitempty"`
	Thumbnail *Image `json:"thumbnail,omitempty"`
}

// UnmarshalJSON accepts the object form of the multimedia field. Older
// archive responses carry a list of renditions instead; those decode to an
// empty value.
func (m *Multimedia) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*m = Multimedia{}
		return nil
	}
	type plain Multimedia
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*m = Multimedia(p)
	return nil
}

// Title returns the main headline, falling back to the print headline.
func (a *Article) Title() string {
	if a.Headline.Main != "" {
		return a.Headline.Main
	}
	return a.Headline.PrintHeadline
}

// Image returns the default rendition, or nil when the article has none.
func (a *Article) Image() *Image {
	if a.Multimedia == nil || a.Multimedia.Default == nil || a.Multimedia.Default.URL == "" {
		return nil
	}
	return a.Multimedia.Default
}

// Metadata describes a result page. It is replaced wholesale on every fetch.
type Metadata struct {
	Hits   int `json:"hits"`
	Offset int `json:"offset"`
	Time   int `json:"time"`
}

// ResultSet is one page of results in provider relevance order.
type ResultSet struct {
	Articles []Article
	Metadata Metadata
}

type searchResponse struct {
	Status    string `json:"status"`
	Copyright string `json:"copyright"`
	Response  struct {
		Docs     []Article `json:"docs"`
		Metadata Metadata  `json:"metadata"`
	} `json:"response"`
}

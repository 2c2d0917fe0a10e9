package domain

import "strings"

// Article type values stored in document metadata.
const (
	TypeArticle  = "article"
	TypeAppendix = "appendix"
)

// DefaultLawName is used when a backend row carries no law name.
const DefaultLawName = "(법령명 없음)"

// Metadata holds the optional descriptive fields of a statute article.
// All fields may be empty; consumers apply defaults at presentation time.
type Metadata struct {
	LawName       string `json:"law_name,omitempty"`
	ArticleNumber string `json:"article_number,omitempty"`
	Title         string `json:"title,omitempty"`
	ArticleType   string `json:"article_type,omitempty"`
}

// Document is a single statute article as produced by a backend tier.
// Immutable once loaded.
type Document struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Meta    Metadata `json:"metadata"`
}

// ScoredDocument pairs a document with its raw backend score and the number
// of distinct query keywords that matched it. Transient per search.
type ScoredDocument struct {
	Doc        Document
	RawScore   float64
	MatchCount int
}

// FallbackArticleNumber derives an article number from a document id of the
// form "<law>_<number>" when metadata carries none. Returns the trailing
// segment, or the id itself when it has no separator.
func FallbackArticleNumber(id string) string {
	if i := strings.LastIndex(id, "_"); i >= 0 && i+1 < len(id) {
		return id[i+1:]
	}
	return id
}

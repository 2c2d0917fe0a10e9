package domain

// Search method tags identifying which tier answered a query.
const (
	MethodKeyword = "keyword"
	MethodHybrid  = "hybrid"
	MethodLocal   = "local"
)

// RelatedArticle is a cross-reference to another statute article.
type RelatedArticle struct {
	ID            string `json:"id"`
	ArticleNumber string `json:"article_number"`
}

// Article is a ranked search hit in its presentation shape.
type Article struct {
	ID            string           `json:"article_id"`
	LawName       string           `json:"law_name"`
	ArticleNumber string           `json:"article_number"`
	Title         string           `json:"title"`
	Content       string           `json:"content"`
	Highlighted   string           `json:"highlighted_content"`
	Relevance     float64          `json:"relevance_score"`
	ArticleType   string           `json:"article_type"`
	Related       []RelatedArticle `json:"related_articles"`
}

// SearchMeta describes how a search was answered.
type SearchMeta struct {
	SearchTimeMS float64 `json:"search_time_ms"`
	LLMUsed      bool    `json:"llm_used"`
	SearchMethod string  `json:"search_method"`
}

// Envelope is the full search response.
// Articles are sorted by descending relevance; RelevantLaws holds distinct
// law names in insertion order.
type Envelope struct {
	Query        string     `json:"query"`
	TotalFound   int        `json:"total_found"`
	Keywords     []string   `json:"keywords"`
	RelevantLaws []string   `json:"relevant_laws"`
	Articles     []Article  `json:"articles"`
	Meta         SearchMeta `json:"metadata"`
}

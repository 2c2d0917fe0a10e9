package lawdex

// Search method constants reported in SearchMeta.
const (
	MethodKeyword = "keyword"
	MethodHybrid  = "hybrid"
	MethodLocal   = "local"
)

// RelatedArticle is a cross-reference to another statute article.
type RelatedArticle struct {
	ID            string
	ArticleNumber string
}

// Article is a ranked search hit.
type Article struct {
	ID            string
	LawName       string
	ArticleNumber string
	Title         string
	Content       string
	Highlighted   string
	Relevance     float64
	ArticleType   string
	Related       []RelatedArticle
}

// SearchMeta describes how a search was answered.
type SearchMeta struct {
	SearchTimeMS float64
	LLMUsed      bool
	SearchMethod string
}

// SearchResponse is the full search result.
type SearchResponse struct {
	Query        string
	TotalFound   int
	Keywords     []string
	RelevantLaws []string
	Articles     []Article
	Meta         SearchMeta
}

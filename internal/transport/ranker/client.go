// Package ranker is the HTTP gateway to the secondary ranking engine.
package ranker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lawdex/lawdex/internal/domain"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 4 << 20
)

// Config holds the ranking engine connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client calls the ranking engine's search endpoint.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewClient creates a ranking engine client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Wire shapes of the engine API.
type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type engineArticle struct {
	ID            string                  `json:"id"`
	LawName       string                  `json:"law_name"`
	ArticleNumber string                  `json:"article_number"`
	Title         string                  `json:"title"`
	Content       string                  `json:"content"`
	Highlighted   string                  `json:"highlighted_content"`
	Related       []domain.RelatedArticle `json:"related_articles"`
	Relevance     float64                 `json:"relevance_score"`
}

type engineResponse struct {
	Query        string            `json:"query"`
	TotalFound   int               `json:"total_found"`
	Keywords     []string          `json:"keywords"`
	RelevantLaws []string          `json:"relevant_laws"`
	Articles     []engineArticle   `json:"articles"`
	Meta         domain.SearchMeta `json:"metadata"`
}

// Search posts the query to the engine and converts its response into the
// envelope shape. Transport failures (connection refused, DNS, timeout)
// surface as ErrSecondaryUnavailable so the orchestrator can fall back; a
// non-2xx response surfaces as a RankerStatusError carrying status and body.
func (c *Client) Search(ctx context.Context, query string, topK int) (domain.Envelope, error) {
	payload, err := json.Marshal(searchRequest{Query: query, TopK: topK})
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload),
	)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: %w", domain.ErrSecondaryUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: read body: %w", domain.ErrSecondaryUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("ranking engine returned error status",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(body)),
		)
		return domain.Envelope{}, domain.NewRankerStatusError(resp.StatusCode, string(body))
	}

	var er engineResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return domain.Envelope{}, fmt.Errorf("%w: decode response: %w", domain.ErrSecondaryError, err)
	}

	return toEnvelope(er), nil
}

// HealthCheck probes the engine's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("ranking engine health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ranking engine health: status %d", resp.StatusCode)
	}
	return nil
}

// toEnvelope re-tags the engine response into the local article shape,
// applying presentation defaults for missing fields.
func toEnvelope(er engineResponse) domain.Envelope {
	articles := make([]domain.Article, 0, len(er.Articles))
	for _, a := range er.Articles {
		if a.ID == "" {
			continue
		}
		lawName := a.LawName
		if lawName == "" {
			lawName = domain.DefaultLawName
		}
		articleNumber := a.ArticleNumber
		if articleNumber == "" {
			articleNumber = domain.FallbackArticleNumber(a.ID)
		}
		related := a.Related
		if related == nil {
			related = []domain.RelatedArticle{}
		}
		articles = append(articles, domain.Article{
			ID:            a.ID,
			LawName:       lawName,
			ArticleNumber: articleNumber,
			Title:         a.Title,
			Content:       a.Content,
			Highlighted:   a.Highlighted,
			Relevance:     a.Relevance,
			ArticleType:   domain.TypeArticle,
			Related:       related,
		})
	}

	meta := er.Meta
	if meta.SearchMethod == "" {
		meta.SearchMethod = domain.MethodHybrid
	}

	return domain.Envelope{
		Query:        er.Query,
		TotalFound:   er.TotalFound,
		Keywords:     er.Keywords,
		RelevantLaws: er.RelevantLaws,
		Articles:     articles,
		Meta:         meta,
	}
}

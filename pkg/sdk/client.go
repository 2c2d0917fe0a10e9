package lawdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/lawdex/lawdex/internal/db/redis"
	"github.com/lawdex/lawdex/internal/domain"
	"github.com/lawdex/lawdex/internal/index/local"
	remoterepo "github.com/lawdex/lawdex/internal/repository/remote"
	"github.com/lawdex/lawdex/internal/transport/ranker"
	healthuc "github.com/lawdex/lawdex/internal/usecase/health"
	searchuc "github.com/lawdex/lawdex/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCallTimeout      = 5 * time.Second
	defaultIndexName        = "lawdex:articles:idx"
	defaultKeyPrefix        = "lawdex:"
)

// Внутренние интерфейсы для подмены в тестах.
type searchUseCase interface {
	Search(ctx context.Context, query string, topK int) (domain.Envelope, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the lawdex SDK entry point.
type Client struct {
	store     *dbRedis.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
}

// New creates a lawdex Client. The snapshot is loaded eagerly; the remote
// store, when configured, must answer a ping within the readiness timeout.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		indexName:   defaultIndexName,
		keyPrefix:   defaultKeyPrefix,
		callTimeout: defaultCallTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.snapshotPath == "" {
		return nil, errors.New("lawdex: snapshot path required (use WithSnapshot)")
	}

	localIndex, err := local.Load(cfg.snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("lawdex: load snapshot: %w", err)
	}

	var (
		store      *dbRedis.Store
		remoteTier searchuc.RemoteSearcher
		dbPinger   healthuc.DBPinger
	)
	if len(cfg.addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("lawdex: create store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("lawdex: store not ready: %w", err)
		}
		remoteTier = remoterepo.New(store, remoterepo.Config{
			IndexName:   cfg.indexName,
			DocPrefix:   cfg.keyPrefix,
			CallTimeout: cfg.callTimeout,
		})
		dbPinger = store
	}

	var (
		secondaryTier searchuc.SecondaryRanker
		rankerChecker healthuc.RankerChecker
	)
	if cfg.rankerURL != "" {
		rc := ranker.NewClient(&ranker.Config{
			BaseURL: cfg.rankerURL,
			Timeout: cfg.rankerTimeout,
		})
		secondaryTier = rc
		rankerChecker = rc
	}

	searchSvc := searchuc.New(remoteTier, secondaryTier, localIndex, searchuc.Config{
		MaxQueryLength: cfg.maxQueryLength,
		MaxKeywords:    cfg.maxKeywords,
	})
	healthSvc := healthuc.New(dbPinger, rankerChecker, localIndex)

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthSvc,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search runs a tiered search and returns the ranked articles.
func (c *Client) Search(ctx context.Context, query string, topK int) (*SearchResponse, error) {
	env, err := c.searchSvc.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return responseFromEnvelope(env), nil
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the health of all configured components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

func responseFromEnvelope(env domain.Envelope) *SearchResponse {
	articles := make([]Article, len(env.Articles))
	for i, a := range env.Articles {
		related := make([]RelatedArticle, len(a.Related))
		for j, r := range a.Related {
			related[j] = RelatedArticle{ID: r.ID, ArticleNumber: r.ArticleNumber}
		}
		articles[i] = Article{
			ID:            a.ID,
			LawName:       a.LawName,
			ArticleNumber: a.ArticleNumber,
			Title:         a.Title,
			Content:       a.Content,
			Highlighted:   a.Highlighted,
			Relevance:     a.Relevance,
			ArticleType:   a.ArticleType,
			Related:       related,
		}
	}
	return &SearchResponse{
		Query:        env.Query,
		TotalFound:   env.TotalFound,
		Keywords:     env.Keywords,
		RelevantLaws: env.RelevantLaws,
		Articles:     articles,
		Meta: SearchMeta{
			SearchTimeMS: env.Meta.SearchTimeMS,
			LLMUsed:      env.Meta.LLMUsed,
			SearchMethod: env.Meta.SearchMethod,
		},
	}
}

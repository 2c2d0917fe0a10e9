// Package search orchestrates the tiered statute search: the remote indexed
// store when a database is configured, the external ranking engine when one
// is configured, and the in-process snapshot index as the last resort.
package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/lawdex/lawdex/internal/domain"
	"github.com/lawdex/lawdex/internal/domain/query"
	"github.com/lawdex/lawdex/internal/logger"
	"github.com/lawdex/lawdex/internal/metrics"
	"github.com/lawdex/lawdex/internal/search/highlight"
	"github.com/lawdex/lawdex/internal/search/score"
)

// Tier labels used in logs and metrics.
const (
	tierRemote    = "remote"
	tierSecondary = "secondary"
	tierLocal     = "local"
)

// Config carries the query limits for the orchestrator.
type Config struct {
	MaxQueryLength int
	MaxKeywords    int
}

// request bundles the per-search inputs passed down the tier chain.
type request struct {
	query    string
	keywords []string
	topK     int
	start    time.Time
}

// tier is one search strategy in the fallback chain. recoverable reports
// whether a failure should fall through to the next tier.
type tier struct {
	name        string
	search      func(ctx context.Context, req request) (domain.Envelope, error)
	recoverable func(err error) bool
}

// Service runs a search through the configured tiers in order, stopping at
// the first success or the first non-recoverable error.
type Service struct {
	tiers []tier
	cfg   Config
}

// New creates a search service. remote and secondary may be nil; local must
// not be. Adding a tier is an append to the chain.
func New(remote RemoteSearcher, secondary SecondaryRanker, local LocalIndex, cfg Config) *Service {
	if cfg.MaxQueryLength <= 0 {
		cfg.MaxQueryLength = query.DefaultMaxLength
	}
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = query.DefaultMaxKeywords
	}

	s := &Service{cfg: cfg}

	if remote != nil {
		s.tiers = append(s.tiers, tier{
			name: tierRemote,
			search: func(ctx context.Context, req request) (domain.Envelope, error) {
				docs, err := remote.Search(ctx, req.keywords, req.topK)
				if err != nil {
					return domain.Envelope{}, err
				}
				return buildEnvelope(req, docs, domain.MethodKeyword), nil
			},
			// Any remote failure, transport or server-side, is recovered
			// by the next tier.
			recoverable: func(error) bool { return true },
		})
	}

	if secondary != nil {
		s.tiers = append(s.tiers, tier{
			name: tierSecondary,
			search: func(ctx context.Context, req request) (domain.Envelope, error) {
				env, err := secondary.Search(ctx, req.query, req.topK)
				if err != nil {
					return domain.Envelope{}, err
				}
				if env.Query == "" {
					env.Query = req.query
				}
				if env.Meta.SearchTimeMS == 0 {
					env.Meta.SearchTimeMS = elapsedMS(req.start)
				}
				return env, nil
			},
			// An unreachable engine falls through; an engine that answered
			// with an error surfaces it.
			recoverable: func(err error) bool {
				return errors.Is(err, domain.ErrSecondaryUnavailable)
			},
		})
	}

	s.tiers = append(s.tiers, tier{
		name: tierLocal,
		search: func(_ context.Context, req request) (domain.Envelope, error) {
			docs := local.Search(req.keywords, req.topK)
			return buildEnvelope(req, docs, domain.MethodLocal), nil
		},
		recoverable: func(error) bool { return false },
	})

	return s
}

// Search validates the query and walks the tier chain. The local tier never
// fails; only invalid queries and non-recoverable tier errors surface to the
// caller.
func (s *Service) Search(ctx context.Context, rawQuery string, topK int) (domain.Envelope, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	q, err := query.Normalize(rawQuery, s.cfg.MaxQueryLength)
	if err != nil {
		return domain.Envelope{}, err
	}

	req := request{
		query:    q,
		keywords: query.Keywords(q, s.cfg.MaxKeywords),
		topK:     topK,
		start:    start,
	}

	for i, t := range s.tiers {
		env, err := t.search(ctx, req)
		if err == nil {
			metrics.SearchesTotal.WithLabelValues(t.name, "ok").Inc()
			metrics.SearchDuration.WithLabelValues(t.name).Observe(time.Since(start).Seconds())
			metrics.SearchResultsReturned.WithLabelValues(t.name).Observe(float64(len(env.Articles)))
			return env, nil
		}

		metrics.SearchesTotal.WithLabelValues(t.name, "error").Inc()
		if !t.recoverable(err) || i == len(s.tiers)-1 {
			return domain.Envelope{}, err
		}

		next := s.tiers[i+1].name
		log.Warn("search tier failed, falling back",
			zap.String("tier", t.name),
			zap.String("next", next),
			zap.String("query", q),
			zap.Error(err),
		)
		metrics.SearchFallbacksTotal.WithLabelValues(t.name, next).Inc()
	}

	// Unreachable: the local tier never returns an error.
	return domain.Envelope{}, errors.New("no search tier available")
}

func elapsedMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}

// buildEnvelope turns scored documents into the response envelope: scores
// normalized to 0-100 against the batch maximum, keyword highlighting applied
// to content, law names collected in first-seen order.
func buildEnvelope(req request, docs []domain.ScoredDocument, method string) domain.Envelope {
	hl := highlight.New(req.keywords)

	raw := make([]float64, len(docs))
	for i, d := range docs {
		raw[i] = d.RawScore
	}
	relevance := score.Normalize(raw)

	articles := make([]domain.Article, 0, len(docs))
	lawSeen := make(map[string]struct{})
	relevantLaws := make([]string, 0)

	for i, d := range docs {
		meta := d.Doc.Meta

		lawName := meta.LawName
		if lawName == "" {
			lawName = domain.DefaultLawName
		} else if _, ok := lawSeen[lawName]; !ok {
			lawSeen[lawName] = struct{}{}
			relevantLaws = append(relevantLaws, lawName)
		}

		articleNumber := meta.ArticleNumber
		if articleNumber == "" {
			articleNumber = domain.FallbackArticleNumber(d.Doc.ID)
		}

		articleType := meta.ArticleType
		if articleType == "" {
			articleType = domain.TypeArticle
		}

		articles = append(articles, domain.Article{
			ID:            d.Doc.ID,
			LawName:       lawName,
			ArticleNumber: articleNumber,
			Title:         meta.Title,
			Content:       d.Doc.Content,
			Highlighted:   hl.Apply(d.Doc.Content),
			Relevance:     relevance[i],
			ArticleType:   articleType,
			Related:       []domain.RelatedArticle{},
		})
	}

	return domain.Envelope{
		Query:        req.query,
		TotalFound:   len(articles),
		Keywords:     req.keywords,
		RelevantLaws: relevantLaws,
		Articles:     articles,
		Meta: domain.SearchMeta{
			SearchTimeMS: elapsedMS(req.start),
			LLMUsed:      false,
			SearchMethod: method,
		},
	}
}

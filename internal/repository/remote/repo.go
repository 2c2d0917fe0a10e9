// Package remote implements the gateway to the remote document index,
// including the per-keyword fan-out and score-boosting merge.
package remote

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lawdex/lawdex/internal/db"
	"github.com/lawdex/lawdex/internal/domain"
)

// matchBoost is the per-extra-keyword score multiplier increment: a document
// matched by k distinct keywords scores (sum of raw scores) * (1+(k-1)*0.5).
const matchBoost = 0.5

// Config holds index layout and per-call limits.
type Config struct {
	IndexName   string
	DocPrefix   string
	CallTimeout time.Duration
}

// Repo implements the remote index tier over a db.Searcher.
type Repo struct {
	store db.Searcher
	cfg   Config
}

// New creates a remote index gateway.
func New(store db.Searcher, cfg Config) *Repo {
	return &Repo{store: store, cfg: cfg}
}

// Search runs the keyword search. A single keyword issues one call; multiple
// keywords fan out one concurrent call each, then merge by document id with
// score summing and a match-count boost. Any failing branch fails the whole
// search (first error wins), so callers can treat it as tier-unavailable.
func (r *Repo) Search(ctx context.Context, keywords []string, limit int) ([]domain.ScoredDocument, error) {
	switch len(keywords) {
	case 0:
		return nil, nil
	case 1:
		return r.searchOne(ctx, keywords[0], limit)
	}

	g, gctx := errgroup.WithContext(ctx)
	perKeyword := make([][]domain.ScoredDocument, len(keywords))

	for i, kw := range keywords {
		i, kw := i, kw
		g.Go(func() error {
			docs, err := r.searchOne(gctx, kw, limit)
			if err != nil {
				return err
			}
			perKeyword[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeKeywordResults(perKeyword, limit), nil
}

// searchOne issues one call to the index search procedure.
func (r *Repo) searchOne(ctx context.Context, keyword string, limit int) ([]domain.ScoredDocument, error) {
	if r.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.CallTimeout)
		defer cancel()
	}

	sr, err := r.store.Search(ctx, &db.TextQuery{
		IndexName:  r.cfg.IndexName,
		Query:      keyword,
		MaxResults: limit,
	})
	if err != nil {
		return nil, r.classify(keyword, err)
	}

	docs := make([]domain.ScoredDocument, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, r.cfg.DocPrefix)
		if id == "" {
			continue
		}
		docs = append(docs, domain.ScoredDocument{
			Doc: domain.Document{
				ID:      id,
				Content: entry.Fields["content"],
				Meta: domain.Metadata{
					LawName:       entry.Fields["law_name"],
					ArticleNumber: entry.Fields["article_number"],
					Title:         entry.Fields["title"],
					ArticleType:   entry.Fields["article_type"],
				},
			},
			RawScore:   entry.Score,
			MatchCount: 1,
		})
	}
	return docs, nil
}

// classify maps a store failure onto the tier error taxonomy. A deadline hit
// counts as unavailability so the orchestrator falls back instead of hanging.
func (r *Repo) classify(keyword string, err error) error {
	var dbErr *db.Error
	if errors.As(err, &dbErr) && dbErr.Kind == db.KindServer {
		return fmt.Errorf("search %q: %w: %w", keyword, domain.ErrRemoteError, err)
	}
	return fmt.Errorf("search %q: %w: %w", keyword, domain.ErrRemoteUnavailable, err)
}

// mergeKeywordResults merges per-keyword result sets by document id: raw
// scores are summed, match counts incremented, then every document's score is
// multiplied by 1+(matchCount-1)*matchBoost. The merged set is sorted by
// boosted score descending (ties keep first-seen order) and truncated.
func mergeKeywordResults(perKeyword [][]domain.ScoredDocument, limit int) []domain.ScoredDocument {
	merged := make(map[string]*domain.ScoredDocument)
	order := make([]string, 0)

	for _, docs := range perKeyword {
		for _, sd := range docs {
			if existing, ok := merged[sd.Doc.ID]; ok {
				existing.RawScore += sd.RawScore
				existing.MatchCount++
				continue
			}
			cp := sd
			merged[sd.Doc.ID] = &cp
			order = append(order, sd.Doc.ID)
		}
	}

	out := make([]domain.ScoredDocument, 0, len(order))
	for _, id := range order {
		sd := *merged[id]
		sd.RawScore *= 1 + float64(sd.MatchCount-1)*matchBoost
		out = append(out, sd)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RawScore > out[j].RawScore
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

package search

import (
	"context"

	"github.com/lawdex/lawdex/internal/domain"
)

// RemoteSearcher fans a keyword set out to the indexed document store and
// returns merged, boosted matches.
type RemoteSearcher interface {
	Search(ctx context.Context, keywords []string, limit int) ([]domain.ScoredDocument, error)
}

// SecondaryRanker delegates the whole query to the external ranking engine.
type SecondaryRanker interface {
	Search(ctx context.Context, query string, topK int) (domain.Envelope, error)
}

// LocalIndex is the in-process fallback index over the bundled snapshot.
type LocalIndex interface {
	Search(parts []string, limit int) []domain.ScoredDocument
}

// Package local implements the in-process fallback search index over a
// bundled snapshot of statute articles. The snapshot is loaded once at
// startup and never mutated, so the index is safe for unlimited concurrent
// readers.
package local

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lawdex/lawdex/internal/domain"
)

// Scoring weights per match class.
const (
	exactWeight    = 3.0
	tokenWeight    = 1.0
	compoundWeight = 0.5
)

type indexedDoc struct {
	doc          domain.Document
	lowerContent string
	tokens       map[string]struct{}
}

// Index is an immutable scored search index over a document snapshot.
type Index struct {
	docs []indexedDoc
}

// New builds an index from a document snapshot.
func New(docs []domain.Document) *Index {
	ix := &Index{docs: make([]indexedDoc, 0, len(docs))}
	for _, d := range docs {
		tokens := make(map[string]struct{})
		for _, t := range Tokenize(d.Content) {
			tokens[t] = struct{}{}
		}
		ix.docs = append(ix.docs, indexedDoc{
			doc:          d,
			lowerContent: strings.ToLower(d.Content),
			tokens:       tokens,
		})
	}
	return ix
}

// Load reads a JSON snapshot of documents from disk and builds the index.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var docs []domain.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return New(docs), nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return len(ix.docs) }

// Search scores every document against the split query parts and returns the
// top matches by descending score. Zero-score documents are excluded; an
// empty result is a valid outcome, not an error.
//
// Per document: +3 for each query part contained in the content, +1 for each
// query token present in the document token set, +0.5 for each compound
// fragment of a long part found in the content.
func (ix *Index) Search(parts []string, limit int) []domain.ScoredDocument {
	if len(parts) == 0 || limit <= 0 {
		return nil
	}

	lowerParts := make([]string, len(parts))
	for i, p := range parts {
		lowerParts[i] = strings.ToLower(p)
	}
	queryTokens := Tokenize(strings.Join(parts, " "))

	scored := make([]domain.ScoredDocument, 0)
	for _, d := range ix.docs {
		var s float64

		for _, lp := range lowerParts {
			if strings.Contains(d.lowerContent, lp) {
				s += exactWeight
			}
		}

		for _, tok := range queryTokens {
			if _, ok := d.tokens[tok]; ok {
				s += tokenWeight
			}
		}

		for _, lp := range lowerParts {
			for _, frag := range compoundFragments(lp) {
				if strings.Contains(d.lowerContent, frag) {
					s += compoundWeight
				}
			}
		}

		if s > 0 {
			scored = append(scored, domain.ScoredDocument{
				Doc:        d.doc,
				RawScore:   s,
				MatchCount: 1,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RawScore > scored[j].RawScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

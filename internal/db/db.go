// Package db defines the storage contract for the remote document index.
package db

import (
	"context"
	"time"
)

// Store is the database facade for the remote index tier.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TextQuery describes one call to the index search procedure.
type TextQuery struct {
	IndexName  string
	Query      string
	MaxResults int
}

// SearchEntry is one raw hit returned by the index.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// SearchResult is the raw output of one search call.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// Searcher provides read-only full-text search over the document index.
// Calls are idempotent and have no side effects on the store.
type Searcher interface {
	Search(ctx context.Context, q *TextQuery) (*SearchResult, error)
}

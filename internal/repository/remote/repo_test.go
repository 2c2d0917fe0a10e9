package remote

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/lawdex/lawdex/internal/db"
	"github.com/lawdex/lawdex/internal/domain"
)

// mockStore returns canned results per query keyword.
type mockStore struct {
	mu      sync.Mutex
	results map[string]*db.SearchResult
	errs    map[string]error
	calls   []string
}

func (m *mockStore) Search(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, q.Query)
	m.mu.Unlock()
	if err, ok := m.errs[q.Query]; ok {
		return nil, err
	}
	if sr, ok := m.results[q.Query]; ok {
		return sr, nil
	}
	return &db.SearchResult{}, nil
}

func entry(id string, score float64, content string) db.SearchEntry {
	return db.SearchEntry{
		Key:   "lawdex:articles:" + id,
		Score: score,
		Fields: map[string]string{
			"content":  content,
			"law_name": "수소법",
		},
	}
}

func newRepo(store db.Searcher) *Repo {
	return New(store, Config{
		IndexName: "lawdex:articles:idx",
		DocPrefix: "lawdex:articles:",
	})
}

func TestSearch_SingleKeyword(t *testing.T) {
	store := &mockStore{results: map[string]*db.SearchResult{
		"수소충전소": {Total: 1, Entries: []db.SearchEntry{entry("수소법_제1조", 2.0, "수소충전소 설치 기준")}},
	}}
	repo := newRepo(store)

	docs, err := repo.Search(context.Background(), []string{"수소충전소"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 doc, got %d", len(docs))
	}
	if docs[0].Doc.ID != "수소법_제1조" {
		t.Errorf("prefix not trimmed: %q", docs[0].Doc.ID)
	}
	if docs[0].MatchCount != 1 || docs[0].RawScore != 2.0 {
		t.Errorf("single-keyword result must be unboosted: %+v", docs[0])
	}
	if docs[0].Doc.Meta.LawName != "수소법" {
		t.Errorf("metadata not mapped: %+v", docs[0].Doc.Meta)
	}
	if len(store.calls) != 1 {
		t.Errorf("expected exactly one store call, got %v", store.calls)
	}
}

func TestSearch_MultiKeywordMergeAndBoost(t *testing.T) {
	// X matches both keywords, Y matches only the first.
	store := &mockStore{results: map[string]*db.SearchResult{
		"수소": {Total: 2, Entries: []db.SearchEntry{
			entry("X", 1.0, "수소 안전 기준"),
			entry("Y", 3.0, "수소 생산"),
		}},
		"안전": {Total: 1, Entries: []db.SearchEntry{
			entry("X", 2.0, "수소 안전 기준"),
		}},
	}}
	repo := newRepo(store)

	docs, err := repo.Search(context.Background(), []string{"수소", "안전"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0].Doc.ID != "X" {
		t.Fatalf("multi-match doc should rank first, got %q", docs[0].Doc.ID)
	}
	// (1.0 + 2.0) * (1 + (2-1)*0.5) = 4.5
	if math.Abs(docs[0].RawScore-4.5) > 1e-9 {
		t.Errorf("boosted score = %v, want 4.5", docs[0].RawScore)
	}
	if docs[0].MatchCount != 2 {
		t.Errorf("match count = %d, want 2", docs[0].MatchCount)
	}
	if docs[1].Doc.ID != "Y" || docs[1].RawScore != 3.0 {
		t.Errorf("single-match doc must stay unboosted: %+v", docs[1])
	}
}

func TestSearch_MultiKeywordFirstErrorWins(t *testing.T) {
	store := &mockStore{
		results: map[string]*db.SearchResult{
			"수소": {Total: 1, Entries: []db.SearchEntry{entry("X", 1.0, "수소")}},
		},
		errs: map[string]error{
			"안전": &db.Error{Op: db.OpSearch, Kind: db.KindUnavailable, Err: errors.New("connection refused")},
		},
	}
	repo := newRepo(store)

	_, err := repo.Search(context.Background(), []string{"수소", "안전"}, 10)
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
}

func TestSearch_ServerErrorClassification(t *testing.T) {
	store := &mockStore{errs: map[string]error{
		"수소": &db.Error{Op: db.OpSearch, Kind: db.KindServer, Err: errors.New("Unknown index name")},
	}}
	repo := newRepo(store)

	_, err := repo.Search(context.Background(), []string{"수소"}, 10)
	if !errors.Is(err, domain.ErrRemoteError) {
		t.Fatalf("expected ErrRemoteError, got %v", err)
	}
	if errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Error("server error must not be classified as unavailability")
	}
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	store := &mockStore{results: map[string]*db.SearchResult{
		"수소": {Total: 3, Entries: []db.SearchEntry{
			entry("A", 3.0, "a"), entry("B", 2.0, "b"), entry("C", 1.0, "c"),
		}},
		"안전": {Total: 1, Entries: []db.SearchEntry{entry("C", 5.0, "c")}},
	}}
	repo := newRepo(store)

	docs, err := repo.Search(context.Background(), []string{"수소", "안전"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(docs))
	}
	// C: (1+5)*1.5 = 9 ranks first.
	if docs[0].Doc.ID != "C" {
		t.Errorf("expected C first, got %q", docs[0].Doc.ID)
	}
}

func TestSearch_NoKeywords(t *testing.T) {
	repo := newRepo(&mockStore{})
	docs, err := repo.Search(context.Background(), nil, 10)
	if err != nil || docs != nil {
		t.Fatalf("expected nil, nil; got %v, %v", docs, err)
	}
}

func TestMergeKeywordResults_TieKeepsFirstSeenOrder(t *testing.T) {
	perKeyword := [][]domain.ScoredDocument{
		{
			{Doc: domain.Document{ID: "A"}, RawScore: 1.0, MatchCount: 1},
			{Doc: domain.Document{ID: "B"}, RawScore: 1.0, MatchCount: 1},
		},
	}
	out := mergeKeywordResults(perKeyword, 10)
	if out[0].Doc.ID != "A" || out[1].Doc.ID != "B" {
		t.Errorf("tie order not preserved: %v, %v", out[0].Doc.ID, out[1].Doc.ID)
	}
}

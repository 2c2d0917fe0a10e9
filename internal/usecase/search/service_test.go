package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lawdex/lawdex/internal/domain"
)

type mockRemote struct {
	docs []domain.ScoredDocument
	err  error

	gotKeywords []string
	gotLimit    int
}

func (m *mockRemote) Search(_ context.Context, keywords []string, limit int) ([]domain.ScoredDocument, error) {
	m.gotKeywords = keywords
	m.gotLimit = limit
	return m.docs, m.err
}

type mockSecondary struct {
	env domain.Envelope
	err error

	gotQuery string
	gotTopK  int
}

func (m *mockSecondary) Search(_ context.Context, query string, topK int) (domain.Envelope, error) {
	m.gotQuery = query
	m.gotTopK = topK
	return m.env, m.err
}

type mockLocal struct {
	docs []domain.ScoredDocument

	gotParts []string
}

func (m *mockLocal) Search(parts []string, limit int) []domain.ScoredDocument {
	m.gotParts = parts
	if len(m.docs) > limit {
		return m.docs[:limit]
	}
	return m.docs
}

func scoredDoc(id, law, content string, raw float64) domain.ScoredDocument {
	return domain.ScoredDocument{
		Doc: domain.Document{
			ID:      id,
			Content: content,
			Meta:    domain.Metadata{LawName: law},
		},
		RawScore:   raw,
		MatchCount: 1,
	}
}

func TestSearch_RemoteTierSuccess(t *testing.T) {
	remote := &mockRemote{docs: []domain.ScoredDocument{
		scoredDoc("수소법_제1조", "수소법", "수소충전소 설치 기준", 4.5),
		scoredDoc("고압가스법_제5조", "고압가스법", "고압가스 안전 관리", 3.0),
	}}
	local := &mockLocal{}
	svc := New(remote, nil, local, Config{})

	env, err := svc.Search(context.Background(), "수소충전소 안전", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Meta.SearchMethod != domain.MethodKeyword {
		t.Errorf("search method = %q", env.Meta.SearchMethod)
	}
	if env.TotalFound != 2 || len(env.Articles) != 2 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Articles[0].Relevance != 100 {
		t.Errorf("top score should normalize to 100, got %v", env.Articles[0].Relevance)
	}
	want := 3.0 / 4.5 * 100
	if got := env.Articles[1].Relevance; got < want-0.001 || got > want+0.001 {
		t.Errorf("second score = %v, want %v", got, want)
	}
	if len(remote.gotKeywords) != 2 || remote.gotKeywords[0] != "수소충전소" {
		t.Errorf("keywords passed to remote: %v", remote.gotKeywords)
	}
	if local.gotParts != nil {
		t.Error("local tier should not run when remote succeeds")
	}
}

func TestSearch_RemoteFailureFallsBackToLocal(t *testing.T) {
	remote := &mockRemote{err: domain.ErrRemoteUnavailable}
	local := &mockLocal{docs: []domain.ScoredDocument{
		scoredDoc("수소법_제1조", "수소법", "수소충전소 설치 기준", 6.5),
	}}
	svc := New(remote, nil, local, Config{})

	env, err := svc.Search(context.Background(), "수소충전소", 10)
	if err != nil {
		t.Fatalf("fallback should not surface the remote error: %v", err)
	}
	if env.Meta.SearchMethod != domain.MethodLocal {
		t.Errorf("search method = %q", env.Meta.SearchMethod)
	}
	if len(env.Articles) != 1 {
		t.Fatalf("expected local results, got %+v", env)
	}
}

func TestSearch_RemoteServerErrorAlsoFallsBack(t *testing.T) {
	remote := &mockRemote{err: domain.ErrRemoteError}
	local := &mockLocal{}
	svc := New(remote, nil, local, Config{})

	env, err := svc.Search(context.Background(), "안전", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Meta.SearchMethod != domain.MethodLocal {
		t.Errorf("search method = %q", env.Meta.SearchMethod)
	}
}

func TestSearch_RemoteFailureFallsThroughToSecondary(t *testing.T) {
	remote := &mockRemote{err: domain.ErrRemoteUnavailable}
	secondary := &mockSecondary{env: domain.Envelope{
		Query:      "수소충전소",
		TotalFound: 1,
		Articles:   []domain.Article{{ID: "수소법_제1조", Relevance: 95}},
		Meta:       domain.SearchMeta{SearchTimeMS: 30, SearchMethod: domain.MethodHybrid},
	}}
	local := &mockLocal{}
	svc := New(remote, secondary, local, Config{})

	env, err := svc.Search(context.Background(), "수소충전소", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Meta.SearchMethod != domain.MethodHybrid {
		t.Errorf("search method = %q", env.Meta.SearchMethod)
	}
	if local.gotParts != nil {
		t.Error("local tier should not run when secondary succeeds")
	}
}

func TestSearch_RemoteAndSecondaryDownFallsToLocal(t *testing.T) {
	remote := &mockRemote{err: domain.ErrRemoteUnavailable}
	secondary := &mockSecondary{err: domain.ErrSecondaryUnavailable}
	local := &mockLocal{docs: []domain.ScoredDocument{
		scoredDoc("수소법_제1조", "수소법", "수소충전소", 1),
	}}
	svc := New(remote, secondary, local, Config{})

	env, err := svc.Search(context.Background(), "수소충전소", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Meta.SearchMethod != domain.MethodLocal {
		t.Errorf("search method = %q", env.Meta.SearchMethod)
	}
}

func TestSearch_SecondaryTierPassesEnvelopeThrough(t *testing.T) {
	secondary := &mockSecondary{env: domain.Envelope{
		Query:      "수소충전소",
		TotalFound: 1,
		Articles:   []domain.Article{{ID: "수소법_제1조", Relevance: 92}},
		Meta:       domain.SearchMeta{SearchTimeMS: 40, LLMUsed: true, SearchMethod: domain.MethodHybrid},
	}}
	svc := New(nil, secondary, &mockLocal{}, Config{})

	env, err := svc.Search(context.Background(), "수소충전소", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Meta.SearchMethod != domain.MethodHybrid || !env.Meta.LLMUsed {
		t.Errorf("engine metadata not preserved: %+v", env.Meta)
	}
	if env.Articles[0].Relevance != 92 {
		t.Errorf("engine score not preserved: %v", env.Articles[0].Relevance)
	}
	if secondary.gotQuery != "수소충전소" || secondary.gotTopK != 5 {
		t.Errorf("engine call = (%q, %d)", secondary.gotQuery, secondary.gotTopK)
	}
}

func TestSearch_SecondaryUnavailableFallsBackToLocal(t *testing.T) {
	secondary := &mockSecondary{err: domain.ErrSecondaryUnavailable}
	local := &mockLocal{docs: []domain.ScoredDocument{
		scoredDoc("수소법_제1조", "수소법", "수소충전소", 1),
	}}
	svc := New(nil, secondary, local, Config{})

	env, err := svc.Search(context.Background(), "수소충전소", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Meta.SearchMethod != domain.MethodLocal {
		t.Errorf("search method = %q", env.Meta.SearchMethod)
	}
}

func TestSearch_SecondaryRealErrorSurfaces(t *testing.T) {
	secondary := &mockSecondary{err: domain.NewRankerStatusError(500, "boom")}
	local := &mockLocal{docs: []domain.ScoredDocument{
		scoredDoc("수소법_제1조", "수소법", "수소충전소", 1),
	}}
	svc := New(nil, secondary, local, Config{})

	_, err := svc.Search(context.Background(), "수소충전소", 10)
	if !errors.Is(err, domain.ErrSecondaryError) {
		t.Fatalf("expected ErrSecondaryError, got %v", err)
	}
	if local.gotParts != nil {
		t.Error("local tier must not run after a real engine error")
	}
}

func TestSearch_LocalOnlyWhenNothingConfigured(t *testing.T) {
	local := &mockLocal{docs: []domain.ScoredDocument{
		scoredDoc("수소법_제1조", "수소법", "수소충전소 설치", 2),
	}}
	svc := New(nil, nil, local, Config{})

	env, err := svc.Search(context.Background(), "수소충전소 설치", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Meta.SearchMethod != domain.MethodLocal {
		t.Errorf("search method = %q", env.Meta.SearchMethod)
	}
	if len(local.gotParts) != 2 {
		t.Errorf("parts passed to local: %v", local.gotParts)
	}
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	svc := New(nil, nil, &mockLocal{}, Config{})
	_, err := svc.Search(context.Background(), "   ", 10)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearch_QueryClampedAndKeywordsCapped(t *testing.T) {
	remote := &mockRemote{}
	svc := New(remote, nil, &mockLocal{}, Config{})

	raw := strings.Repeat("가 ", 400) // 800 runes, 400 keywords
	if _, err := svc.Search(context.Background(), raw, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(remote.gotKeywords) > 20 {
		t.Errorf("keywords not capped: %d", len(remote.gotKeywords))
	}
}

func TestSearch_EnvelopeDefaultsAndHighlighting(t *testing.T) {
	remote := &mockRemote{docs: []domain.ScoredDocument{
		{
			Doc:        domain.Document{ID: "미상법령_제3조", Content: "수소충전소 설치"},
			RawScore:   2,
			MatchCount: 1,
		},
	}}
	svc := New(remote, nil, &mockLocal{}, Config{})

	env, err := svc.Search(context.Background(), "수소충전소", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := env.Articles[0]
	if a.LawName != domain.DefaultLawName {
		t.Errorf("law name default = %q", a.LawName)
	}
	if a.ArticleNumber != "제3조" {
		t.Errorf("article number fallback = %q", a.ArticleNumber)
	}
	if a.ArticleType != domain.TypeArticle {
		t.Errorf("article type default = %q", a.ArticleType)
	}
	if a.Highlighted != "<mark>수소충전소</mark> 설치" {
		t.Errorf("highlighted = %q", a.Highlighted)
	}
	if a.Related == nil {
		t.Error("related articles should be an empty slice, not nil")
	}
	if len(env.RelevantLaws) != 0 {
		t.Errorf("placeholder law name must not enter relevant_laws: %v", env.RelevantLaws)
	}
}

func TestSearch_RelevantLawsDedupInOrder(t *testing.T) {
	remote := &mockRemote{docs: []domain.ScoredDocument{
		scoredDoc("수소법_제1조", "수소법", "a", 3),
		scoredDoc("고압가스법_제5조", "고압가스법", "b", 2),
		scoredDoc("수소법_제2조", "수소법", "c", 1),
	}}
	svc := New(remote, nil, &mockLocal{}, Config{})

	env, err := svc.Search(context.Background(), "안전", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.RelevantLaws) != 2 ||
		env.RelevantLaws[0] != "수소법" || env.RelevantLaws[1] != "고압가스법" {
		t.Errorf("relevant laws = %v", env.RelevantLaws)
	}
}

package lawdex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawdex/lawdex/internal/domain"
	healthuc "github.com/lawdex/lawdex/internal/usecase/health"
)

// --- Mocks ---

type mockSearchUseCase struct {
	env domain.Envelope
	err error
}

func (m *mockSearchUseCase) Search(_ context.Context, _ string, _ int) (domain.Envelope, error) {
	return m.env, m.err
}

type mockHealthUseCase struct {
	report healthuc.Report
}

func (m *mockHealthUseCase) Check(_ context.Context) healthuc.Report { return m.report }

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "articles.json")
	data := `[{"id":"수소법_제1조","content":"수소충전소 설치 기준","metadata":{"law_name":"수소법","article_number":"제1조"}}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- Tests ---

func TestNew_RequiresSnapshot(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error without snapshot")
	}
}

func TestNew_LocalOnly(t *testing.T) {
	client, err := New(context.Background(), WithSnapshot(writeSnapshot(t)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	resp, err := client.Search(context.Background(), "수소충전소", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Meta.SearchMethod != MethodLocal {
		t.Errorf("search method = %q", resp.Meta.SearchMethod)
	}
	if resp.TotalFound != 1 || resp.Articles[0].LawName != "수소법" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestNew_BadSnapshotPath(t *testing.T) {
	_, err := New(context.Background(), WithSnapshot("/nonexistent/articles.json"))
	if err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestSearch_ConvertsEnvelope(t *testing.T) {
	client := &Client{
		searchSvc: &mockSearchUseCase{env: domain.Envelope{
			Query:        "안전",
			TotalFound:   1,
			Keywords:     []string{"안전"},
			RelevantLaws: []string{"고압가스법"},
			Articles: []domain.Article{{
				ID:        "고압가스법_제4조",
				LawName:   "고압가스법",
				Relevance: 100,
				Related:   []domain.RelatedArticle{{ID: "고압가스법_제5조", ArticleNumber: "제5조"}},
			}},
			Meta: domain.SearchMeta{SearchMethod: domain.MethodKeyword},
		}},
	}

	resp, err := client.Search(context.Background(), "안전", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Articles[0].Related[0].ArticleNumber != "제5조" {
		t.Errorf("related not converted: %+v", resp.Articles[0])
	}
	if resp.Meta.SearchMethod != MethodKeyword {
		t.Errorf("search method = %q", resp.Meta.SearchMethod)
	}
}

func TestSearch_InvalidQuerySentinel(t *testing.T) {
	client := &Client{searchSvc: &mockSearchUseCase{err: domain.ErrInvalidQuery}}

	_, err := client.Search(context.Background(), "", 10)
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	client := &Client{healthSvc: &mockHealthUseCase{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}}}

	status := client.Health(context.Background())
	if status.Status != "degraded" {
		t.Errorf("status = %q", status.Status)
	}
	if status.Checks["database"] != "error" {
		t.Errorf("checks = %v", status.Checks)
	}
}

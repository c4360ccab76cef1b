package service

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/repository"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// =============================================================================
// Article Validation Tests
// =============================================================================

func TestValidateArticle(t *testing.T) {
	svc := &articleService{}

	testCases := []struct {
		name    string
		title   string
		content string
		valid   bool
	}{
		{"valid", "A proper title", "some content", true},
		{"title too short - 5 chars", "abcde", "some content", false},
		{"title minimum - 6 chars", "abcdef", "some content", true},
		{"empty content", "A proper title", "", false},
		{"whitespace content", "A proper title", "   \n", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.validateArticle(tc.title, tc.content)
			if tc.valid && err != nil {
				t.Errorf("expected valid, got error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected error for invalid article")
			}
		})
	}
}

func TestValidateArticle_ShortTitleMessage(t *testing.T) {
	svc := &articleService{}

	err := svc.validateArticle("short", "content")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := domain.ErrorMessage(err); got != "The title's length isn't long enough." {
		t.Errorf("unexpected message: %q", got)
	}
	if code := domain.ErrorCode(err); code != domain.EINVALID {
		t.Errorf("expected EINVALID, got %s", code)
	}
}

// =============================================================================
// View IP Decoding Tests
// =============================================================================

func TestDecodeViewIPs(t *testing.T) {
	testCases := []struct {
		name string
		raw  pqtype.NullRawMessage
		want int
	}{
		{"null column", pqtype.NullRawMessage{}, 0},
		{"empty payload", pqtype.NullRawMessage{RawMessage: json.RawMessage(``), Valid: true}, 0},
		{"empty list", pqtype.NullRawMessage{RawMessage: json.RawMessage(`[]`), Valid: true}, 0},
		{"two addresses", pqtype.NullRawMessage{RawMessage: json.RawMessage(`["10.0.0.1","10.0.0.2"]`), Valid: true}, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ips, err := decodeViewIPs(tc.raw)
			if err != nil {
				t.Fatalf("decodeViewIPs: %v", err)
			}
			if len(ips) != tc.want {
				t.Errorf("expected %d addresses, got %d", tc.want, len(ips))
			}
		})
	}
}

func TestDecodeViewIPs_Corrupt(t *testing.T) {
	raw := pqtype.NullRawMessage{RawMessage: json.RawMessage(`{"not":"a list"}`), Valid: true}
	if _, err := decodeViewIPs(raw); err == nil {
		t.Error("expected error for corrupt payload")
	}
}

// =============================================================================
// Row Conversion Tests
// =============================================================================

func TestRepoArticleToDomain(t *testing.T) {
	categoryID := uuid.New()
	row := repository.ArticleWithCategory{
		Article: repository.Article{
			ID:         uuid.New(),
			Slug:       "hello-world",
			Title:      "Hello world",
			Content:    "content",
			CategoryID: uuid.NullUUID{UUID: categoryID, Valid: true},
			ViewIps:    pqtype.NullRawMessage{RawMessage: json.RawMessage(`["10.0.0.1"]`), Valid: true},
			CreatedAt:  time.Now(),
		},
		CategoryTitle: sql.NullString{String: "General", Valid: true},
	}

	article := repoArticleToDomain(row)

	if article.Slug != "hello-world" {
		t.Errorf("unexpected slug %q", article.Slug)
	}
	if article.Category == nil {
		t.Fatal("expected category to be set")
	}
	if article.Category.ID != categoryID || article.Category.Title != "General" {
		t.Errorf("unexpected category: %+v", article.Category)
	}
	if article.Views() != 1 {
		t.Errorf("expected 1 view, got %d", article.Views())
	}
}

func TestRepoArticleToDomain_DeletedCategory(t *testing.T) {
	row := repository.ArticleWithCategory{
		Article: repository.Article{
			ID:      uuid.New(),
			Slug:    "orphan",
			Title:   "Orphan",
			Content: "content",
		},
	}

	article := repoArticleToDomain(row)

	if article.Category != nil {
		t.Errorf("expected nil category, got %+v", article.Category)
	}
	if article.Views() != 0 {
		t.Errorf("expected 0 views, got %d", article.Views())
	}
}

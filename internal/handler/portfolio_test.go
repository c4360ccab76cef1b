package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/daniel-medina/website/internal/domain"
	"github.com/google/uuid"
)

func newPortfolioHandler(projects *mockProjectService, renderer *mockRenderer) *PortfolioHandler {
	return NewPortfolioHandler(projects, renderer, testFlash(), testLogger())
}

func TestPortfolioIndex(t *testing.T) {
	renderer := &mockRenderer{}
	h := newPortfolioHandler(&mockProjectService{}, renderer)

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/portfolio", nil))

	if renderer.LastTemplate != "public/portfolio" {
		t.Errorf("template = %q, want %q", renderer.LastTemplate, "public/portfolio")
	}
}

func TestPortfolioProjects_RejectsPlainRequests(t *testing.T) {
	h := newPortfolioHandler(&mockProjectService{
		ListPublicFunc: func(ctx context.Context) ([]domain.Project, error) {
			t.Fatal("ListPublic should not be called for non-XHR requests")
			return nil, nil
		},
	}, &mockRenderer{})

	rec := httptest.NewRecorder()
	h.Projects(rec, httptest.NewRequest(http.MethodGet, "/portfolio/projects", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}
}

func TestPortfolioProjects_XHR(t *testing.T) {
	project := domain.Project{
		ID:          uuid.New(),
		Title:       "website",
		Description: "A personal website.",
		URL:         "https://github.com/daniel-medina/website",
		Visibility:  domain.VisibilityPublic,
		Tags:        []string{"go", "postgres"},
		Frameworks:  []domain.Framework{{ID: uuid.New(), Name: "Echo", Color: domain.TagColorRed}},
		Languages:   []domain.Language{{ID: uuid.New(), Name: "Go", Color: domain.TagColorGreen}},
		Images: []domain.ProjectImage{{
			ID:           uuid.New(),
			OriginalKey:  "projects/p/orig.png",
			ThumbnailKey: "projects/p/thumb.jpg",
			ContentType:  "image/png",
		}},
		CreatedAt: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}

	h := newPortfolioHandler(&mockProjectService{
		ListPublicFunc: func(ctx context.Context) ([]domain.Project, error) {
			return []domain.Project{project}, nil
		},
	}, &mockRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/portfolio/projects", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	rec := httptest.NewRecorder()
	h.Projects(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var payload []ProjectJSON
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("len(payload) = %d, want 1", len(payload))
	}

	got := payload[0]
	if got.Title != "website" {
		t.Errorf("title = %q, want %q", got.Title, "website")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" {
		t.Errorf("tags = %v, want [go postgres]", got.Tags)
	}
	if len(got.Frameworks) != 1 || got.Frameworks[0].Name != "Echo" {
		t.Errorf("frameworks = %v", got.Frameworks)
	}
	if len(got.Images) != 1 || got.Images[0].URL == "" {
		t.Errorf("images = %v, want resolved URLs", got.Images)
	}
	if got.Created != "2026-03-14" {
		t.Errorf("created = %q, want %q", got.Created, "2026-03-14")
	}
}

func TestPortfolioProjects_EmptyListIsJSONArray(t *testing.T) {
	h := newPortfolioHandler(&mockProjectService{
		ListPublicFunc: func(ctx context.Context) ([]domain.Project, error) {
			return nil, nil
		},
	}, &mockRenderer{})

	req := httptest.NewRequest(http.MethodGet, "/portfolio/projects", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	rec := httptest.NewRecorder()
	h.Projects(rec, req)

	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/daniel-medina/website/internal/auth"
	"github.com/daniel-medina/website/internal/domain"
	"github.com/google/uuid"
)

func newAdminBlogHandler(articles *mockArticleService, renderer *mockRenderer) *AdminBlogHandler {
	return NewAdminBlogHandler(articles, renderer, testFlash(), testLogger(), AdminBlogConfig{
		PerPage:          5,
		PaginationWindow: 2,
	}, false)
}

func TestAdminBlogIndex(t *testing.T) {
	articles := &mockArticleService{
		ArchiveFunc: func(ctx context.Context, page, perPage int) (*domain.ArchivePage, error) {
			if perPage != 5 {
				t.Errorf("perPage = %d, want 5", perPage)
			}
			return &domain.ArchivePage{
				Articles: []domain.Article{testArticle("One")},
				Total:    8,
				Page:     page,
				MaxPage:  2,
			}, nil
		},
		ListCategoriesFunc: func(ctx context.Context) ([]domain.Category, error) {
			return []domain.Category{{ID: uuid.New(), Title: "Development"}}, nil
		},
	}
	renderer := &mockRenderer{}
	h := newAdminBlogHandler(articles, renderer)

	req := httptest.NewRequest(http.MethodGet, adminBlogPath, nil)
	req = req.WithContext(auth.SetAdmin(req.Context(), &domain.Admin{ID: uuid.New(), Username: "daniel"}))

	rec := httptest.NewRecorder()
	h.Index(rec, req)

	if renderer.LastTemplate != "admin/blog/index" {
		t.Fatalf("template = %q, want %q", renderer.LastTemplate, "admin/blog/index")
	}
	data := renderer.LastData.(AdminBlogPageData)
	if len(data.Categories) != 1 {
		t.Errorf("len(Categories) = %d, want 1", len(data.Categories))
	}
	if data.CSRFToken == "" {
		t.Error("CSRF token missing from page data")
	}
}

func TestAdminBlogIndex_PastLastPageRedirects(t *testing.T) {
	articles := &mockArticleService{
		ArchiveFunc: func(ctx context.Context, page, perPage int) (*domain.ArchivePage, error) {
			return &domain.ArchivePage{Total: 8, Page: page, MaxPage: 2}, nil
		},
	}
	h := newAdminBlogHandler(articles, &mockRenderer{})

	req := httptest.NewRequest(http.MethodGet, adminBlogPath+"/page/9", nil)
	req.SetPathValue("page", "9")

	rec := httptest.NewRecorder()
	h.Index(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != adminBlogPath {
		t.Errorf("Location = %q, want %q", loc, adminBlogPath)
	}
}

func TestAdminBlogCreate(t *testing.T) {
	categoryID := uuid.New()

	tests := []struct {
		name     string
		createFn func(ctx context.Context, params domain.CreateArticleParams) (*domain.Article, error)
	}{
		{
			name: "success",
			createFn: func(ctx context.Context, params domain.CreateArticleParams) (*domain.Article, error) {
				if params.Title != "A proper title" {
					t.Errorf("title = %q", params.Title)
				}
				if params.CategoryID != categoryID {
					t.Errorf("category = %v, want %v", params.CategoryID, categoryID)
				}
				a := testArticle(params.Title)
				return &a, nil
			},
		},
		{
			name: "short title",
			createFn: func(ctx context.Context, params domain.CreateArticleParams) (*domain.Article, error) {
				return nil, domain.Invalid("ArticleService.Create", "The title's length isn't long enough.")
			},
		},
		{
			name: "duplicate title",
			createFn: func(ctx context.Context, params domain.CreateArticleParams) (*domain.Article, error) {
				return nil, domain.Conflict("ArticleService.Create", "The article's title already exist in the database.")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles := &mockArticleService{CreateFunc: tt.createFn}
			h := newAdminBlogHandler(articles, &mockRenderer{})

			req := postForm(adminBlogPath, url.Values{
				"title":    {"A proper title"},
				"content":  {"Body text."},
				"category": {categoryID.String()},
			})
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != adminBlogPath {
				t.Errorf("Location = %q, want %q", loc, adminBlogPath)
			}
		})
	}
}

func TestAdminBlogDelete_InvalidID(t *testing.T) {
	h := newAdminBlogHandler(&mockArticleService{}, &mockRenderer{})

	req := postForm(adminBlogPath+"/not-a-uuid/delete", url.Values{})
	req.SetPathValue("id", "not-a-uuid")

	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != adminBlogPath {
		t.Errorf("Location = %q, want %q", loc, adminBlogPath)
	}
}

func TestAdminBlogCreateCategory(t *testing.T) {
	var created string
	articles := &mockArticleService{
		CreateCategoryFunc: func(ctx context.Context, title string) (*domain.Category, error) {
			created = title
			return &domain.Category{ID: uuid.New(), Title: title}, nil
		},
	}
	h := newAdminBlogHandler(articles, &mockRenderer{})

	req := postForm(adminBlogPath+"/category", url.Values{"title": {"Development"}})
	rec := httptest.NewRecorder()
	h.CreateCategory(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if created != "Development" {
		t.Errorf("created category = %q, want %q", created, "Development")
	}
}

func TestAdminBlogUpdateCategory(t *testing.T) {
	categoryID := uuid.New()
	var gotID uuid.UUID
	var gotTitle string
	articles := &mockArticleService{
		UpdateCategoryFunc: func(ctx context.Context, id uuid.UUID, title string) (*domain.Category, error) {
			gotID = id
			gotTitle = title
			return &domain.Category{ID: id, Title: title}, nil
		},
	}
	h := newAdminBlogHandler(articles, &mockRenderer{})

	req := postForm(adminBlogPath+"/category/"+categoryID.String(), url.Values{"title": {"Infrastructure"}})
	req.SetPathValue("id", categoryID.String())

	rec := httptest.NewRecorder()
	h.UpdateCategory(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if gotID != categoryID {
		t.Errorf("category id = %v, want %v", gotID, categoryID)
	}
	if gotTitle != "Infrastructure" {
		t.Errorf("title = %q, want %q", gotTitle, "Infrastructure")
	}
}

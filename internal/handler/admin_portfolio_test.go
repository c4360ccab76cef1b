package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"github.com/daniel-medina/website/internal/csrf"
	"github.com/daniel-medina/website/internal/domain"
	"github.com/google/uuid"
)

func newAdminPortfolioHandler(projects *mockProjectService, renderer *mockRenderer) *AdminPortfolioHandler {
	return NewAdminPortfolioHandler(projects, renderer, testFlash(), testLogger(), false)
}

func TestAdminPortfolioCreate_ParsesForm(t *testing.T) {
	frameworkID := uuid.New()
	languageID := uuid.New()

	var got domain.CreateProjectParams
	projects := &mockProjectService{
		CreateFunc: func(ctx context.Context, params domain.CreateProjectParams) (*domain.Project, error) {
			got = params
			return &domain.Project{ID: uuid.New(), Title: params.Title}, nil
		},
	}
	h := newAdminPortfolioHandler(projects, &mockRenderer{})

	req := postForm(adminPortfolioPath, url.Values{
		"title":       {"website"},
		"description": {"A personal website."},
		"url":         {"https://example.com"},
		"visibility":  {"public"},
		"tags":        {"go, postgres, go"},
		"frameworks":  {frameworkID.String()},
		"languages":   {languageID.String(), "not-a-uuid"},
	})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got.Title != "website" {
		t.Errorf("title = %q, want %q", got.Title, "website")
	}
	if got.Visibility != domain.VisibilityPublic {
		t.Errorf("visibility = %q, want %q", got.Visibility, domain.VisibilityPublic)
	}
	if want := []string{"go", "postgres"}; !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("tags = %v, want %v (deduplicated)", got.Tags, want)
	}
	if len(got.FrameworkIDs) != 1 || got.FrameworkIDs[0] != frameworkID {
		t.Errorf("frameworks = %v, want [%v]", got.FrameworkIDs, frameworkID)
	}
	if len(got.LanguageIDs) != 1 || got.LanguageIDs[0] != languageID {
		t.Errorf("languages = %v, want valid IDs only", got.LanguageIDs)
	}
}

func TestAdminPortfolioCreate_ValidationFlash(t *testing.T) {
	projects := &mockProjectService{
		CreateFunc: func(ctx context.Context, params domain.CreateProjectParams) (*domain.Project, error) {
			return nil, domain.Invalid("ProjectService.Create", "The title's length isn't valid.")
		},
	}
	h := newAdminPortfolioHandler(projects, &mockRenderer{})

	req := postForm(adminPortfolioPath, url.Values{"title": {""}})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != adminPortfolioPath {
		t.Errorf("Location = %q, want %q", loc, adminPortfolioPath)
	}
}

func TestAdminPortfolioUploadImage(t *testing.T) {
	projectID := uuid.New()

	var gotProject uuid.UUID
	var gotFilename string
	projects := &mockProjectService{
		UploadImageFunc: func(ctx context.Context, id uuid.UUID, file multipart.File, header *multipart.FileHeader) (*domain.ProjectImage, error) {
			gotProject = id
			gotFilename = header.Filename
			return &domain.ProjectImage{ID: uuid.New()}, nil
		},
	}
	h := newAdminPortfolioHandler(projects, &mockRenderer{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField(csrf.FormFieldName, "test-token"); err != nil {
		t.Fatal(err)
	}
	part, err := mw.CreateFormFile("image", "screenshot.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, adminPortfolioPath+"/"+projectID.String()+"/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: "test-token"})
	req.SetPathValue("id", projectID.String())

	rec := httptest.NewRecorder()
	h.UploadImage(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	wantLoc := adminPortfolioPath + "/" + projectID.String()
	if loc := rec.Header().Get("Location"); loc != wantLoc {
		t.Errorf("Location = %q, want %q", loc, wantLoc)
	}
	if gotProject != projectID {
		t.Errorf("project = %v, want %v", gotProject, projectID)
	}
	if gotFilename != "screenshot.png" {
		t.Errorf("filename = %q, want %q", gotFilename, "screenshot.png")
	}
}

func TestAdminPortfolioUploadImage_MissingFile(t *testing.T) {
	projectID := uuid.New()
	h := newAdminPortfolioHandler(&mockProjectService{}, &mockRenderer{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField(csrf.FormFieldName, "test-token"); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, adminPortfolioPath+"/"+projectID.String()+"/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: "test-token"})
	req.SetPathValue("id", projectID.String())

	rec := httptest.NewRecorder()
	h.UploadImage(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "whitespace only", raw: "   ", want: nil},
		{name: "single", raw: "go", want: []string{"go"}},
		{name: "trims and drops empties", raw: " go ,, postgres ,", want: []string{"go", "postgres"}},
		{name: "deduplicates", raw: "go,go,go", want: []string{"go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitTags(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitTags(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/daniel-medina/website/internal/domain"
	"github.com/google/uuid"
)

// =============================================================================
// Renderer Mock
// =============================================================================

// mockRenderer records the template name and data of the last render so
// tests can assert against them without real templates on disk.
type mockRenderer struct {
	LastTemplate string
	LastData     interface{}
}

func (m *mockRenderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	m.LastTemplate = name
	m.LastData = data
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

// =============================================================================
// Service Mocks
// =============================================================================

type mockArticleService struct {
	FrontPageFunc         func(ctx context.Context, olderLimit int) (*domain.FrontPage, error)
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	GetBySlugFunc         func(ctx context.Context, slug string) (*domain.Article, error)
	RecordViewFunc        func(ctx context.Context, articleID uuid.UUID, remoteAddr string) error
	ArchiveFunc           func(ctx context.Context, page, perPage int) (*domain.ArchivePage, error)
	ArchiveByCategoryFunc func(ctx context.Context, categoryTitle string, page, perPage int) (*domain.ArchivePage, error)
	CreateFunc            func(ctx context.Context, params domain.CreateArticleParams) (*domain.Article, error)
	UpdateFunc            func(ctx context.Context, params domain.UpdateArticleParams) (*domain.Article, error)
	DeleteFunc            func(ctx context.Context, id uuid.UUID) error
	CreateCategoryFunc    func(ctx context.Context, title string) (*domain.Category, error)
	UpdateCategoryFunc    func(ctx context.Context, id uuid.UUID, title string) (*domain.Category, error)
	ListCategoriesFunc    func(ctx context.Context) ([]domain.Category, error)
	DeleteCategoryFunc    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockArticleService) FrontPage(ctx context.Context, olderLimit int) (*domain.FrontPage, error) {
	return m.FrontPageFunc(ctx, olderLimit)
}

func (m *mockArticleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockArticleService) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return m.GetBySlugFunc(ctx, slug)
}

func (m *mockArticleService) RecordView(ctx context.Context, articleID uuid.UUID, remoteAddr string) error {
	if m.RecordViewFunc == nil {
		return nil
	}
	return m.RecordViewFunc(ctx, articleID, remoteAddr)
}

func (m *mockArticleService) Archive(ctx context.Context, page, perPage int) (*domain.ArchivePage, error) {
	return m.ArchiveFunc(ctx, page, perPage)
}

func (m *mockArticleService) ArchiveByCategory(ctx context.Context, categoryTitle string, page, perPage int) (*domain.ArchivePage, error) {
	return m.ArchiveByCategoryFunc(ctx, categoryTitle, page, perPage)
}

func (m *mockArticleService) Create(ctx context.Context, params domain.CreateArticleParams) (*domain.Article, error) {
	return m.CreateFunc(ctx, params)
}

func (m *mockArticleService) Update(ctx context.Context, params domain.UpdateArticleParams) (*domain.Article, error) {
	return m.UpdateFunc(ctx, params)
}

func (m *mockArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockArticleService) CreateCategory(ctx context.Context, title string) (*domain.Category, error) {
	return m.CreateCategoryFunc(ctx, title)
}

func (m *mockArticleService) UpdateCategory(ctx context.Context, id uuid.UUID, title string) (*domain.Category, error) {
	return m.UpdateCategoryFunc(ctx, id, title)
}

func (m *mockArticleService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.ListCategoriesFunc == nil {
		return nil, nil
	}
	return m.ListCategoriesFunc(ctx)
}

func (m *mockArticleService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.DeleteCategoryFunc(ctx, id)
}

type mockProjectService struct {
	ListPublicFunc      func(ctx context.Context) ([]domain.Project, error)
	ListFunc            func(ctx context.Context) ([]domain.Project, error)
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	CreateFunc          func(ctx context.Context, params domain.CreateProjectParams) (*domain.Project, error)
	UpdateFunc          func(ctx context.Context, params domain.UpdateProjectParams) (*domain.Project, error)
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	UploadImageFunc     func(ctx context.Context, projectID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*domain.ProjectImage, error)
	DeleteImageFunc     func(ctx context.Context, projectID, imageID uuid.UUID) error
	ImageURLFunc        func(ctx context.Context, key string) (string, error)
	CreateFrameworkFunc func(ctx context.Context, params domain.CreateTagParams) (*domain.Framework, error)
	ListFrameworksFunc  func(ctx context.Context) ([]domain.Framework, error)
	DeleteFrameworkFunc func(ctx context.Context, id uuid.UUID) error
	CreateLanguageFunc  func(ctx context.Context, params domain.CreateTagParams) (*domain.Language, error)
	ListLanguagesFunc   func(ctx context.Context) ([]domain.Language, error)
	DeleteLanguageFunc  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProjectService) ListPublic(ctx context.Context) ([]domain.Project, error) {
	return m.ListPublicFunc(ctx)
}

func (m *mockProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return m.ListFunc(ctx)
}

func (m *mockProjectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockProjectService) Create(ctx context.Context, params domain.CreateProjectParams) (*domain.Project, error) {
	return m.CreateFunc(ctx, params)
}

func (m *mockProjectService) Update(ctx context.Context, params domain.UpdateProjectParams) (*domain.Project, error) {
	return m.UpdateFunc(ctx, params)
}

func (m *mockProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockProjectService) UploadImage(ctx context.Context, projectID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*domain.ProjectImage, error) {
	return m.UploadImageFunc(ctx, projectID, file, header)
}

func (m *mockProjectService) DeleteImage(ctx context.Context, projectID, imageID uuid.UUID) error {
	return m.DeleteImageFunc(ctx, projectID, imageID)
}

func (m *mockProjectService) ImageURL(ctx context.Context, key string) (string, error) {
	if m.ImageURLFunc == nil {
		return "https://cdn.example.com/" + key, nil
	}
	return m.ImageURLFunc(ctx, key)
}

func (m *mockProjectService) CreateFramework(ctx context.Context, params domain.CreateTagParams) (*domain.Framework, error) {
	return m.CreateFrameworkFunc(ctx, params)
}

func (m *mockProjectService) ListFrameworks(ctx context.Context) ([]domain.Framework, error) {
	if m.ListFrameworksFunc == nil {
		return nil, nil
	}
	return m.ListFrameworksFunc(ctx)
}

func (m *mockProjectService) DeleteFramework(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFrameworkFunc(ctx, id)
}

func (m *mockProjectService) CreateLanguage(ctx context.Context, params domain.CreateTagParams) (*domain.Language, error) {
	return m.CreateLanguageFunc(ctx, params)
}

func (m *mockProjectService) ListLanguages(ctx context.Context) ([]domain.Language, error) {
	if m.ListLanguagesFunc == nil {
		return nil, nil
	}
	return m.ListLanguagesFunc(ctx)
}

func (m *mockProjectService) DeleteLanguage(ctx context.Context, id uuid.UUID) error {
	return m.DeleteLanguageFunc(ctx, id)
}

type mockAdminService struct {
	CountAccountsFunc         func(ctx context.Context) (int64, error)
	EnsureDefaultAdminFunc    func(ctx context.Context) error
	LoginFunc                 func(ctx context.Context, username, password string) (*domain.LoginResult, error)
	LogoutFunc                func(ctx context.Context, token string) error
	GetBySessionTokenFunc     func(ctx context.Context, token string) (*domain.Admin, error)
	CreateAccountFunc         func(ctx context.Context, params domain.CreateAccountParams) (*domain.Admin, error)
	DeleteAccountFunc         func(ctx context.Context, params domain.DeleteAccountParams) error
	ListAccountsFunc          func(ctx context.Context) ([]domain.Admin, error)
	DeleteExpiredSessionsFunc func(ctx context.Context) error
}

func (m *mockAdminService) CountAccounts(ctx context.Context) (int64, error) {
	return m.CountAccountsFunc(ctx)
}

func (m *mockAdminService) EnsureDefaultAdmin(ctx context.Context) error {
	return m.EnsureDefaultAdminFunc(ctx)
}

func (m *mockAdminService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	return m.LoginFunc(ctx, username, password)
}

func (m *mockAdminService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, token)
}

func (m *mockAdminService) GetBySessionToken(ctx context.Context, token string) (*domain.Admin, error) {
	return m.GetBySessionTokenFunc(ctx, token)
}

func (m *mockAdminService) CreateAccount(ctx context.Context, params domain.CreateAccountParams) (*domain.Admin, error) {
	return m.CreateAccountFunc(ctx, params)
}

func (m *mockAdminService) DeleteAccount(ctx context.Context, params domain.DeleteAccountParams) error {
	return m.DeleteAccountFunc(ctx, params)
}

func (m *mockAdminService) ListAccounts(ctx context.Context) ([]domain.Admin, error) {
	return m.ListAccountsFunc(ctx)
}

func (m *mockAdminService) DeleteExpiredSessions(ctx context.Context) error {
	if m.DeleteExpiredSessionsFunc == nil {
		return nil
	}
	return m.DeleteExpiredSessionsFunc(ctx)
}

// =============================================================================
// Limiter Mock
// =============================================================================

type mockLimiter struct {
	Failures []string
	Resets   []string
}

func (m *mockLimiter) RecordFailure(ip string) {
	m.Failures = append(m.Failures, ip)
}

func (m *mockLimiter) Reset(ip string) {
	m.Resets = append(m.Resets, ip)
}

// Package service contains the business logic layer.
//
// This file implements the article service for the blog: front page,
// single-article view with per-IP view counting, paginated archive, and the
// admin-side article and category management.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/metrics"
	"github.com/daniel-medina/website/internal/repository"
	"github.com/daniel-medina/website/internal/slug"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// =============================================================================
// Configuration Constants
// =============================================================================

const (
	// MinArticleTitleLength is the minimum length of an article title.
	// Shorter titles produce useless slugs.
	MinArticleTitleLength = 6

	// MaxCategoryTitleLength bounds category titles.
	MaxCategoryTitleLength = 30

	// FrontPageRecentLimit is the number of articles rendered in full on the
	// blog index; everything after them appears as a preview.
	FrontPageRecentLimit = 2
)

// =============================================================================
// Interface Definition
// =============================================================================

// ArticleService defines the interface for blog operations.
//
// This interface enables:
// - Mocking in unit tests
// - Clear contract definition for handlers
type ArticleService interface {
	// FrontPage returns the newest articles in full plus older articles for
	// preview rendering. olderLimit caps the preview list.
	FrontPage(ctx context.Context, olderLimit int) (*domain.FrontPage, error)

	// GetByID retrieves an article by its ID.
	// Returns ENOTFOUND if the article doesn't exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)

	// GetBySlug retrieves an article by its URL slug.
	// Returns domain.ENOTFOUND if no article uses the slug.
	GetBySlug(ctx context.Context, articleSlug string) (*domain.Article, error)

	// RecordView counts a view of the article for the given remote address.
	// Each address is counted at most once per article; repeat views are
	// not an error.
	RecordView(ctx context.Context, articleID uuid.UUID, remoteAddr string) error

	// Archive returns one page of the article archive, newest first.
	// page is 1-based; perPage must be >= 1.
	Archive(ctx context.Context, page, perPage int) (*domain.ArchivePage, error)

	// ArchiveByCategory returns one page of a single category's articles,
	// newest first. The category is matched by its exact title.
	// Returns domain.ENOTFOUND if the category does not exist.
	ArchiveByCategory(ctx context.Context, categoryTitle string, page, perPage int) (*domain.ArchivePage, error)

	// Create creates a new article. The slug is derived from the title.
	// Returns domain.EINVALID for validation errors, domain.ECONFLICT when
	// the title is already in use, domain.ENOTFOUND when the category does
	// not exist.
	Create(ctx context.Context, params domain.CreateArticleParams) (*domain.Article, error)

	// Update rewrites an article's title, content and category. The slug is
	// re-derived from the new title.
	Update(ctx context.Context, params domain.UpdateArticleParams) (*domain.Article, error)

	// Delete removes an article.
	// Returns domain.ENOTFOUND if the article does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CreateCategory creates a new article category.
	// Returns domain.ECONFLICT when the title is already in use.
	CreateCategory(ctx context.Context, title string) (*domain.Category, error)

	// UpdateCategory renames a category.
	// Returns domain.ENOTFOUND if the category does not exist and
	// domain.ECONFLICT when the new title is already in use.
	UpdateCategory(ctx context.Context, id uuid.UUID, title string) (*domain.Category, error)

	// ListCategories returns all categories ordered by title.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// DeleteCategory removes a category. Articles keep existing with a nil
	// category (the foreign key sets it to null).
	// Returns domain.ENOTFOUND if the category does not exist.
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// =============================================================================
// Implementation
// =============================================================================

// articleService is the concrete implementation of ArticleService.
type articleService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewArticleService creates a new ArticleService instance.
func NewArticleService(queries *repository.Queries, logger *slog.Logger) ArticleService {
	return &articleService{
		queries: queries,
		logger:  logger,
	}
}

// FrontPage returns the newest articles in full plus older previews.
func (s *articleService) FrontPage(ctx context.Context, olderLimit int) (*domain.FrontPage, error) {
	const op = "ArticleService.FrontPage"

	if olderLimit < 0 {
		olderLimit = 0
	}

	recent, err := s.queries.ListArticles(ctx, repository.ListArticlesParams{
		Limit:  FrontPageRecentLimit,
		Offset: 0,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list recent articles")
	}

	older, err := s.queries.ListArticles(ctx, repository.ListArticlesParams{
		Limit:  int32(olderLimit),
		Offset: FrontPageRecentLimit,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list older articles")
	}

	page := &domain.FrontPage{
		Recent: make([]domain.Article, 0, len(recent)),
		Older:  make([]domain.Article, 0, len(older)),
	}
	for _, a := range recent {
		page.Recent = append(page.Recent, *repoArticleToDomain(a))
	}
	for _, a := range older {
		page.Older = append(page.Older, *repoArticleToDomain(a))
	}
	return page, nil
}

// GetByID retrieves an article by its ID.
func (s *articleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	const op = "ArticleService.GetByID"

	row, err := s.queries.GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "article", id.String())
		}
		return nil, domain.Internal(err, op, "Failed to retrieve article")
	}
	return repoArticleToDomain(row), nil
}

// GetBySlug retrieves an article by its URL slug.
func (s *articleService) GetBySlug(ctx context.Context, articleSlug string) (*domain.Article, error) {
	const op = "ArticleService.GetBySlug"

	row, err := s.queries.GetArticleBySlug(ctx, articleSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "article", articleSlug)
		}
		return nil, domain.Internal(err, op, "Failed to retrieve article")
	}
	return repoArticleToDomain(row), nil
}

// RecordView counts a view of the article for the given remote address.
//
// The address list rides in the article row as JSON; the read-check-write is
// not atomic, so two first-time views from the same address may both count.
// That is acceptable for a view counter.
func (s *articleService) RecordView(ctx context.Context, articleID uuid.UUID, remoteAddr string) error {
	const op = "ArticleService.RecordView"

	if remoteAddr == "" {
		return nil
	}

	row, err := s.queries.GetArticleByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "article", articleID.String())
		}
		return domain.Internal(err, op, "Failed to retrieve article")
	}

	ips, err := decodeViewIPs(row.ViewIps)
	if err != nil {
		return domain.Internal(err, op, "Failed to decode view addresses")
	}

	for _, ip := range ips {
		if ip == remoteAddr {
			return nil
		}
	}

	ips = append(ips, remoteAddr)
	raw, err := json.Marshal(ips)
	if err != nil {
		return domain.Internal(err, op, "Failed to encode view addresses")
	}

	err = s.queries.UpdateArticleViewIps(ctx, repository.UpdateArticleViewIpsParams{
		ID:      articleID,
		ViewIps: pqtype.NullRawMessage{RawMessage: raw, Valid: true},
	})
	if err != nil {
		return domain.Internal(err, op, "Failed to update view addresses")
	}

	metrics.ArticleViews.Inc()

	return nil
}

// Archive returns one page of the article archive.
func (s *articleService) Archive(ctx context.Context, page, perPage int) (*domain.ArchivePage, error) {
	const op = "ArticleService.Archive"

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return nil, domain.Invalid(op, "perPage must be at least 1")
	}

	total, err := s.queries.CountArticles(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to count articles")
	}

	offset := (page - 1) * perPage
	rows, err := s.queries.ListArticles(ctx, repository.ListArticlesParams{
		Limit:  int32(perPage),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list articles")
	}

	maxPage := int((total + int64(perPage) - 1) / int64(perPage))

	result := &domain.ArchivePage{
		Articles: make([]domain.Article, 0, len(rows)),
		Total:    int(total),
		Page:     page,
		MaxPage:  maxPage,
	}
	for _, a := range rows {
		result.Articles = append(result.Articles, *repoArticleToDomain(a))
	}
	return result, nil
}

// ArchiveByCategory returns one page of a single category's articles.
func (s *articleService) ArchiveByCategory(ctx context.Context, categoryTitle string, page, perPage int) (*domain.ArchivePage, error) {
	const op = "ArticleService.ArchiveByCategory"

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return nil, domain.Invalid(op, "perPage must be at least 1")
	}

	category, err := s.queries.GetCategoryByTitle(ctx, categoryTitle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "category", categoryTitle)
		}
		return nil, domain.Internal(err, op, "Failed to retrieve category")
	}

	total, err := s.queries.CountArticlesByCategory(ctx, category.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to count articles")
	}

	offset := (page - 1) * perPage
	rows, err := s.queries.ListArticlesByCategory(ctx, repository.ListArticlesByCategoryParams{
		CategoryID: category.ID,
		Limit:      int32(perPage),
		Offset:     int32(offset),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list articles")
	}

	maxPage := int((total + int64(perPage) - 1) / int64(perPage))

	result := &domain.ArchivePage{
		Articles: make([]domain.Article, 0, len(rows)),
		Category: repoCategoryToDomain(category),
		Total:    int(total),
		Page:     page,
		MaxPage:  maxPage,
	}
	for _, a := range rows {
		result.Articles = append(result.Articles, *repoArticleToDomain(a))
	}
	return result, nil
}

// Create creates a new article.
func (s *articleService) Create(ctx context.Context, params domain.CreateArticleParams) (*domain.Article, error) {
	const op = "ArticleService.Create"

	params.Title = strings.TrimSpace(params.Title)

	if err := s.validateArticle(params.Title, params.Content); err != nil {
		return nil, err
	}
	if err := s.checkCategoryExists(ctx, params.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checkTitleAvailable(ctx, params.Title, uuid.Nil); err != nil {
		return nil, err
	}

	row, err := s.queries.CreateArticle(ctx, repository.CreateArticleParams{
		Slug:       slug.Make(params.Title),
		Title:      params.Title,
		Content:    params.Content,
		CategoryID: uuid.NullUUID{UUID: params.CategoryID, Valid: true},
		ViewIps:    pqtype.NullRawMessage{RawMessage: json.RawMessage(`[]`), Valid: true},
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "The article's title already exist in the database.")
		}
		return nil, domain.Internal(err, op, "Failed to create article")
	}

	metrics.ArticlesCreated.Inc()

	s.logger.Info("article created", "article_id", row.ID, "slug", row.Slug)

	article := repoArticleToDomain(repository.ArticleWithCategory{Article: row})
	return article, nil
}

// Update rewrites an article's title, content and category.
func (s *articleService) Update(ctx context.Context, params domain.UpdateArticleParams) (*domain.Article, error) {
	const op = "ArticleService.Update"

	params.Title = strings.TrimSpace(params.Title)

	if err := s.validateArticle(params.Title, params.Content); err != nil {
		return nil, err
	}
	if err := s.checkCategoryExists(ctx, params.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checkTitleAvailable(ctx, params.Title, params.ID); err != nil {
		return nil, err
	}

	row, err := s.queries.UpdateArticle(ctx, repository.UpdateArticleParams{
		ID:         params.ID,
		Slug:       slug.Make(params.Title),
		Title:      params.Title,
		Content:    params.Content,
		CategoryID: uuid.NullUUID{UUID: params.CategoryID, Valid: true},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "article", params.ID.String())
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "The article's title already exist in the database.")
		}
		return nil, domain.Internal(err, op, "Failed to update article")
	}

	s.logger.Info("article updated", "article_id", row.ID, "slug", row.Slug)

	return repoArticleToDomain(repository.ArticleWithCategory{Article: row}), nil
}

// Delete removes an article.
func (s *articleService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "ArticleService.Delete"

	if _, err := s.queries.GetArticleByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "article", id.String())
		}
		return domain.Internal(err, op, "Failed to retrieve article")
	}

	if err := s.queries.DeleteArticle(ctx, id); err != nil {
		return domain.Internal(err, op, "Failed to delete article")
	}

	s.logger.Info("article deleted", "article_id", id)

	return nil
}

// CreateCategory creates a new article category.
func (s *articleService) CreateCategory(ctx context.Context, title string) (*domain.Category, error) {
	const op = "ArticleService.CreateCategory"

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Invalid(op, "The category's title can't be empty.")
	}
	if len(title) > MaxCategoryTitleLength {
		return nil, domain.Invalid(op, "The category's title is too long.")
	}

	row, err := s.queries.CreateCategory(ctx, title)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "The category already exist in the database.")
		}
		return nil, domain.Internal(err, op, "Failed to create category")
	}

	s.logger.Info("category created", "category_id", row.ID, "title", row.Title)

	return repoCategoryToDomain(row), nil
}

// UpdateCategory renames a category.
func (s *articleService) UpdateCategory(ctx context.Context, id uuid.UUID, title string) (*domain.Category, error) {
	const op = "ArticleService.UpdateCategory"

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Invalid(op, "The category's title can't be empty.")
	}
	if len(title) > MaxCategoryTitleLength {
		return nil, domain.Invalid(op, "The category's title is too long.")
	}

	row, err := s.queries.UpdateCategory(ctx, id, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "category", id.String())
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "The category already exist in the database.")
		}
		return nil, domain.Internal(err, op, "Failed to update category")
	}

	s.logger.Info("category updated", "category_id", row.ID, "title", row.Title)

	return repoCategoryToDomain(row), nil
}

// ListCategories returns all categories ordered by title.
func (s *articleService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "ArticleService.ListCategories"

	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list categories")
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, c := range rows {
		categories = append(categories, *repoCategoryToDomain(c))
	}
	return categories, nil
}

// DeleteCategory removes a category.
func (s *articleService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const op = "ArticleService.DeleteCategory"

	if _, err := s.queries.GetCategoryByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "category", id.String())
		}
		return domain.Internal(err, op, "Failed to retrieve category")
	}

	if err := s.queries.DeleteCategory(ctx, id); err != nil {
		return domain.Internal(err, op, "Failed to delete category")
	}

	s.logger.Info("category deleted", "category_id", id)

	return nil
}

// =============================================================================
// Validation
// =============================================================================

// validateArticle checks the title and content of a new or updated article.
func (s *articleService) validateArticle(title, content string) error {
	const op = "ArticleService.validateArticle"

	if len(title) < MinArticleTitleLength {
		return domain.Invalid(op, "The title's length isn't long enough.")
	}
	if strings.TrimSpace(content) == "" {
		return domain.Invalid(op, "The article's content can't be empty.")
	}
	return nil
}

// checkCategoryExists verifies the category referenced by an article.
func (s *articleService) checkCategoryExists(ctx context.Context, categoryID uuid.UUID) error {
	const op = "ArticleService.checkCategoryExists"

	if categoryID == uuid.Nil {
		return domain.Invalid(op, "The selected category doesn't exist.")
	}
	if _, err := s.queries.GetCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Invalid(op, "The selected category doesn't exist.")
		}
		return domain.Internal(err, op, "Failed to retrieve category")
	}
	return nil
}

// checkTitleAvailable verifies no other article uses the title (and thus the
// slug derived from it). excludeID is the zero UUID for create checks.
func (s *articleService) checkTitleAvailable(ctx context.Context, title string, excludeID uuid.UUID) error {
	const op = "ArticleService.checkTitleAvailable"

	exists, err := s.queries.ArticleExistsByTitle(ctx, repository.ArticleExistsByTitleParams{
		Title:     title,
		ExcludeID: excludeID,
	})
	if err != nil {
		return domain.Internal(err, op, "Failed to check title availability")
	}
	if exists {
		return domain.Conflict(op, "The article's title already exist in the database.")
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// decodeViewIPs unpacks the JSON address list stored on an article row.
func decodeViewIPs(raw pqtype.NullRawMessage) ([]string, error) {
	if !raw.Valid || len(raw.RawMessage) == 0 {
		return nil, nil
	}
	var ips []string
	if err := json.Unmarshal(raw.RawMessage, &ips); err != nil {
		return nil, err
	}
	return ips, nil
}

// repoArticleToDomain converts a joined article row to domain.Article.
func repoArticleToDomain(row repository.ArticleWithCategory) *domain.Article {
	article := &domain.Article{
		ID:        row.ID,
		Slug:      row.Slug,
		Title:     row.Title,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
	}

	if row.CategoryID.Valid && row.CategoryTitle.Valid {
		article.Category = &domain.Category{
			ID:    row.CategoryID.UUID,
			Title: row.CategoryTitle.String,
		}
	}

	// A corrupt address list should not make the article unreadable
	if ips, err := decodeViewIPs(row.ViewIps); err == nil {
		article.ViewIPs = ips
	}

	return article
}

// repoCategoryToDomain converts a repository.ArticleCategory to
// domain.Category.
func repoCategoryToDomain(c repository.ArticleCategory) *domain.Category {
	return &domain.Category{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
}

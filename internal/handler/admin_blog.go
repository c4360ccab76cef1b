// Package handler contains HTTP handlers for the website.
//
// This file implements article and category management in the admin panel.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/daniel-medina/website/internal/auth"
	"github.com/daniel-medina/website/internal/csrf"
	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/flash"
	"github.com/daniel-medina/website/internal/pagination"
	"github.com/daniel-medina/website/internal/service"
	"github.com/google/uuid"
)

const adminBlogPath = "/admin/blog"

// =============================================================================
// Template Data Types
// =============================================================================

// AdminBlogPageData contains data for the article management page.
type AdminBlogPageData struct {
	Title      string
	Admin      *domain.Admin
	Articles   []domain.Article
	Categories []domain.Category
	Page       int
	MaxPage    int
	Pagination pagination.Data
	CSRFToken  string
	Messages   []flash.Message
}

// AdminArticlePageData contains data for the article edit form.
type AdminArticlePageData struct {
	Title      string
	Admin      *domain.Admin
	Article    *domain.Article
	Categories []domain.Category
	CSRFToken  string
	Messages   []flash.Message
}

// =============================================================================
// Handler Configuration
// =============================================================================

// AdminBlogConfig carries the listing sizes for the admin blog pages.
type AdminBlogConfig struct {
	PerPage          int
	PaginationWindow int
}

// AdminBlogHandler handles article and category management.
type AdminBlogHandler struct {
	articles service.ArticleService
	renderer TemplateRenderer
	flash    *flash.Store
	logger   *slog.Logger
	cfg      AdminBlogConfig
	planner  pagination.Planner
	isSecure bool
}

// NewAdminBlogHandler creates a new AdminBlogHandler.
func NewAdminBlogHandler(
	articles service.ArticleService,
	renderer TemplateRenderer,
	flashStore *flash.Store,
	logger *slog.Logger,
	cfg AdminBlogConfig,
	isSecure bool,
) *AdminBlogHandler {
	return &AdminBlogHandler{
		articles: articles,
		renderer: renderer,
		flash:    flashStore,
		logger:   logger,
		cfg:      cfg,
		planner:  pagination.Planner{EdgeWindow: cfg.PaginationWindow},
		isSecure: isSecure,
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers the admin blog routes behind the gate.
//
// Routes:
// - GET  /admin/blog                       -> Index (list, page 1)
// - GET  /admin/blog/page/{page}           -> Index
// - POST /admin/blog                       -> Create
// - GET  /admin/blog/{id}                  -> Edit form
// - POST /admin/blog/{id}                  -> Update
// - POST /admin/blog/{id}/delete           -> Delete
// - POST /admin/blog/category              -> CreateCategory
// - POST /admin/blog/category/{id}         -> UpdateCategory
// - POST /admin/blog/category/{id}/delete  -> DeleteCategory
func (h *AdminBlogHandler) RegisterRoutes(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.Handle("GET /admin/blog", admin(http.HandlerFunc(h.Index)))
	mux.Handle("GET /admin/blog/page/{page}", admin(http.HandlerFunc(h.Index)))
	mux.Handle("POST /admin/blog", admin(http.HandlerFunc(h.Create)))
	mux.Handle("GET /admin/blog/{id}", admin(http.HandlerFunc(h.Edit)))
	mux.Handle("POST /admin/blog/{id}", admin(http.HandlerFunc(h.Update)))
	mux.Handle("POST /admin/blog/{id}/delete", admin(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /admin/blog/category", admin(http.HandlerFunc(h.CreateCategory)))
	mux.Handle("POST /admin/blog/category/{id}", admin(http.HandlerFunc(h.UpdateCategory)))
	mux.Handle("POST /admin/blog/category/{id}/delete", admin(http.HandlerFunc(h.DeleteCategory)))
}

// =============================================================================
// GET /admin/blog - Article List
// =============================================================================

// Index displays the paginated article list and the category manager.
func (h *AdminBlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	admin := auth.GetAdminFromRequest(r)

	page := 1
	if raw := r.PathValue("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 1 {
			page = n
		}
	}

	result, err := h.articles.Archive(r.Context(), page, h.cfg.PerPage)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if result.MaxPage > 0 && page > result.MaxPage {
		http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
		return
	}

	categories, err := h.articles.ListCategories(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Internal(err, "AdminBlogHandler.Index", "Failed to issue form token"))
		return
	}

	data := AdminBlogPageData{
		Title:      "Blog management",
		Admin:      admin,
		Articles:   result.Articles,
		Categories: categories,
		Page:       result.Page,
		MaxPage:    result.MaxPage,
		Pagination: h.planner.NewData(result.Total, result.Page, h.cfg.PerPage),
		CSRFToken:  token,
		Messages:   h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "admin/blog/index", data)
}

// =============================================================================
// POST /admin/blog - Create Article
// =============================================================================

// Create creates a new article from the form.
func (h *AdminBlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminBlogPath) {
		return
	}

	categoryID, _ := uuid.Parse(r.PostFormValue("category"))

	_, err := h.articles.Create(r.Context(), domain.CreateArticleParams{
		Title:      r.PostFormValue("title"),
		Content:    r.PostFormValue("content"),
		CategoryID: categoryID,
	})
	if err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The article was successfully created.")
	http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
}

// =============================================================================
// GET /admin/blog/{id} - Edit Form
// =============================================================================

// Edit displays the article edit form.
func (h *AdminBlogHandler) Edit(w http.ResponseWriter, r *http.Request) {
	admin := auth.GetAdminFromRequest(r)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given article doesn't exist in the database.")
		http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
		return
	}

	article, err := h.articles.GetByID(r.Context(), id)
	if err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	categories, err := h.articles.ListCategories(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Internal(err, "AdminBlogHandler.Edit", "Failed to issue form token"))
		return
	}

	data := AdminArticlePageData{
		Title:      "Edit article",
		Admin:      admin,
		Article:    article,
		Categories: categories,
		CSRFToken:  token,
		Messages:   h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "admin/blog/edit", data)
}

// =============================================================================
// POST /admin/blog/{id} - Update Article
// =============================================================================

// Update rewrites an article from the form.
func (h *AdminBlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminBlogPath) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given article doesn't exist in the database.")
		http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
		return
	}

	categoryID, _ := uuid.Parse(r.PostFormValue("category"))

	_, err = h.articles.Update(r.Context(), domain.UpdateArticleParams{
		ID:         id,
		Title:      r.PostFormValue("title"),
		Content:    r.PostFormValue("content"),
		CategoryID: categoryID,
	})
	if err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The article was successfully updated.")
	http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
}

// =============================================================================
// POST /admin/blog/{id}/delete - Delete Article
// =============================================================================

// Delete removes an article.
func (h *AdminBlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminBlogPath) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given article doesn't exist in the database.")
		http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
		return
	}

	if err := h.articles.Delete(r.Context(), id); err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The article was successfully deleted.")
	http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
}

// =============================================================================
// POST /admin/blog/category - Create Category
// =============================================================================

// CreateCategory creates a new article category.
func (h *AdminBlogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminBlogPath) {
		return
	}

	if _, err := h.articles.CreateCategory(r.Context(), r.PostFormValue("title")); err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The category was successfully created.")
	http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
}

// =============================================================================
// POST /admin/blog/category/{id} - Rename Category
// =============================================================================

// UpdateCategory renames a category.
func (h *AdminBlogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminBlogPath) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The selected category doesn't exist.")
		http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
		return
	}

	if _, err := h.articles.UpdateCategory(r.Context(), id, r.PostFormValue("title")); err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The category was successfully updated.")
	http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
}

// =============================================================================
// POST /admin/blog/category/{id}/delete - Delete Category
// =============================================================================

// DeleteCategory removes a category. Existing articles keep running with no
// category.
func (h *AdminBlogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminBlogPath) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The selected category doesn't exist.")
		http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
		return
	}

	if err := h.articles.DeleteCategory(r.Context(), id); err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The category was successfully deleted.")
	http.Redirect(w, r, adminBlogPath, http.StatusSeeOther)
}

// Package handler contains HTTP handlers for the website.
//
// This file implements the public blog: front page, single-article view, and
// the paginated archive.
package handler

import (
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/flash"
	"github.com/daniel-medina/website/internal/pagination"
	"github.com/daniel-medina/website/internal/service"
)

// TemplateRenderer is the interface for rendering HTML templates.
// This allows mocking in tests.
type TemplateRenderer interface {
	RenderHTTP(w http.ResponseWriter, name string, data interface{})
}

// =============================================================================
// Template Data Types
// =============================================================================

// BlogIndexPageData contains data for the blog front page.
type BlogIndexPageData struct {
	Title    string
	Recent   []domain.Article
	Older    []domain.Article
	Messages []flash.Message
}

// ArticlePageData contains data for a single article page.
type ArticlePageData struct {
	Title    string
	Article  *domain.Article
	Messages []flash.Message
}

// ArchivePageData contains data for the archive listing. Category is set when
// the listing is restricted to a single category.
type ArchivePageData struct {
	Title      string
	Articles   []domain.Article
	Category   *domain.Category
	Amount     int
	Page       int
	MaxPage    int
	Base       string
	Pagination pagination.Data
	Messages   []flash.Message
}

// =============================================================================
// Handler Configuration
// =============================================================================

// BlogConfig carries the listing sizes for the public blog.
type BlogConfig struct {
	FrontPageArticleLimit int
	ArchivePerPage        int
	PaginationWindow      int
}

// BlogHandler handles public blog HTTP requests.
type BlogHandler struct {
	articles service.ArticleService
	renderer TemplateRenderer
	flash    *flash.Store
	logger   *slog.Logger
	cfg      BlogConfig
	planner  pagination.Planner
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(
	articles service.ArticleService,
	renderer TemplateRenderer,
	flashStore *flash.Store,
	logger *slog.Logger,
	cfg BlogConfig,
) *BlogHandler {
	return &BlogHandler{
		articles: articles,
		renderer: renderer,
		flash:    flashStore,
		logger:   logger,
		cfg:      cfg,
		planner:  pagination.Planner{EdgeWindow: cfg.PaginationWindow},
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers the public blog routes.
//
// Routes:
// - GET /                -> Index (front page)
// - GET /article/{slug}  -> Article
// - GET /archive                  -> Archive (first page)
// - GET /archive/{page}           -> Archive
// - GET /category/{title}         -> Category (first page)
// - GET /category/{title}/{page}  -> Category
func (h *BlogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /{$}", http.HandlerFunc(h.Index))
	mux.Handle("GET /article/{slug}", http.HandlerFunc(h.Article))
	mux.Handle("GET /archive", http.HandlerFunc(h.Archive))
	mux.Handle("GET /archive/{page}", http.HandlerFunc(h.Archive))
	mux.Handle("GET /category/{title}", http.HandlerFunc(h.Category))
	mux.Handle("GET /category/{title}/{page}", http.HandlerFunc(h.Category))

	// Anything no other pattern claims gets the 404 page
	mux.Handle("/", http.HandlerFunc(h.NotFound))
}

// =============================================================================
// GET / - Front Page
// =============================================================================

// Index displays the newest articles in full and the rest as previews.
func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.articles.FrontPage(r.Context(), h.cfg.FrontPageArticleLimit)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	data := BlogIndexPageData{
		Title:    "Blog",
		Recent:   page.Recent,
		Older:    page.Older,
		Messages: h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "public/index", data)
}

// =============================================================================
// GET /article/{slug} - Single Article
// =============================================================================

// Article displays one article and records the viewer's address.
func (h *BlogHandler) Article(w http.ResponseWriter, r *http.Request) {
	articleSlug := r.PathValue("slug")

	article, err := h.articles.GetBySlug(r.Context(), articleSlug)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			h.renderNotFound(w)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// A failed view count should not break the page
	if err := h.articles.RecordView(r.Context(), article.ID, ClientIP(r)); err != nil {
		h.logger.Warn("failed to record article view", "article_id", article.ID, "error", err)
	}

	data := ArticlePageData{
		Title:    article.Title,
		Article:  article,
		Messages: h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "public/article", data)
}

// =============================================================================
// GET /archive[/{page}] - Archive
// =============================================================================

// Archive displays one page of the article archive with a pagination bar.
// Requests past the last page redirect back to the archive root.
func (h *BlogHandler) Archive(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.PathValue("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 1 {
			page = n
		}
	}

	result, err := h.articles.Archive(r.Context(), page, h.cfg.ArchivePerPage)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if result.MaxPage > 0 && page > result.MaxPage {
		http.Redirect(w, r, "/archive", http.StatusSeeOther)
		return
	}

	data := ArchivePageData{
		Title:      "Archive",
		Articles:   result.Articles,
		Amount:     result.Total,
		Page:       result.Page,
		MaxPage:    result.MaxPage,
		Base:       "/archive",
		Pagination: h.planner.NewData(result.Total, result.Page, h.cfg.ArchivePerPage),
		Messages:   h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "public/archive", data)
}

// =============================================================================
// GET /category/{title}[/{page}] - Category Archive
// =============================================================================

// Category displays one page of a single category's articles. Unknown
// categories render the 404 page; requests past the last page redirect back
// to the category root.
func (h *BlogHandler) Category(w http.ResponseWriter, r *http.Request) {
	title := r.PathValue("title")

	page := 1
	if raw := r.PathValue("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 1 {
			page = n
		}
	}

	result, err := h.articles.ArchiveByCategory(r.Context(), title, page, h.cfg.ArchivePerPage)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			h.renderNotFound(w)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	base := "/category/" + url.PathEscape(result.Category.Title)

	if result.MaxPage > 0 && page > result.MaxPage {
		http.Redirect(w, r, base, http.StatusSeeOther)
		return
	}

	data := ArchivePageData{
		Title:      result.Category.Title,
		Articles:   result.Articles,
		Category:   result.Category,
		Amount:     result.Total,
		Page:       result.Page,
		MaxPage:    result.MaxPage,
		Base:       base,
		Pagination: h.planner.NewData(result.Total, result.Page, h.cfg.ArchivePerPage),
		Messages:   h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "public/archive", data)
}

// =============================================================================
// Catch-all
// =============================================================================

// NotFound handles every path no other route claims. JSON callers get a
// structured 404 body; browsers get the 404 page.
func (h *BlogHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if acceptsJSON(r) {
		NotFoundResponse(w, r, h.logger)
		return
	}
	h.renderNotFound(w)
}

// =============================================================================
// Helpers
// =============================================================================

// renderNotFound renders the 404 page.
func (h *BlogHandler) renderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	h.renderer.RenderHTTP(w, "public/404", map[string]string{"Title": "ERROR"})
}

// ClientIP extracts the caller's address for per-IP view dedup and login
// throttling: the first X-Forwarded-For hop, then X-Real-IP, then RemoteAddr
// with the port stripped.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0]); first != "" {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

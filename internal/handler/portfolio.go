// Package handler contains HTTP handlers for the website.
//
// This file implements the public portfolio page and its JSON project feed.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/flash"
	"github.com/daniel-medina/website/internal/service"
)

// =============================================================================
// Response Types
// =============================================================================

// ProjectJSON is the wire shape of one project in the portfolio feed.
type ProjectJSON struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url,omitempty"`
	Tags        []string   `json:"tags"`
	Frameworks  []TagJSON  `json:"frameworks"`
	Languages   []TagJSON  `json:"languages"`
	Images      []ImageRef `json:"images"`
	Created     string     `json:"created"`
}

// TagJSON is the wire shape of a framework or language tag.
type TagJSON struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ImageRef points at a stored project image and its thumbnail.
type ImageRef struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
}

// PortfolioPageData contains data for the portfolio page.
type PortfolioPageData struct {
	Title    string
	Messages []flash.Message
}

// =============================================================================
// Handler Configuration
// =============================================================================

// PortfolioHandler handles public portfolio HTTP requests.
type PortfolioHandler struct {
	projects service.ProjectService
	renderer TemplateRenderer
	flash    *flash.Store
	logger   *slog.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(
	projects service.ProjectService,
	renderer TemplateRenderer,
	flashStore *flash.Store,
	logger *slog.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{
		projects: projects,
		renderer: renderer,
		flash:    flashStore,
		logger:   logger,
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers the public portfolio routes.
//
// Routes:
// - GET /portfolio          -> Index
// - GET /portfolio/projects -> Projects (JSON, XHR only)
func (h *PortfolioHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /portfolio", http.HandlerFunc(h.Index))
	mux.Handle("GET /portfolio/projects", http.HandlerFunc(h.Projects))
}

// =============================================================================
// GET /portfolio - Portfolio Page
// =============================================================================

// Index displays the portfolio page. The project list itself is loaded by
// the page's script through the JSON endpoint.
func (h *PortfolioHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := PortfolioPageData{
		Title:    "Portfolio",
		Messages: h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "public/portfolio", data)
}

// =============================================================================
// GET /portfolio/projects - JSON Feed
// =============================================================================

// Projects returns the public projects as JSON. Only XHR requests are
// answered; plain navigation is redirected to the home page.
func (h *PortfolioHandler) Projects(w http.ResponseWriter, r *http.Request) {
	if !isXHR(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	projects, err := h.projects.ListPublic(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	payload := make([]ProjectJSON, 0, len(projects))
	for i := range projects {
		payload = append(payload, h.projectToJSON(r, &projects[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode projects", "error", err)
	}
}

// projectToJSON converts a domain project to its wire shape.
func (h *PortfolioHandler) projectToJSON(r *http.Request, p *domain.Project) ProjectJSON {
	out := ProjectJSON{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		Tags:        p.Tags,
		Frameworks:  make([]TagJSON, 0, len(p.Frameworks)),
		Languages:   make([]TagJSON, 0, len(p.Languages)),
		Images:      make([]ImageRef, 0, len(p.Images)),
		Created:     p.CreatedAt.Format("2006-01-02"),
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}

	for _, f := range p.Frameworks {
		out.Frameworks = append(out.Frameworks, TagJSON{Name: f.Name, Color: string(f.Color)})
	}
	for _, l := range p.Languages {
		out.Languages = append(out.Languages, TagJSON{Name: l.Name, Color: string(l.Color)})
	}

	for _, img := range p.Images {
		original, err := h.projects.ImageURL(r.Context(), img.OriginalKey)
		if err != nil {
			h.logger.Warn("failed to resolve image URL", "key", img.OriginalKey, "error", err)
			continue
		}
		thumbnail, err := h.projects.ImageURL(r.Context(), img.ThumbnailKey)
		if err != nil {
			h.logger.Warn("failed to resolve thumbnail URL", "key", img.ThumbnailKey, "error", err)
			thumbnail = original
		}
		out.Images = append(out.Images, ImageRef{URL: original, Thumbnail: thumbnail})
	}

	return out
}

// isXHR reports whether the request was made via XMLHttpRequest.
func isXHR(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// Package handler contains HTTP handlers for the website.
//
// This file implements project, framework and language management in the
// admin panel, including project image uploads.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/daniel-medina/website/internal/auth"
	"github.com/daniel-medina/website/internal/csrf"
	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/flash"
	"github.com/daniel-medina/website/internal/service"
	"github.com/google/uuid"
)

const adminPortfolioPath = "/admin/portfolio"

// =============================================================================
// Template Data Types
// =============================================================================

// AdminPortfolioPageData contains data for the project management page.
type AdminPortfolioPageData struct {
	Title      string
	Admin      *domain.Admin
	Projects   []domain.Project
	Frameworks []domain.Framework
	Languages  []domain.Language
	TagColors  []domain.TagColor
	CSRFToken  string
	Messages   []flash.Message
}

// AdminProjectPageData contains data for the project edit form.
type AdminProjectPageData struct {
	Title      string
	Admin      *domain.Admin
	Project    *domain.Project
	Frameworks []domain.Framework
	Languages  []domain.Language
	ImageURLs  map[uuid.UUID]string
	CSRFToken  string
	Messages   []flash.Message
}

// =============================================================================
// Handler
// =============================================================================

// AdminPortfolioHandler handles project and tag management.
type AdminPortfolioHandler struct {
	projects service.ProjectService
	renderer TemplateRenderer
	flash    *flash.Store
	logger   *slog.Logger
	isSecure bool
}

// NewAdminPortfolioHandler creates a new AdminPortfolioHandler.
func NewAdminPortfolioHandler(
	projects service.ProjectService,
	renderer TemplateRenderer,
	flashStore *flash.Store,
	logger *slog.Logger,
	isSecure bool,
) *AdminPortfolioHandler {
	return &AdminPortfolioHandler{
		projects: projects,
		renderer: renderer,
		flash:    flashStore,
		logger:   logger,
		isSecure: isSecure,
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers the admin portfolio routes behind the gate.
//
// Routes:
// - GET  /admin/portfolio                               -> Index
// - POST /admin/portfolio                               -> Create
// - GET  /admin/portfolio/{id}                          -> Edit form
// - POST /admin/portfolio/{id}                          -> Update
// - POST /admin/portfolio/{id}/delete                   -> Delete
// - POST /admin/portfolio/{id}/images                   -> UploadImage
// - POST /admin/portfolio/{id}/images/{imageID}/delete  -> DeleteImage
// - POST /admin/portfolio/framework                     -> CreateFramework
// - POST /admin/portfolio/framework/{id}/delete         -> DeleteFramework
// - POST /admin/portfolio/language                      -> CreateLanguage
// - POST /admin/portfolio/language/{id}/delete          -> DeleteLanguage
func (h *AdminPortfolioHandler) RegisterRoutes(mux *http.ServeMux, admin func(http.Handler) http.Handler) {
	mux.Handle("GET /admin/portfolio", admin(http.HandlerFunc(h.Index)))
	mux.Handle("POST /admin/portfolio", admin(http.HandlerFunc(h.Create)))
	mux.Handle("GET /admin/portfolio/{id}", admin(http.HandlerFunc(h.Edit)))
	mux.Handle("POST /admin/portfolio/{id}", admin(http.HandlerFunc(h.Update)))
	mux.Handle("POST /admin/portfolio/{id}/delete", admin(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /admin/portfolio/{id}/images", admin(http.HandlerFunc(h.UploadImage)))
	mux.Handle("POST /admin/portfolio/{id}/images/{imageID}/delete", admin(http.HandlerFunc(h.DeleteImage)))
	mux.Handle("POST /admin/portfolio/framework", admin(http.HandlerFunc(h.CreateFramework)))
	mux.Handle("POST /admin/portfolio/framework/{id}/delete", admin(http.HandlerFunc(h.DeleteFramework)))
	mux.Handle("POST /admin/portfolio/language", admin(http.HandlerFunc(h.CreateLanguage)))
	mux.Handle("POST /admin/portfolio/language/{id}/delete", admin(http.HandlerFunc(h.DeleteLanguage)))
}

// =============================================================================
// GET /admin/portfolio - Project List
// =============================================================================

// Index displays the project list and the framework/language managers.
func (h *AdminPortfolioHandler) Index(w http.ResponseWriter, r *http.Request) {
	admin := auth.GetAdminFromRequest(r)

	projects, err := h.projects.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	frameworks, err := h.projects.ListFrameworks(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	languages, err := h.projects.ListLanguages(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Internal(err, "AdminPortfolioHandler.Index", "Failed to issue form token"))
		return
	}

	data := AdminPortfolioPageData{
		Title:      "Portfolio management",
		Admin:      admin,
		Projects:   projects,
		Frameworks: frameworks,
		Languages:  languages,
		TagColors:  domain.TagColors,
		CSRFToken:  token,
		Messages:   h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "admin/portfolio/index", data)
}

// =============================================================================
// POST /admin/portfolio - Create Project
// =============================================================================

// Create creates a new project from the form.
func (h *AdminPortfolioHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminPortfolioPath) {
		return
	}

	_, err := h.projects.Create(r.Context(), domain.CreateProjectParams{
		Title:        r.PostFormValue("title"),
		Description:  r.PostFormValue("description"),
		URL:          r.PostFormValue("url"),
		Visibility:   domain.Visibility(r.PostFormValue("visibility")),
		Tags:         splitTags(r.PostFormValue("tags")),
		FrameworkIDs: parseIDList(r.PostForm["frameworks"]),
		LanguageIDs:  parseIDList(r.PostForm["languages"]),
	})
	if err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The project was successfully created.")
	http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
}

// =============================================================================
// GET /admin/portfolio/{id} - Edit Form
// =============================================================================

// Edit displays the project edit form with its images.
func (h *AdminPortfolioHandler) Edit(w http.ResponseWriter, r *http.Request) {
	admin := auth.GetAdminFromRequest(r)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given project doesn't exist in the database.")
		http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
		return
	}

	project, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	frameworks, err := h.projects.ListFrameworks(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	languages, err := h.projects.ListLanguages(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	// Thumbnails are enough for the edit page.
	imageURLs := make(map[uuid.UUID]string, len(project.Images))
	for _, img := range project.Images {
		url, err := h.projects.ImageURL(r.Context(), img.ThumbnailKey)
		if err != nil {
			h.logger.Warn("failed to resolve image URL",
				slog.String("key", img.ThumbnailKey),
				slog.String("error", err.Error()))
			continue
		}
		imageURLs[img.ID] = url
	}

	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Internal(err, "AdminPortfolioHandler.Edit", "Failed to issue form token"))
		return
	}

	data := AdminProjectPageData{
		Title:      "Edit project",
		Admin:      admin,
		Project:    project,
		Frameworks: frameworks,
		Languages:  languages,
		ImageURLs:  imageURLs,
		CSRFToken:  token,
		Messages:   h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "admin/portfolio/edit", data)
}

// =============================================================================
// POST /admin/portfolio/{id} - Update Project
// =============================================================================

// Update rewrites a project from the form.
func (h *AdminPortfolioHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminPortfolioPath) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given project doesn't exist in the database.")
		http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
		return
	}

	_, err = h.projects.Update(r.Context(), domain.UpdateProjectParams{
		ID:           id,
		Title:        r.PostFormValue("title"),
		Description:  r.PostFormValue("description"),
		URL:          r.PostFormValue("url"),
		Visibility:   domain.Visibility(r.PostFormValue("visibility")),
		Tags:         splitTags(r.PostFormValue("tags")),
		FrameworkIDs: parseIDList(r.PostForm["frameworks"]),
		LanguageIDs:  parseIDList(r.PostForm["languages"]),
	})
	if err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The project was successfully updated.")
	http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
}

// =============================================================================
// POST /admin/portfolio/{id}/delete - Delete Project
// =============================================================================

// Delete removes a project and its stored images.
func (h *AdminPortfolioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminPortfolioPath) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given project doesn't exist in the database.")
		http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The project was successfully deleted.")
	http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
}

// =============================================================================
// POST /admin/portfolio/{id}/images - Upload Image
// =============================================================================

// UploadImage stores a new image for the project.
func (h *AdminPortfolioHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given project doesn't exist in the database.")
		http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
		return
	}

	editPath := adminPortfolioPath + "/" + id.String()

	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(domain.MaxImageSize); err != nil {
		h.flash.Error(w, r, "The image exceeds the maximum allowed size.")
		http.Redirect(w, r, editPath, http.StatusSeeOther)
		return
	}

	if !validateForm(w, r, h.flash, editPath) {
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.flash.Error(w, r, "No image was provided.")
		http.Redirect(w, r, editPath, http.StatusSeeOther)
		return
	}
	defer file.Close()

	if _, err := h.projects.UploadImage(r.Context(), id, file, header); err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, editPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The image was successfully uploaded.")
	http.Redirect(w, r, editPath, http.StatusSeeOther)
}

// =============================================================================
// POST /admin/portfolio/{id}/images/{imageID}/delete - Delete Image
// =============================================================================

// DeleteImage removes an image from the project.
func (h *AdminPortfolioHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given project doesn't exist in the database.")
		http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
		return
	}

	editPath := adminPortfolioPath + "/" + id.String()

	if !validateForm(w, r, h.flash, editPath) {
		return
	}

	imageID, err := uuid.Parse(r.PathValue("imageID"))
	if err != nil {
		h.flash.Error(w, r, "The given image doesn't exist in the database.")
		http.Redirect(w, r, editPath, http.StatusSeeOther)
		return
	}

	if err := h.projects.DeleteImage(r.Context(), id, imageID); err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, editPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The image was successfully deleted.")
	http.Redirect(w, r, editPath, http.StatusSeeOther)
}

// =============================================================================
// Framework Management
// =============================================================================

// CreateFramework creates a new framework tag.
func (h *AdminPortfolioHandler) CreateFramework(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminPortfolioPath) {
		return
	}

	_, err := h.projects.CreateFramework(r.Context(), domain.CreateTagParams{
		Name:  r.PostFormValue("name"),
		Color: domain.TagColor(r.PostFormValue("color")),
	})
	if err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The framework was successfully created.")
	http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
}

// DeleteFramework removes a framework tag.
func (h *AdminPortfolioHandler) DeleteFramework(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminPortfolioPath) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given framework doesn't exist in the database.")
		http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
		return
	}

	if err := h.projects.DeleteFramework(r.Context(), id); err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The framework was successfully deleted.")
	http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
}

// =============================================================================
// Language Management
// =============================================================================

// CreateLanguage creates a new language tag.
func (h *AdminPortfolioHandler) CreateLanguage(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminPortfolioPath) {
		return
	}

	_, err := h.projects.CreateLanguage(r.Context(), domain.CreateTagParams{
		Name:  r.PostFormValue("name"),
		Color: domain.TagColor(r.PostFormValue("color")),
	})
	if err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The language was successfully created.")
	http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
}

// DeleteLanguage removes a language tag.
func (h *AdminPortfolioHandler) DeleteLanguage(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, adminPortfolioPath) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given language doesn't exist in the database.")
		http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
		return
	}

	if err := h.projects.DeleteLanguage(r.Context(), id); err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The language was successfully deleted.")
	http.Redirect(w, r, adminPortfolioPath, http.StatusSeeOther)
}

// =============================================================================
// Form Helpers
// =============================================================================

// splitTags parses a comma separated tag field into distinct names.
func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// parseIDList parses checkbox values into UUIDs, dropping invalid entries.
func parseIDList(values []string) []uuid.UUID {
	var ids []uuid.UUID
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

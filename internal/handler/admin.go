// Package handler contains HTTP handlers for the website.
//
// This file implements the admin panel core: login, logout, the dashboard,
// and account management.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/daniel-medina/website/internal/auth"
	"github.com/daniel-medina/website/internal/csrf"
	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/flash"
	"github.com/daniel-medina/website/internal/metrics"
	"github.com/daniel-medina/website/internal/service"
	"github.com/daniel-medina/website/internal/session"
	"github.com/google/uuid"
)

// =============================================================================
// Route Paths
// =============================================================================

const (
	// AdminHomePath is where authenticated admins land.
	AdminHomePath = "/admin"

	// LoginPath serves the login form and receives credentials.
	LoginPath = "/admin/authentication"

	// LogoutPath destroys the current session.
	LogoutPath = "/admin/disconnect"
)

// =============================================================================
// Collaborator Interfaces
// =============================================================================

// LoginLimiter tracks failed login attempts per client address. The request
// gating itself happens in middleware; the handler only reports outcomes.
type LoginLimiter interface {
	RecordFailure(ip string)
	Reset(ip string)
}

// =============================================================================
// Template Data Types
// =============================================================================

// LoginPageData contains data for the login form.
type LoginPageData struct {
	Title     string
	CSRFToken string
	Messages  []flash.Message
}

// DashboardPageData contains data for the admin dashboard.
type DashboardPageData struct {
	Title        string
	Admin        *domain.Admin
	ArticleCount int
	ProjectCount int
	AccountCount int64
	Messages     []flash.Message
}

// AccountsPageData contains data for the account management page.
type AccountsPageData struct {
	Title     string
	Admin     *domain.Admin
	Accounts  []domain.Admin
	CSRFToken string
	Messages  []flash.Message
}

// =============================================================================
// Handler Configuration
// =============================================================================

// AdminHandler handles admin panel core HTTP requests.
type AdminHandler struct {
	admins   service.AdminService
	articles service.ArticleService
	projects service.ProjectService
	renderer TemplateRenderer
	flash    *flash.Store
	limiter  LoginLimiter
	logger   *slog.Logger
	isSecure bool
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	admins service.AdminService,
	articles service.ArticleService,
	projects service.ProjectService,
	renderer TemplateRenderer,
	flashStore *flash.Store,
	limiter LoginLimiter,
	logger *slog.Logger,
	isSecure bool,
) *AdminHandler {
	return &AdminHandler{
		admins:   admins,
		articles: articles,
		projects: projects,
		renderer: renderer,
		flash:    flashStore,
		limiter:  limiter,
		logger:   logger,
		isSecure: isSecure,
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers the admin core routes.
//
// The gate middleware wraps each route with the appropriate kind: the login
// routes bounce authenticated admins away, everything else requires a
// session.
//
// Routes:
// - GET  /admin                        -> Dashboard
// - GET  /admin/authentication         -> LoginForm
// - POST /admin/authentication         -> Login
// - GET  /admin/disconnect             -> Logout
// - GET  /admin/accounts               -> Accounts
// - POST /admin/accounts               -> CreateAccount
// - POST /admin/accounts/{id}/delete   -> DeleteAccount
func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux, admin, login, logout func(http.Handler) http.Handler) {
	mux.Handle("GET /admin", admin(http.HandlerFunc(h.Dashboard)))
	mux.Handle("GET /admin/authentication", login(http.HandlerFunc(h.LoginForm)))
	mux.Handle("POST /admin/authentication", login(http.HandlerFunc(h.Login)))
	mux.Handle("GET /admin/disconnect", logout(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /admin/accounts", admin(http.HandlerFunc(h.Accounts)))
	mux.Handle("POST /admin/accounts", admin(http.HandlerFunc(h.CreateAccount)))
	mux.Handle("POST /admin/accounts/{id}/delete", admin(http.HandlerFunc(h.DeleteAccount)))
}

// =============================================================================
// GET /admin - Dashboard
// =============================================================================

// Dashboard displays entity counts for the admin panel landing page.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	admin := auth.GetAdminFromRequest(r)
	if admin == nil {
		h.logger.Error("dashboard handler called without authenticated admin")
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}

	archive, err := h.articles.Archive(r.Context(), 1, 1)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	projects, err := h.projects.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	accounts, err := h.admins.CountAccounts(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	data := DashboardPageData{
		Title:        "Administration",
		Admin:        admin,
		ArticleCount: archive.Total,
		ProjectCount: len(projects),
		AccountCount: accounts,
		Messages:     h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "admin/index", data)
}

// =============================================================================
// GET /admin/authentication - Login Form
// =============================================================================

// LoginForm displays the login form.
func (h *AdminHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Internal(err, "AdminHandler.LoginForm", "Failed to issue form token"))
		return
	}

	data := LoginPageData{
		Title:     "Authentication",
		CSRFToken: token,
		Messages:  h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "auth/login", data)
}

// =============================================================================
// POST /admin/authentication - Login
// =============================================================================

// Login authenticates the admin and establishes a session.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !csrf.ValidateRequest(r) {
		h.flash.Error(w, r, "The form has expired. Please try again.")
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.flash.Error(w, r, "Invalid form submission.")
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	ip := ClientIP(r)

	result, err := h.admins.Login(r.Context(), username, password)
	if err != nil {
		if domain.ErrorCode(err) == domain.EUNAUTHORIZED {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			h.limiter.RecordFailure(ip)
			h.logger.Info("login failed", "username", username, "ip", ip)
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.limiter.Reset(ip)

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	session.SetCookie(w, result.Token, maxAge, h.isSecure)
	h.flash.Success(w, r, "You are now logged in.")
	http.Redirect(w, r, AdminHomePath, http.StatusSeeOther)
}

// =============================================================================
// GET /admin/disconnect - Logout
// =============================================================================

// Logout destroys the session and clears the cookie. The gate guarantees an
// authenticated admin reaches this handler.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if err := h.admins.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to destroy session", "error", err)
		}
	}

	session.ClearCookie(w, h.isSecure)
	h.flash.Success(w, r, "You are now disconnected.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// =============================================================================
// GET /admin/accounts - Account List
// =============================================================================

// Accounts displays all admin accounts.
func (h *AdminHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	admin := auth.GetAdminFromRequest(r)

	accounts, err := h.admins.ListAccounts(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Internal(err, "AdminHandler.Accounts", "Failed to issue form token"))
		return
	}

	data := AccountsPageData{
		Title:     "Account management",
		Admin:     admin,
		Accounts:  accounts,
		CSRFToken: token,
		Messages:  h.flash.Pop(w, r),
	}

	h.renderer.RenderHTTP(w, "admin/accounts", data)
}

// =============================================================================
// POST /admin/accounts - Create Account
// =============================================================================

// CreateAccount creates a new admin account from the form.
func (h *AdminHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	if !validateForm(w, r, h.flash, "/admin/accounts") {
		return
	}

	_, err := h.admins.CreateAccount(r.Context(), domain.CreateAccountParams{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, "/admin/accounts", http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The account was successfully created.")
	http.Redirect(w, r, "/admin/accounts", http.StatusSeeOther)
}

// =============================================================================
// POST /admin/accounts/{id}/delete - Delete Account
// =============================================================================

// DeleteAccount removes an admin account. Self-deletion is rejected by the
// service.
func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	admin := auth.GetAdminFromRequest(r)
	if admin == nil {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}

	if !validateForm(w, r, h.flash, "/admin/accounts") {
		return
	}

	accountID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.flash.Error(w, r, "The given account doesn't exist in the database.")
		http.Redirect(w, r, "/admin/accounts", http.StatusSeeOther)
		return
	}

	err = h.admins.DeleteAccount(r.Context(), domain.DeleteAccountParams{
		AccountID: accountID,
		ActorID:   admin.ID,
	})
	if err != nil {
		if isUserFacing(err) {
			h.flash.Error(w, r, domain.ErrorMessage(err))
			http.Redirect(w, r, "/admin/accounts", http.StatusSeeOther)
			return
		}
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.flash.Success(w, r, "The account was successfully deleted.")
	http.Redirect(w, r, "/admin/accounts", http.StatusSeeOther)
}

// =============================================================================
// Helpers
// =============================================================================

// validateForm runs the CSRF check and form parse shared by the admin POST
// handlers. On failure it flashes a message, redirects, and returns false.
func validateForm(w http.ResponseWriter, r *http.Request, flashStore *flash.Store, redirect string) bool {
	if !csrf.ValidateRequest(r) {
		flashStore.Error(w, r, "The form has expired. Please try again.")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return false
	}
	if err := r.ParseForm(); err != nil {
		flashStore.Error(w, r, "Invalid form submission.")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return false
	}
	return true
}

// isUserFacing reports whether an error should be surfaced as a flash
// message instead of an error response. Validation, conflict, and not-found
// errors carry messages written for the admin.
func isUserFacing(err error) bool {
	switch domain.ErrorCode(err) {
	case domain.EINVALID, domain.ECONFLICT, domain.ENOTFOUND, domain.ETOOLARGE:
		return true
	default:
		return false
	}
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/daniel-medina/website/internal/auth"
	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/flash"
	"github.com/daniel-medina/website/internal/handler"
	"github.com/daniel-medina/website/internal/service"
	"github.com/daniel-medina/website/internal/session"
)

// =============================================================================
// Route Kinds
// =============================================================================

// RouteKind classifies an admin route for the auth gate. The gate's
// behavior depends on whether the guarded route is the login page, the
// logout action, or any other admin page.
type RouteKind int

const (
	// RouteAdmin is any admin page that requires an authenticated session.
	RouteAdmin RouteKind = iota

	// RouteLogin is the login page; authenticated users are bounced away
	// from it, unauthenticated users pass through.
	RouteLogin

	// RouteLogout is the logout action; only authenticated users may
	// reach it.
	RouteLogout
)

func (k RouteKind) String() string {
	switch k {
	case RouteLogin:
		return "login"
	case RouteLogout:
		return "logout"
	default:
		return "admin"
	}
}

// =============================================================================
// Auth Gate
// =============================================================================

// AuthGate guards the admin panel.
//
// Every admin request runs through the same fixed sequence:
//
//  1. Count existing accounts. If none exist, create the default admin
//     account and redirect to the login page.
//  2. Resolve the session (done by WithAdmin earlier in the chain).
//  3. Route by authentication state and RouteKind.
//
// Any failure from the account service is answered with a 5xx response;
// the gate never silently lets a request through and never hangs on a
// collaborator error.
type AuthGate struct {
	admins   service.AdminService
	flash    *flash.Store
	logger   *slog.Logger
	isSecure bool
}

// NewAuthGate creates a new AuthGate.
func NewAuthGate(admins service.AdminService, flash *flash.Store, logger *slog.Logger, isSecure bool) *AuthGate {
	return &AuthGate{
		admins:   admins,
		flash:    flash,
		logger:   logger,
		isSecure: isSecure,
	}
}

// WithAdmin is middleware that attempts to load the admin from the session
// cookie.
//
// It checks for a session cookie, validates the session, stores the admin in
// the request context, and continues to the next handler regardless of
// authentication status. Invalid or expired sessions clear the cookie.
func (g *AuthGate) WithAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			// No cookie - continue without admin
			next.ServeHTTP(w, r)
			return
		}

		admin, err := g.admins.GetBySessionToken(r.Context(), cookie.Value)
		if err != nil {
			if domain.ErrorCode(err) == domain.EINTERNAL {
				handler.ErrorResponse(w, r, g.logger, err)
				return
			}
			// Invalid or expired session - clear the cookie and continue
			session.ClearCookie(w, g.isSecure)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetAdmin(r.Context(), admin)))
	})
}

// Require returns middleware gating a route of the given kind.
//
// Must run after WithAdmin in the chain.
func (g *AuthGate) Require(kind RouteKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count, err := g.admins.CountAccounts(r.Context())
			if err != nil {
				handler.ErrorResponse(w, r, g.logger, err)
				return
			}

			if count == 0 {
				if err := g.admins.EnsureDefaultAdmin(r.Context()); err != nil {
					// A concurrent request may have won the bootstrap race;
					// the unique constraint reports that as a conflict and
					// the account exists either way.
					if domain.ErrorCode(err) != domain.ECONFLICT {
						handler.ErrorResponse(w, r, g.logger, err)
						return
					}
				}
				g.logger.Info("default admin account ensured", "route", kind.String())
				g.flash.Info(w, r, "A default account has been created. Please log in.")
				http.Redirect(w, r, handler.LoginPath, http.StatusSeeOther)
				return
			}

			admin := auth.GetAdmin(r.Context())

			if admin != nil {
				if kind == RouteLogin {
					g.flash.Info(w, r, "You are already logged in.")
					http.Redirect(w, r, handler.AdminHomePath, http.StatusSeeOther)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			switch kind {
			case RouteLogin:
				next.ServeHTTP(w, r)
			case RouteLogout:
				g.flash.Error(w, r, "You can't disconnect if you're not logged in.")
				http.Redirect(w, r, "/", http.StatusSeeOther)
			default:
				g.flash.Error(w, r, "You need to login in order to access the admin panel.")
				http.Redirect(w, r, handler.LoginPath, http.StatusSeeOther)
			}
		})
	}
}

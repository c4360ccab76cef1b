package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/daniel-medina/website/internal/auth"
	"github.com/daniel-medina/website/internal/csrf"
	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/session"
	"github.com/google/uuid"
)

func newAdminHandler(admins *mockAdminService, limiter *mockLimiter, renderer *mockRenderer) *AdminHandler {
	return NewAdminHandler(
		admins,
		&mockArticleService{},
		&mockProjectService{},
		renderer,
		testFlash(),
		limiter,
		testLogger(),
		false,
	)
}

// postForm builds a POST request carrying a valid double-submit token.
func postForm(target string, form url.Values) *http.Request {
	form.Set(csrf.FormFieldName, "test-token")
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: "test-token"})
	req.RemoteAddr = "203.0.113.7:54321"
	return req
}

func TestLogin_Success(t *testing.T) {
	admin := &domain.Admin{ID: uuid.New(), Username: "daniel"}
	admins := &mockAdminService{
		LoginFunc: func(ctx context.Context, username, password string) (*domain.LoginResult, error) {
			if username != "daniel" || password != "secret" {
				t.Errorf("credentials = %q/%q", username, password)
			}
			return &domain.LoginResult{Admin: admin, Token: "raw-token", ExpiresAt: time.Now().Add(48 * time.Hour)}, nil
		},
	}
	limiter := &mockLimiter{}
	h := newAdminHandler(admins, limiter, &mockRenderer{})

	req := postForm(LoginPath, url.Values{"username": {"daniel"}, "password": {"secret"}})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != AdminHomePath {
		t.Errorf("Location = %q, want %q", loc, AdminHomePath)
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("no session cookie set")
	}
	if sessionCookie.Value != "raw-token" {
		t.Errorf("cookie value = %q, want %q", sessionCookie.Value, "raw-token")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	// The cookie lifetime follows the session expiry, here roughly 48 hours.
	if sessionCookie.MaxAge < 47*3600 || sessionCookie.MaxAge > 48*3600 {
		t.Errorf("cookie MaxAge = %d, want about %d", sessionCookie.MaxAge, 48*3600)
	}

	if len(limiter.Resets) != 1 || limiter.Resets[0] != "203.0.113.7" {
		t.Errorf("limiter resets = %v, want one for 203.0.113.7", limiter.Resets)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{name: "unknown username", message: "The given username doesn't exist in the database."},
		{name: "wrong password", message: "The given password is not correct."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admins := &mockAdminService{
				LoginFunc: func(ctx context.Context, username, password string) (*domain.LoginResult, error) {
					return nil, domain.Unauthorized("AdminService.Login", tt.message)
				},
			}
			limiter := &mockLimiter{}
			h := newAdminHandler(admins, limiter, &mockRenderer{})

			req := postForm(LoginPath, url.Values{"username": {"x"}, "password": {"y"}})
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != LoginPath {
				t.Errorf("Location = %q, want %q", loc, LoginPath)
			}
			if len(limiter.Failures) != 1 {
				t.Errorf("limiter failures = %v, want one", limiter.Failures)
			}
			for _, c := range rec.Result().Cookies() {
				if c.Name == session.CookieName {
					t.Error("session cookie must not be set on failed login")
				}
			}
		})
	}
}

func TestLogin_MissingCSRFToken(t *testing.T) {
	admins := &mockAdminService{
		LoginFunc: func(ctx context.Context, username, password string) (*domain.LoginResult, error) {
			t.Fatal("Login should not be reached without a form token")
			return nil, nil
		},
	}
	h := newAdminHandler(admins, &mockLimiter{}, &mockRenderer{})

	form := url.Values{"username": {"daniel"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, LoginPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Errorf("Location = %q, want %q", loc, LoginPath)
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	var destroyed string
	admins := &mockAdminService{
		LogoutFunc: func(ctx context.Context, token string) error {
			destroyed = token
			return nil
		},
	}
	h := newAdminHandler(admins, &mockLimiter{}, &mockRenderer{})

	req := httptest.NewRequest(http.MethodGet, LogoutPath, nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "raw-token"})

	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}
	if destroyed != "raw-token" {
		t.Errorf("destroyed token = %q, want %q", destroyed, "raw-token")
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie was not cleared")
	}
}

func TestCreateAccount(t *testing.T) {
	tests := []struct {
		name    string
		loginFn func(ctx context.Context, params domain.CreateAccountParams) (*domain.Admin, error)
		wantLoc string
	}{
		{
			name: "success",
			loginFn: func(ctx context.Context, params domain.CreateAccountParams) (*domain.Admin, error) {
				return &domain.Admin{ID: uuid.New(), Username: params.Username}, nil
			},
			wantLoc: "/admin/accounts",
		},
		{
			name: "duplicate username",
			loginFn: func(ctx context.Context, params domain.CreateAccountParams) (*domain.Admin, error) {
				return nil, domain.Conflict("AdminService.CreateAccount", "The username already exist in the database.")
			},
			wantLoc: "/admin/accounts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admins := &mockAdminService{CreateAccountFunc: tt.loginFn}
			h := newAdminHandler(admins, &mockLimiter{}, &mockRenderer{})

			req := postForm("/admin/accounts", url.Values{
				"username": {"newadmin"},
				"password": {"longenough"},
			})
			rec := httptest.NewRecorder()
			h.CreateAccount(rec, req)

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
			}
		})
	}
}

func TestDeleteAccount_SelfDeletionMessage(t *testing.T) {
	actor := &domain.Admin{ID: uuid.New(), Username: "daniel"}
	admins := &mockAdminService{
		DeleteAccountFunc: func(ctx context.Context, params domain.DeleteAccountParams) error {
			if params.ActorID != actor.ID {
				t.Errorf("actor = %v, want %v", params.ActorID, actor.ID)
			}
			return domain.Invalid("AdminService.DeleteAccount", "You can't delete your own account.")
		},
	}
	h := newAdminHandler(admins, &mockLimiter{}, &mockRenderer{})

	req := postForm("/admin/accounts/"+actor.ID.String()+"/delete", url.Values{})
	req.SetPathValue("id", actor.ID.String())
	req = req.WithContext(auth.SetAdmin(req.Context(), actor))

	rec := httptest.NewRecorder()
	h.DeleteAccount(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/accounts" {
		t.Errorf("Location = %q, want %q", loc, "/admin/accounts")
	}
}

package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/daniel-medina/website/internal/auth"
	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/flash"
	"github.com/daniel-medina/website/internal/handler"
	"github.com/daniel-medina/website/internal/session"
	"github.com/google/uuid"
)

// gateAdminService implements service.AdminService for gate tests. Only the
// methods the gate touches carry function fields.
type gateAdminService struct {
	CountAccountsFunc      func(ctx context.Context) (int64, error)
	EnsureDefaultAdminFunc func(ctx context.Context) error
	GetBySessionTokenFunc  func(ctx context.Context, token string) (*domain.Admin, error)
}

func (s *gateAdminService) CountAccounts(ctx context.Context) (int64, error) {
	return s.CountAccountsFunc(ctx)
}

func (s *gateAdminService) EnsureDefaultAdmin(ctx context.Context) error {
	return s.EnsureDefaultAdminFunc(ctx)
}

func (s *gateAdminService) GetBySessionToken(ctx context.Context, token string) (*domain.Admin, error) {
	return s.GetBySessionTokenFunc(ctx, token)
}

func (s *gateAdminService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	panic("not used")
}

func (s *gateAdminService) Logout(ctx context.Context, token string) error {
	panic("not used")
}

func (s *gateAdminService) CreateAccount(ctx context.Context, params domain.CreateAccountParams) (*domain.Admin, error) {
	panic("not used")
}

func (s *gateAdminService) DeleteAccount(ctx context.Context, params domain.DeleteAccountParams) error {
	panic("not used")
}

func (s *gateAdminService) ListAccounts(ctx context.Context) ([]domain.Admin, error) {
	panic("not used")
}

func (s *gateAdminService) DeleteExpiredSessions(ctx context.Context) error {
	panic("not used")
}

func testGate(admins *gateAdminService) *AuthGate {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthGate(admins, flash.NewStore("test-secret", false), logger, false)
}

// okHandler records whether the chain reached the protected handler.
type okHandler struct {
	called bool
	admin  *domain.Admin
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.admin = auth.GetAdmin(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestWithAdmin(t *testing.T) {
	admin := &domain.Admin{ID: uuid.New(), Username: "daniel"}

	tests := []struct {
		name       string
		cookie     string
		tokenFn    func(ctx context.Context, token string) (*domain.Admin, error)
		wantAdmin  bool
		wantStatus int
	}{
		{
			name:       "no cookie continues anonymous",
			wantStatus: http.StatusOK,
		},
		{
			name:   "valid session attaches admin",
			cookie: "good-token",
			tokenFn: func(ctx context.Context, token string) (*domain.Admin, error) {
				if token != "good-token" {
					t.Errorf("token = %q", token)
				}
				return admin, nil
			},
			wantAdmin:  true,
			wantStatus: http.StatusOK,
		},
		{
			name:   "expired session clears cookie and continues",
			cookie: "stale-token",
			tokenFn: func(ctx context.Context, token string) (*domain.Admin, error) {
				return nil, domain.Unauthorized("AdminService.GetBySessionToken", "Invalid or expired session.")
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "database failure answers with an error",
			cookie: "any-token",
			tokenFn: func(ctx context.Context, token string) (*domain.Admin, error) {
				return nil, domain.Internal(errors.New("db down"), "AdminService.GetBySessionToken", "Failed to retrieve session")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := testGate(&gateAdminService{GetBySessionTokenFunc: tt.tokenFn})
			next := &okHandler{}

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookie})
			}

			rec := httptest.NewRecorder()
			gate.WithAdmin(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && !next.called {
				t.Fatal("next handler was not reached")
			}
			if tt.wantAdmin && next.admin == nil {
				t.Error("admin missing from request context")
			}
			if !tt.wantAdmin && next.admin != nil {
				t.Error("unexpected admin in request context")
			}
		})
	}
}

func TestRequire_BootstrapsDefaultAccount(t *testing.T) {
	var ensured bool
	gate := testGate(&gateAdminService{
		CountAccountsFunc: func(ctx context.Context) (int64, error) { return 0, nil },
		EnsureDefaultAdminFunc: func(ctx context.Context) error {
			ensured = true
			return nil
		},
	})
	next := &okHandler{}

	rec := httptest.NewRecorder()
	gate.Require(RouteAdmin)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if !ensured {
		t.Fatal("default account was not created")
	}
	if next.called {
		t.Error("request must not reach the handler during bootstrap")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != handler.LoginPath {
		t.Errorf("Location = %q, want %q", loc, handler.LoginPath)
	}
}

func TestRequire_BootstrapRaceToleratesConflict(t *testing.T) {
	gate := testGate(&gateAdminService{
		CountAccountsFunc: func(ctx context.Context) (int64, error) { return 0, nil },
		EnsureDefaultAdminFunc: func(ctx context.Context) error {
			return domain.Conflict("AdminService.EnsureDefaultAdmin", "The username already exist in the database.")
		},
	})

	rec := httptest.NewRecorder()
	gate.Require(RouteAdmin)(&okHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != handler.LoginPath {
		t.Errorf("Location = %q, want %q", loc, handler.LoginPath)
	}
}

func TestRequire_ConcurrentBootstrapCreatesOneAccount(t *testing.T) {
	// Simultaneous first requests all see zero accounts; the unique index
	// on usernames lets exactly one insert through and reports a conflict
	// to the rest.
	var created atomic.Bool
	var creates atomic.Int32
	gate := testGate(&gateAdminService{
		CountAccountsFunc: func(ctx context.Context) (int64, error) { return 0, nil },
		EnsureDefaultAdminFunc: func(ctx context.Context) error {
			if created.CompareAndSwap(false, true) {
				creates.Add(1)
				return nil
			}
			return domain.Conflict("AdminService.EnsureDefaultAdmin", "Default account already exists")
		},
	})
	next := &okHandler{}
	mw := gate.Require(RouteAdmin)(next)

	const workers = 16
	results := make([]*httptest.ResponseRecorder, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
			results[i] = rec
		}(i)
	}
	wg.Wait()

	if got := creates.Load(); got != 1 {
		t.Fatalf("accounts created = %d, want 1", got)
	}
	if next.called {
		t.Error("no request may reach the handler during bootstrap")
	}
	for i, rec := range results {
		if rec.Code != http.StatusSeeOther {
			t.Errorf("request %d: status = %d, want %d", i, rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != handler.LoginPath {
			t.Errorf("request %d: Location = %q, want %q", i, loc, handler.LoginPath)
		}
	}
}

func TestRequire_BootstrapFailureAnswers(t *testing.T) {
	gate := testGate(&gateAdminService{
		CountAccountsFunc: func(ctx context.Context) (int64, error) { return 0, nil },
		EnsureDefaultAdminFunc: func(ctx context.Context) error {
			return domain.Internal(errors.New("db down"), "AdminService.EnsureDefaultAdmin", "Failed to create account")
		},
	})

	rec := httptest.NewRecorder()
	gate.Require(RouteAdmin)(&okHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestRequire_CountFailureAnswers(t *testing.T) {
	gate := testGate(&gateAdminService{
		CountAccountsFunc: func(ctx context.Context) (int64, error) {
			return 0, domain.Internal(errors.New("db down"), "AdminService.CountAccounts", "Failed to count accounts")
		},
	})

	rec := httptest.NewRecorder()
	gate.Require(RouteAdmin)(&okHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestRequire_RouteFlow(t *testing.T) {
	admin := &domain.Admin{ID: uuid.New(), Username: "daniel"}

	tests := []struct {
		name     string
		kind     RouteKind
		authed   bool
		wantNext bool
		wantLoc  string
	}{
		{name: "authed admin page passes", kind: RouteAdmin, authed: true, wantNext: true},
		{name: "authed login page bounces home", kind: RouteLogin, authed: true, wantLoc: handler.AdminHomePath},
		{name: "authed logout passes", kind: RouteLogout, authed: true, wantNext: true},
		{name: "anonymous admin page goes to login", kind: RouteAdmin, wantLoc: handler.LoginPath},
		{name: "anonymous login page passes", kind: RouteLogin, wantNext: true},
		{name: "anonymous logout goes home", kind: RouteLogout, wantLoc: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := testGate(&gateAdminService{
				CountAccountsFunc: func(ctx context.Context) (int64, error) { return 1, nil },
			})
			next := &okHandler{}

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.authed {
				req = req.WithContext(auth.SetAdmin(req.Context(), admin))
			}

			rec := httptest.NewRecorder()
			gate.Require(tt.kind)(next).ServeHTTP(rec, req)

			if next.called != tt.wantNext {
				t.Fatalf("next called = %v, want %v", next.called, tt.wantNext)
			}
			if tt.wantLoc != "" {
				if rec.Code != http.StatusSeeOther {
					t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
				}
				if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
					t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
				}
			}
		})
	}
}

func TestRouteKindString(t *testing.T) {
	tests := []struct {
		kind RouteKind
		want string
	}{
		{RouteAdmin, "admin"},
		{RouteLogin, "login"},
		{RouteLogout, "logout"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

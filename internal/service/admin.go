// Package service contains the business logic layer.
//
// Services orchestrate interactions between repositories, storage, and
// domain logic. They are responsible for:
// - Input validation
// - Business rule enforcement
// - Error translation (database errors -> domain errors)
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Configuration Constants
// =============================================================================

const (
	// BcryptCost is the cost factor for bcrypt password hashing.
	// Cost 12 provides good security (~250ms on modern hardware) while being
	// fast enough for login flows.
	BcryptCost = 12

	// SessionTokenBytes is the number of random bytes for session tokens.
	// 32 bytes = 256 bits of entropy. The token is hex-encoded to 64
	// characters for storage and transmission.
	SessionTokenBytes = 32

	// DefaultSessionDuration is how long a session remains valid when the
	// configuration does not say otherwise.
	DefaultSessionDuration = 7 * 24 * time.Hour

	// MinUsernameLength and MaxUsernameLength bound account usernames.
	MinUsernameLength = 2
	MaxUsernameLength = 20

	// MinPasswordLength and MaxPasswordLength bound account passwords.
	// The upper bound also keeps bcrypt input under its 72-byte limit.
	MinPasswordLength = 5
	MaxPasswordLength = 100
)

// =============================================================================
// Interface Definition
// =============================================================================

// AdminService defines the interface for admin account and session
// operations.
//
// This interface enables:
// - Mocking in unit tests
// - Clear contract definition for handlers and middleware
type AdminService interface {
	// CountAccounts returns the number of admin accounts.
	CountAccounts(ctx context.Context) (int64, error)

	// EnsureDefaultAdmin creates the default admin account.
	// Returns domain.ECONFLICT if an account with the default username
	// already exists (e.g. a concurrent request won the bootstrap race).
	EnsureDefaultAdmin(ctx context.Context) error

	// Login authenticates an admin and creates a new session.
	// Returns the admin and raw session token on success.
	// Returns domain.EUNAUTHORIZED for invalid credentials, with a message
	// distinguishing unknown username from wrong password.
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)

	// Logout invalidates a session by its raw token.
	// This is idempotent - calling with an invalid token is not an error.
	Logout(ctx context.Context, token string) error

	// GetBySessionToken retrieves an admin by their session token.
	// Returns domain.EUNAUTHORIZED if token is invalid or expired.
	GetBySessionToken(ctx context.Context, token string) (*domain.Admin, error)

	// CreateAccount creates a new admin account.
	// Returns domain.ECONFLICT if the username already exists.
	// Returns domain.EINVALID for validation errors.
	CreateAccount(ctx context.Context, params domain.CreateAccountParams) (*domain.Admin, error)

	// DeleteAccount removes an admin account and its sessions.
	// Returns domain.EINVALID when an account attempts to delete itself.
	// Returns domain.ENOTFOUND if the account does not exist.
	DeleteAccount(ctx context.Context, params domain.DeleteAccountParams) error

	// ListAccounts returns all admin accounts.
	ListAccounts(ctx context.Context) ([]domain.Admin, error)

	// DeleteExpiredSessions removes all expired sessions from the database.
	// This should be called periodically to clean up.
	DeleteExpiredSessions(ctx context.Context) error
}

// =============================================================================
// Implementation
// =============================================================================

// AdminConfig carries the bootstrap credentials for the default account and
// the session lifetime.
type AdminConfig struct {
	DefaultUsername string
	DefaultPassword string

	// SessionDuration is how long logins stay valid. Zero or negative
	// values fall back to DefaultSessionDuration.
	SessionDuration time.Duration
}

// adminService is the concrete implementation of AdminService.
type adminService struct {
	queries *repository.Queries
	logger  *slog.Logger
	cfg     AdminConfig
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(queries *repository.Queries, logger *slog.Logger, cfg AdminConfig) AdminService {
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = DefaultSessionDuration
	}
	return &adminService{
		queries: queries,
		logger:  logger,
		cfg:     cfg,
	}
}

// CountAccounts returns the number of admin accounts.
func (s *adminService) CountAccounts(ctx context.Context) (int64, error) {
	const op = "AdminService.CountAccounts"

	count, err := s.queries.CountAdmins(ctx)
	if err != nil {
		return 0, domain.Internal(err, op, "Failed to count accounts")
	}
	return count, nil
}

// EnsureDefaultAdmin creates the default admin account.
//
// Concurrent first requests race here; the unique index on usernames
// guarantees only one of them succeeds, and the losers see ECONFLICT.
func (s *adminService) EnsureDefaultAdmin(ctx context.Context) error {
	const op = "AdminService.EnsureDefaultAdmin"

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.DefaultPassword), BcryptCost)
	if err != nil {
		return domain.Internal(err, op, "Failed to hash password")
	}

	admin, err := s.queries.CreateAdmin(ctx, repository.CreateAdminParams{
		Username:     s.cfg.DefaultUsername,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict(op, "Default account already exists")
		}
		return domain.Internal(err, op, "Failed to create default account")
	}

	s.logger.Info("default admin account created", "admin_id", admin.ID, "username", admin.Username)

	return nil
}

// Login authenticates an admin and creates a new session.
//
// Flow:
// 1. Look up admin by username
// 2. Compare password hash using bcrypt
// 3. Generate cryptographically secure session token
// 4. Store the SHA-256 hash of the token
// 5. Return admin and raw token
//
// Security Considerations:
// - Constant-time password comparison via bcrypt
// - A dummy bcrypt comparison runs when the username is unknown, so the
//   two failure paths take comparable time
// - Session token is only returned once and stored hashed
func (s *adminService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	const op = "AdminService.Login"

	username = strings.TrimSpace(username)

	repoAdmin, err := s.queries.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Dummy hash keeps the unknown-username path from returning
			// measurably faster than a wrong password
			dummyHash := "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, domain.Unauthorized(op, "The given username doesn't exist in the database.")
		}
		return nil, domain.Internal(err, op, "Failed to retrieve account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(repoAdmin.PasswordHash), []byte(password)); err != nil {
		return nil, domain.Unauthorized(op, "The given password is not correct.")
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to generate session token")
	}

	tokenHash := hashSessionToken(token)
	expiresAt := time.Now().Add(s.cfg.SessionDuration)

	_, err = s.queries.CreateSession(ctx, repository.CreateSessionParams{
		AdminID:   repoAdmin.ID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to create session")
	}

	admin := repoAdminToDomain(repoAdmin)
	admin.PasswordHash = ""

	s.logger.Info("admin logged in", "admin_id", admin.ID, "username", admin.Username)

	return &domain.LoginResult{
		Admin:     admin,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout invalidates a session. Idempotent: an invalid or already-deleted
// token simply does nothing.
func (s *adminService) Logout(ctx context.Context, token string) error {
	if token == "" || len(token) != 64 {
		return nil
	}

	tokenHash := hashSessionToken(token)

	if err := s.queries.DeleteSessionByTokenHash(ctx, tokenHash); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to delete session", "error", err)
		}
	}

	s.logger.Debug("session invalidated")

	return nil
}

// GetBySessionToken retrieves an admin by their session token.
func (s *adminService) GetBySessionToken(ctx context.Context, token string) (*domain.Admin, error) {
	const op = "AdminService.GetBySessionToken"

	if token == "" || len(token) != 64 {
		return nil, domain.Unauthorized(op, "Invalid or expired session")
	}

	tokenHash := hashSessionToken(token)

	session, err := s.queries.GetSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Unauthorized(op, "Invalid or expired session")
		}
		return nil, domain.Internal(err, op, "Failed to retrieve session")
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, domain.Unauthorized(op, "Invalid or expired session")
	}

	repoAdmin, err := s.queries.GetAdminByID(ctx, session.AdminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Unlikely but possible if the account was deleted
			return nil, domain.Unauthorized(op, "Invalid or expired session")
		}
		return nil, domain.Internal(err, op, "Failed to retrieve account")
	}

	admin := repoAdminToDomain(repoAdmin)
	admin.PasswordHash = ""

	return admin, nil
}

// CreateAccount creates a new admin account.
func (s *adminService) CreateAccount(ctx context.Context, params domain.CreateAccountParams) (*domain.Admin, error) {
	const op = "AdminService.CreateAccount"

	params.Username = strings.TrimSpace(params.Username)

	if err := validateUsername(params.Username); err != nil {
		return nil, domain.Wrap(err, domain.EINVALID, op, "Invalid username")
	}
	if err := validatePassword(params.Password); err != nil {
		return nil, domain.Wrap(err, domain.EINVALID, op, "Invalid password")
	}

	// Check for an existing account first; to keep the two paths close in
	// timing, hash the password even when the name is taken
	_, err := s.queries.GetAdminByUsername(ctx, params.Username)
	if err == nil {
		_, _ = bcrypt.GenerateFromPassword([]byte(params.Password), BcryptCost)
		return nil, domain.Conflict(op, "Username already taken")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Internal(err, op, "Failed to check username availability")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), BcryptCost)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to hash password")
	}

	repoAdmin, err := s.queries.CreateAdmin(ctx, repository.CreateAdminParams{
		Username:     params.Username,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "Username already taken")
		}
		return nil, domain.Internal(err, op, "Failed to create account")
	}

	admin := repoAdminToDomain(repoAdmin)
	admin.PasswordHash = ""

	s.logger.Info("admin account created", "admin_id", admin.ID, "username", admin.Username)

	return admin, nil
}

// DeleteAccount removes an admin account and its sessions.
func (s *adminService) DeleteAccount(ctx context.Context, params domain.DeleteAccountParams) error {
	const op = "AdminService.DeleteAccount"

	if params.AccountID == params.ActorID {
		return domain.Invalid(op, "You can't delete your own account.")
	}

	if _, err := s.queries.GetAdminByID(ctx, params.AccountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "account", params.AccountID.String())
		}
		return domain.Internal(err, op, "Failed to retrieve account")
	}

	// Sessions are removed by the foreign key cascade, but deleting them
	// first keeps the account unusable even if the delete below fails
	if err := s.queries.DeleteSessionsByAdminID(ctx, params.AccountID); err != nil {
		return domain.Internal(err, op, "Failed to delete account sessions")
	}

	if err := s.queries.DeleteAdmin(ctx, params.AccountID); err != nil {
		return domain.Internal(err, op, "Failed to delete account")
	}

	s.logger.Info("admin account deleted", "admin_id", params.AccountID, "actor_id", params.ActorID)

	return nil
}

// ListAccounts returns all admin accounts.
func (s *adminService) ListAccounts(ctx context.Context) ([]domain.Admin, error) {
	const op = "AdminService.ListAccounts"

	repoAdmins, err := s.queries.ListAdmins(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list accounts")
	}

	admins := make([]domain.Admin, 0, len(repoAdmins))
	for _, a := range repoAdmins {
		admin := repoAdminToDomain(a)
		admin.PasswordHash = ""
		admins = append(admins, *admin)
	}
	return admins, nil
}

// DeleteExpiredSessions removes all expired sessions from the database.
func (s *adminService) DeleteExpiredSessions(ctx context.Context) error {
	const op = "AdminService.DeleteExpiredSessions"

	deleted, err := s.queries.DeleteExpiredSessions(ctx)
	if err != nil {
		return domain.Internal(err, op, "Failed to delete expired sessions")
	}
	if deleted > 0 {
		s.logger.Info("expired sessions deleted", "count", deleted)
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// generateSessionToken creates a cryptographically secure random token,
// hex-encoded to 64 characters.
func generateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// hashSessionToken creates a SHA-256 hash of a session token.
//
// Session tokens are hashed before storage so a database compromise does
// not expose usable tokens. Unlike passwords, session tokens are
// high-entropy random values, so SHA-256 is sufficient and fast enough for
// per-request validation.
func hashSessionToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// repoAdminToDomain converts a repository.Admin to domain.Admin.
func repoAdminToDomain(a repository.Admin) *domain.Admin {
	return &domain.Admin{
		ID:           a.ID,
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		CreatedAt:    a.CreatedAt,
	}
}

// isUniqueViolation reports whether a database error is a unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

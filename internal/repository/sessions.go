package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createSession = `
INSERT INTO sessions (admin_id, token_hash, expires_at)
VALUES ($1, $2, $3)
RETURNING id, admin_id, token_hash, expires_at, created_at
`

type CreateSessionParams struct {
	AdminID   uuid.UUID
	TokenHash string
	ExpiresAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	row := q.db.QueryRowContext(ctx, createSession, arg.AdminID, arg.TokenHash, arg.ExpiresAt)
	var s Session
	err := row.Scan(&s.ID, &s.AdminID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}

const getSessionByTokenHash = `
SELECT id, admin_id, token_hash, expires_at, created_at FROM sessions
WHERE token_hash = $1
`

func (q *Queries) GetSessionByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	row := q.db.QueryRowContext(ctx, getSessionByTokenHash, tokenHash)
	var s Session
	err := row.Scan(&s.ID, &s.AdminID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	return s, err
}

const deleteSessionByTokenHash = `
DELETE FROM sessions WHERE token_hash = $1
`

func (q *Queries) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := q.db.ExecContext(ctx, deleteSessionByTokenHash, tokenHash)
	return err
}

const deleteSessionsByAdminID = `
DELETE FROM sessions WHERE admin_id = $1
`

func (q *Queries) DeleteSessionsByAdminID(ctx context.Context, adminID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteSessionsByAdminID, adminID)
	return err
}

const deleteExpiredSessions = `
DELETE FROM sessions WHERE expires_at < now()
`

func (q *Queries) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteExpiredSessions)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

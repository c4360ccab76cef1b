package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Admin struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Session struct {
	ID        uuid.UUID
	AdminID   uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type ArticleCategory struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
}

type Article struct {
	ID         uuid.UUID
	Slug       string
	Title      string
	Content    string
	CategoryID uuid.NullUUID
	ViewIps    pqtype.NullRawMessage
	CreatedAt  time.Time
}

type Framework struct {
	ID        uuid.UUID
	Name      string
	Color     string
	CreatedAt time.Time
}

type Language struct {
	ID        uuid.UUID
	Name      string
	Color     string
	CreatedAt time.Time
}

type Project struct {
	ID          uuid.UUID
	Title       string
	Description string
	Url         string
	Visibility  string
	Images      pqtype.NullRawMessage
	Tags        pqtype.NullRawMessage
	CreatedAt   time.Time
}

// ArticleWithCategory is an article row joined with its optional category.
type ArticleWithCategory struct {
	Article
	CategoryTitle sql.NullString
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Article is a blog post. Content is stored as markdown and rendered by the
// templates; Slug is derived from the title at creation time and doubles as
// the public URL segment, so it must be unique.
type Article struct {
	ID        uuid.UUID
	Slug      string
	Title     string
	Content   string
	Category  *Category // nil when the category was deleted
	ViewIPs   []string  // remote addresses that already counted as a view
	CreatedAt time.Time
}

// Views returns the number of unique viewers recorded for the article.
func (a *Article) Views() int {
	return len(a.ViewIPs)
}

// Category groups articles in the archive and the admin panel.
type Category struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
}

// CreateArticleParams contains validated parameters for creating an article.
type CreateArticleParams struct {
	Title      string
	Content    string
	CategoryID uuid.UUID
}

// UpdateArticleParams contains validated parameters for updating an article.
type UpdateArticleParams struct {
	ID         uuid.UUID
	Title      string
	Content    string
	CategoryID uuid.UUID
}

// ArchivePage is one page of the blog archive. Category is set when the
// page lists a single category's articles.
type ArchivePage struct {
	Articles []Article
	Category *Category
	Total    int // total article count across all pages
	Page     int // current page, 1-based
	MaxPage  int
}

// FrontPage holds the articles shown on the blog index: the newest few in
// full, the rest as previews.
type FrontPage struct {
	Recent []Article
	Older  []Article
}

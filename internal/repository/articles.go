package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const articleColumns = `
a.id, a.slug, a.title, a.content, a.category_id, a.view_ips, a.created_at, c.title
`

func scanArticleWithCategory(row interface{ Scan(...interface{}) error }) (ArticleWithCategory, error) {
	var a ArticleWithCategory
	err := row.Scan(
		&a.ID,
		&a.Slug,
		&a.Title,
		&a.Content,
		&a.CategoryID,
		&a.ViewIps,
		&a.CreatedAt,
		&a.CategoryTitle,
	)
	return a, err
}

const createArticle = `
INSERT INTO articles (slug, title, content, category_id, view_ips)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, slug, title, content, category_id, view_ips, created_at
`

type CreateArticleParams struct {
	Slug       string
	Title      string
	Content    string
	CategoryID uuid.NullUUID
	ViewIps    pqtype.NullRawMessage
}

func (q *Queries) CreateArticle(ctx context.Context, arg CreateArticleParams) (Article, error) {
	row := q.db.QueryRowContext(ctx, createArticle,
		arg.Slug, arg.Title, arg.Content, arg.CategoryID, arg.ViewIps)
	var a Article
	err := row.Scan(&a.ID, &a.Slug, &a.Title, &a.Content, &a.CategoryID, &a.ViewIps, &a.CreatedAt)
	return a, err
}

const getArticleBySlug = `
SELECT ` + articleColumns + `
FROM articles a
LEFT JOIN article_categories c ON c.id = a.category_id
WHERE a.slug = $1
`

func (q *Queries) GetArticleBySlug(ctx context.Context, slug string) (ArticleWithCategory, error) {
	return scanArticleWithCategory(q.db.QueryRowContext(ctx, getArticleBySlug, slug))
}

const getArticleByID = `
SELECT ` + articleColumns + `
FROM articles a
LEFT JOIN article_categories c ON c.id = a.category_id
WHERE a.id = $1
`

func (q *Queries) GetArticleByID(ctx context.Context, id uuid.UUID) (ArticleWithCategory, error) {
	return scanArticleWithCategory(q.db.QueryRowContext(ctx, getArticleByID, id))
}

const articleExistsByTitle = `
SELECT EXISTS (SELECT 1 FROM articles WHERE title = $1 AND id <> $2)
`

type ArticleExistsByTitleParams struct {
	Title     string
	ExcludeID uuid.UUID
}

// ArticleExistsByTitle reports whether another article already uses the
// title. ExcludeID is the zero UUID for create checks.
func (q *Queries) ArticleExistsByTitle(ctx context.Context, arg ArticleExistsByTitleParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, articleExistsByTitle, arg.Title, arg.ExcludeID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const countArticles = `
SELECT count(*) FROM articles
`

func (q *Queries) CountArticles(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countArticles)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countArticlesByCategory = `
SELECT count(*) FROM articles WHERE category_id = $1
`

func (q *Queries) CountArticlesByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	row := q.db.QueryRowContext(ctx, countArticlesByCategory, categoryID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listArticles = `
SELECT ` + articleColumns + `
FROM articles a
LEFT JOIN article_categories c ON c.id = a.category_id
ORDER BY a.created_at DESC
LIMIT $1 OFFSET $2
`

type ListArticlesParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListArticles(ctx context.Context, arg ListArticlesParams) ([]ArticleWithCategory, error) {
	rows, err := q.db.QueryContext(ctx, listArticles, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ArticleWithCategory
	for rows.Next() {
		a, err := scanArticleWithCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listArticlesByCategory = `
SELECT ` + articleColumns + `
FROM articles a
LEFT JOIN article_categories c ON c.id = a.category_id
WHERE a.category_id = $1
ORDER BY a.created_at DESC
LIMIT $2 OFFSET $3
`

type ListArticlesByCategoryParams struct {
	CategoryID uuid.UUID
	Limit      int32
	Offset     int32
}

func (q *Queries) ListArticlesByCategory(ctx context.Context, arg ListArticlesByCategoryParams) ([]ArticleWithCategory, error) {
	rows, err := q.db.QueryContext(ctx, listArticlesByCategory, arg.CategoryID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ArticleWithCategory
	for rows.Next() {
		a, err := scanArticleWithCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateArticle = `
UPDATE articles
SET slug = $2, title = $3, content = $4, category_id = $5
WHERE id = $1
RETURNING id, slug, title, content, category_id, view_ips, created_at
`

type UpdateArticleParams struct {
	ID         uuid.UUID
	Slug       string
	Title      string
	Content    string
	CategoryID uuid.NullUUID
}

func (q *Queries) UpdateArticle(ctx context.Context, arg UpdateArticleParams) (Article, error) {
	row := q.db.QueryRowContext(ctx, updateArticle,
		arg.ID, arg.Slug, arg.Title, arg.Content, arg.CategoryID)
	var a Article
	err := row.Scan(&a.ID, &a.Slug, &a.Title, &a.Content, &a.CategoryID, &a.ViewIps, &a.CreatedAt)
	return a, err
}

const updateArticleViewIps = `
UPDATE articles
SET view_ips = $2
WHERE id = $1
`

type UpdateArticleViewIpsParams struct {
	ID      uuid.UUID
	ViewIps pqtype.NullRawMessage
}

func (q *Queries) UpdateArticleViewIps(ctx context.Context, arg UpdateArticleViewIpsParams) error {
	_, err := q.db.ExecContext(ctx, updateArticleViewIps, arg.ID, arg.ViewIps)
	return err
}

const deleteArticle = `
DELETE FROM articles WHERE id = $1
`

func (q *Queries) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteArticle, id)
	return err
}

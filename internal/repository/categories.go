package repository

import (
	"context"

	"github.com/google/uuid"
)

const createCategory = `
INSERT INTO article_categories (title)
VALUES ($1)
RETURNING id, title, created_at
`

func (q *Queries) CreateCategory(ctx context.Context, title string) (ArticleCategory, error) {
	row := q.db.QueryRowContext(ctx, createCategory, title)
	var c ArticleCategory
	err := row.Scan(&c.ID, &c.Title, &c.CreatedAt)
	return c, err
}

const getCategoryByID = `
SELECT id, title, created_at FROM article_categories
WHERE id = $1
`

func (q *Queries) GetCategoryByID(ctx context.Context, id uuid.UUID) (ArticleCategory, error) {
	row := q.db.QueryRowContext(ctx, getCategoryByID, id)
	var c ArticleCategory
	err := row.Scan(&c.ID, &c.Title, &c.CreatedAt)
	return c, err
}

const getCategoryByTitle = `
SELECT id, title, created_at FROM article_categories
WHERE title = $1
`

func (q *Queries) GetCategoryByTitle(ctx context.Context, title string) (ArticleCategory, error) {
	row := q.db.QueryRowContext(ctx, getCategoryByTitle, title)
	var c ArticleCategory
	err := row.Scan(&c.ID, &c.Title, &c.CreatedAt)
	return c, err
}

const listCategories = `
SELECT id, title, created_at FROM article_categories
ORDER BY title ASC
`

func (q *Queries) ListCategories(ctx context.Context) ([]ArticleCategory, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ArticleCategory
	for rows.Next() {
		var c ArticleCategory
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateCategory = `
UPDATE article_categories
SET title = $2
WHERE id = $1
RETURNING id, title, created_at
`

func (q *Queries) UpdateCategory(ctx context.Context, id uuid.UUID, title string) (ArticleCategory, error) {
	row := q.db.QueryRowContext(ctx, updateCategory, id, title)
	var c ArticleCategory
	err := row.Scan(&c.ID, &c.Title, &c.CreatedAt)
	return c, err
}

const deleteCategory = `
DELETE FROM article_categories WHERE id = $1
`

func (q *Queries) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteCategory, id)
	return err
}

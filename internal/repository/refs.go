package repository

import (
	"context"

	"github.com/google/uuid"
)

// Frameworks and languages share the same shape; both are small reference
// tables used to tag portfolio projects.

const createFramework = `
INSERT INTO frameworks (name, color)
VALUES ($1, $2)
RETURNING id, name, color, created_at
`

type CreateFrameworkParams struct {
	Name  string
	Color string
}

func (q *Queries) CreateFramework(ctx context.Context, arg CreateFrameworkParams) (Framework, error) {
	row := q.db.QueryRowContext(ctx, createFramework, arg.Name, arg.Color)
	var f Framework
	err := row.Scan(&f.ID, &f.Name, &f.Color, &f.CreatedAt)
	return f, err
}

const getFrameworkByID = `
SELECT id, name, color, created_at FROM frameworks
WHERE id = $1
`

func (q *Queries) GetFrameworkByID(ctx context.Context, id uuid.UUID) (Framework, error) {
	row := q.db.QueryRowContext(ctx, getFrameworkByID, id)
	var f Framework
	err := row.Scan(&f.ID, &f.Name, &f.Color, &f.CreatedAt)
	return f, err
}

const getFrameworkByName = `
SELECT id, name, color, created_at FROM frameworks
WHERE name = $1
`

func (q *Queries) GetFrameworkByName(ctx context.Context, name string) (Framework, error) {
	row := q.db.QueryRowContext(ctx, getFrameworkByName, name)
	var f Framework
	err := row.Scan(&f.ID, &f.Name, &f.Color, &f.CreatedAt)
	return f, err
}

const listFrameworks = `
SELECT id, name, color, created_at FROM frameworks
ORDER BY name ASC
`

func (q *Queries) ListFrameworks(ctx context.Context) ([]Framework, error) {
	rows, err := q.db.QueryContext(ctx, listFrameworks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Framework
	for rows.Next() {
		var f Framework
		if err := rows.Scan(&f.ID, &f.Name, &f.Color, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteFramework = `
DELETE FROM frameworks WHERE id = $1
`

func (q *Queries) DeleteFramework(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteFramework, id)
	return err
}

const createLanguage = `
INSERT INTO languages (name, color)
VALUES ($1, $2)
RETURNING id, name, color, created_at
`

type CreateLanguageParams struct {
	Name  string
	Color string
}

func (q *Queries) CreateLanguage(ctx context.Context, arg CreateLanguageParams) (Language, error) {
	row := q.db.QueryRowContext(ctx, createLanguage, arg.Name, arg.Color)
	var l Language
	err := row.Scan(&l.ID, &l.Name, &l.Color, &l.CreatedAt)
	return l, err
}

const getLanguageByID = `
SELECT id, name, color, created_at FROM languages
WHERE id = $1
`

func (q *Queries) GetLanguageByID(ctx context.Context, id uuid.UUID) (Language, error) {
	row := q.db.QueryRowContext(ctx, getLanguageByID, id)
	var l Language
	err := row.Scan(&l.ID, &l.Name, &l.Color, &l.CreatedAt)
	return l, err
}

const getLanguageByName = `
SELECT id, name, color, created_at FROM languages
WHERE name = $1
`

func (q *Queries) GetLanguageByName(ctx context.Context, name string) (Language, error) {
	row := q.db.QueryRowContext(ctx, getLanguageByName, name)
	var l Language
	err := row.Scan(&l.ID, &l.Name, &l.Color, &l.CreatedAt)
	return l, err
}

const listLanguages = `
SELECT id, name, color, created_at FROM languages
ORDER BY name ASC
`

func (q *Queries) ListLanguages(ctx context.Context) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx, listLanguages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Language
	for rows.Next() {
		var l Language
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteLanguage = `
DELETE FROM languages WHERE id = $1
`

func (q *Queries) DeleteLanguage(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteLanguage, id)
	return err
}

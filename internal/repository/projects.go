package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const createProject = `
INSERT INTO projects (title, description, url, visibility, images, tags)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, title, description, url, visibility, images, tags, created_at
`

type CreateProjectParams struct {
	Title       string
	Description string
	Url         string
	Visibility  string
	Images      pqtype.NullRawMessage
	Tags        pqtype.NullRawMessage
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, createProject,
		arg.Title, arg.Description, arg.Url, arg.Visibility, arg.Images, arg.Tags)
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Url, &p.Visibility, &p.Images, &p.Tags, &p.CreatedAt)
	return p, err
}

const getProjectByID = `
SELECT id, title, description, url, visibility, images, tags, created_at FROM projects
WHERE id = $1
`

func (q *Queries) GetProjectByID(ctx context.Context, id uuid.UUID) (Project, error) {
	row := q.db.QueryRowContext(ctx, getProjectByID, id)
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Url, &p.Visibility, &p.Images, &p.Tags, &p.CreatedAt)
	return p, err
}

const listProjects = `
SELECT id, title, description, url, visibility, images, tags, created_at FROM projects
ORDER BY created_at DESC
`

func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	return q.queryProjects(ctx, listProjects)
}

const listPublicProjects = `
SELECT id, title, description, url, visibility, images, tags, created_at FROM projects
WHERE visibility = 'public'
ORDER BY created_at DESC
`

func (q *Queries) ListPublicProjects(ctx context.Context) ([]Project, error) {
	return q.queryProjects(ctx, listPublicProjects)
}

func (q *Queries) queryProjects(ctx context.Context, query string, args ...interface{}) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Url, &p.Visibility, &p.Images, &p.Tags, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateProject = `
UPDATE projects
SET title = $2, description = $3, url = $4, visibility = $5, tags = $6
WHERE id = $1
RETURNING id, title, description, url, visibility, images, tags, created_at
`

type UpdateProjectParams struct {
	ID          uuid.UUID
	Title       string
	Description string
	Url         string
	Visibility  string
	Tags        pqtype.NullRawMessage
}

func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, updateProject,
		arg.ID, arg.Title, arg.Description, arg.Url, arg.Visibility, arg.Tags)
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Url, &p.Visibility, &p.Images, &p.Tags, &p.CreatedAt)
	return p, err
}

const updateProjectImages = `
UPDATE projects
SET images = $2
WHERE id = $1
`

type UpdateProjectImagesParams struct {
	ID     uuid.UUID
	Images pqtype.NullRawMessage
}

func (q *Queries) UpdateProjectImages(ctx context.Context, arg UpdateProjectImagesParams) error {
	_, err := q.db.ExecContext(ctx, updateProjectImages, arg.ID, arg.Images)
	return err
}

const deleteProject = `
DELETE FROM projects WHERE id = $1
`

func (q *Queries) DeleteProject(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteProject, id)
	return err
}

const deleteProjectFrameworks = `
DELETE FROM project_frameworks WHERE project_id = $1
`

const insertProjectFramework = `
INSERT INTO project_frameworks (project_id, framework_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

// SetProjectFrameworks replaces the framework tags on a project. Callers run
// it inside a transaction via WithTx.
func (q *Queries) SetProjectFrameworks(ctx context.Context, projectID uuid.UUID, frameworkIDs []uuid.UUID) error {
	if _, err := q.db.ExecContext(ctx, deleteProjectFrameworks, projectID); err != nil {
		return err
	}
	for _, id := range frameworkIDs {
		if _, err := q.db.ExecContext(ctx, insertProjectFramework, projectID, id); err != nil {
			return err
		}
	}
	return nil
}

const deleteProjectLanguages = `
DELETE FROM project_languages WHERE project_id = $1
`

const insertProjectLanguage = `
INSERT INTO project_languages (project_id, language_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

// SetProjectLanguages replaces the language tags on a project. Callers run it
// inside a transaction via WithTx.
func (q *Queries) SetProjectLanguages(ctx context.Context, projectID uuid.UUID, languageIDs []uuid.UUID) error {
	if _, err := q.db.ExecContext(ctx, deleteProjectLanguages, projectID); err != nil {
		return err
	}
	for _, id := range languageIDs {
		if _, err := q.db.ExecContext(ctx, insertProjectLanguage, projectID, id); err != nil {
			return err
		}
	}
	return nil
}

const listProjectFrameworks = `
SELECT f.id, f.name, f.color, f.created_at
FROM frameworks f
JOIN project_frameworks pf ON pf.framework_id = f.id
WHERE pf.project_id = $1
ORDER BY f.name ASC
`

func (q *Queries) ListProjectFrameworks(ctx context.Context, projectID uuid.UUID) ([]Framework, error) {
	rows, err := q.db.QueryContext(ctx, listProjectFrameworks, projectID)
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

const listProjectLanguages = `
SELECT l.id, l.name, l.color, l.created_at
FROM languages l
JOIN project_languages pl ON pl.language_id = l.id
WHERE pl.project_id = $1
ORDER BY l.name ASC
`

func (q *Queries) ListProjectLanguages(ctx context.Context, projectID uuid.UUID) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx, listProjectLanguages, projectID)
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

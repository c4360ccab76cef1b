// Package service contains the business logic layer.
//
// This file implements the portfolio service: projects, their framework and
// language tags, and project image uploads.
package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/daniel-medina/website/internal/domain"
	"github.com/daniel-medina/website/internal/metrics"
	"github.com/daniel-medina/website/internal/repository"
	"github.com/daniel-medina/website/internal/storage"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// =============================================================================
// Configuration Constants
// =============================================================================

const (
	// MinProjectTitleLength and MaxProjectTitleLength bound project titles.
	MinProjectTitleLength = 1
	MaxProjectTitleLength = 15

	// MinProjectDescriptionLength and MaxProjectDescriptionLength bound
	// project descriptions.
	MinProjectDescriptionLength = 1
	MaxProjectDescriptionLength = 100

	// MinTagNameLength and MaxTagNameLength bound framework and language
	// tag names.
	MinTagNameLength = 1
	MaxTagNameLength = 10

	// imageURLExpiry is how long presigned image URLs stay valid when the
	// storage backend does not serve public URLs.
	imageURLExpiry = 1 * time.Hour
)

// =============================================================================
// Interface Definition
// =============================================================================

// ProjectService defines the interface for portfolio operations.
type ProjectService interface {
	// ListPublic returns projects visible on the public portfolio.
	ListPublic(ctx context.Context) ([]domain.Project, error)

	// List returns every project, for the admin panel.
	List(ctx context.Context) ([]domain.Project, error)

	// GetByID retrieves a project with its tags.
	// Returns domain.ENOTFOUND if the project does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// Create creates a new project and attaches its framework and language
	// tags in one transaction.
	// Returns domain.EINVALID for validation errors.
	Create(ctx context.Context, params domain.CreateProjectParams) (*domain.Project, error)

	// Update rewrites a project and replaces its tags.
	// Returns domain.ENOTFOUND if the project does not exist.
	Update(ctx context.Context, params domain.UpdateProjectParams) (*domain.Project, error)

	// Delete removes a project and its stored images.
	// Returns domain.ENOTFOUND if the project does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// UploadImage stores an uploaded image and its generated thumbnail and
	// records both on the project.
	// Returns domain.EINVALID for unsupported types, domain.ETOOLARGE for
	// oversized uploads, domain.ENOTFOUND if the project does not exist.
	UploadImage(ctx context.Context, projectID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*domain.ProjectImage, error)

	// DeleteImage removes one image (original and thumbnail) from a project.
	// Returns domain.ENOTFOUND if the project or image does not exist.
	DeleteImage(ctx context.Context, projectID, imageID uuid.UUID) error

	// ImageURL resolves a storage key to a servable URL.
	ImageURL(ctx context.Context, key string) (string, error)

	// CreateFramework creates a framework tag.
	// Returns domain.EINVALID for bad names or colors, domain.ECONFLICT when
	// the name is taken.
	CreateFramework(ctx context.Context, params domain.CreateTagParams) (*domain.Framework, error)

	// ListFrameworks returns all framework tags ordered by name.
	ListFrameworks(ctx context.Context) ([]domain.Framework, error)

	// DeleteFramework removes a framework tag.
	// Returns domain.ENOTFOUND if the tag does not exist.
	DeleteFramework(ctx context.Context, id uuid.UUID) error

	// CreateLanguage creates a language tag.
	CreateLanguage(ctx context.Context, params domain.CreateTagParams) (*domain.Language, error)

	// ListLanguages returns all language tags ordered by name.
	ListLanguages(ctx context.Context) ([]domain.Language, error)

	// DeleteLanguage removes a language tag.
	DeleteLanguage(ctx context.Context, id uuid.UUID) error
}

// =============================================================================
// Implementation
// =============================================================================

// projectService is the concrete implementation of ProjectService.
type projectService struct {
	db                 *sql.DB
	queries            *repository.Queries
	storage            storage.Storage
	thumbnailProcessor ThumbnailProcessor
	logger             *slog.Logger
}

// NewProjectService creates a new ProjectService.
//
// The *sql.DB is needed alongside the queries because tag replacement runs
// in a transaction.
func NewProjectService(
	db *sql.DB,
	queries *repository.Queries,
	store storage.Storage,
	thumbnailProcessor ThumbnailProcessor,
	logger *slog.Logger,
) ProjectService {
	return &projectService{
		db:                 db,
		queries:            queries,
		storage:            store,
		thumbnailProcessor: thumbnailProcessor,
		logger:             logger,
	}
}

// =============================================================================
// Projects
// =============================================================================

// ListPublic returns projects visible on the public portfolio.
func (s *projectService) ListPublic(ctx context.Context) ([]domain.Project, error) {
	const op = "ProjectService.ListPublic"

	rows, err := s.queries.ListPublicProjects(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list projects")
	}
	return s.rowsToProjects(ctx, rows)
}

// List returns every project.
func (s *projectService) List(ctx context.Context) ([]domain.Project, error) {
	const op = "ProjectService.List"

	rows, err := s.queries.ListProjects(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list projects")
	}
	return s.rowsToProjects(ctx, rows)
}

// GetByID retrieves a project with its tags.
func (s *projectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	const op = "ProjectService.GetByID"

	row, err := s.queries.GetProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "project", id.String())
		}
		return nil, domain.Internal(err, op, "Failed to retrieve project")
	}
	return s.loadProject(ctx, row)
}

// Create creates a new project and attaches its tags.
func (s *projectService) Create(ctx context.Context, params domain.CreateProjectParams) (*domain.Project, error) {
	const op = "ProjectService.Create"

	params.Title = strings.TrimSpace(params.Title)
	params.Description = strings.TrimSpace(params.Description)

	if err := validateProject(params.Title, params.Description, params.Visibility); err != nil {
		return nil, err
	}

	tags, err := encodeTags(params.Tags)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to encode tags")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to begin transaction")
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	row, err := qtx.CreateProject(ctx, repository.CreateProjectParams{
		Title:       params.Title,
		Description: params.Description,
		Url:         params.URL,
		Visibility:  string(params.Visibility),
		Images:      pqtype.NullRawMessage{RawMessage: json.RawMessage(`[]`), Valid: true},
		Tags:        tags,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to create project")
	}

	if err := qtx.SetProjectFrameworks(ctx, row.ID, params.FrameworkIDs); err != nil {
		return nil, domain.Internal(err, op, "Failed to attach frameworks")
	}
	if err := qtx.SetProjectLanguages(ctx, row.ID, params.LanguageIDs); err != nil {
		return nil, domain.Internal(err, op, "Failed to attach languages")
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.Internal(err, op, "Failed to commit transaction")
	}

	metrics.ProjectsCreated.Inc()

	s.logger.Info("project created", "project_id", row.ID, "title", row.Title)

	return s.loadProject(ctx, row)
}

// Update rewrites a project and replaces its tags.
func (s *projectService) Update(ctx context.Context, params domain.UpdateProjectParams) (*domain.Project, error) {
	const op = "ProjectService.Update"

	params.Title = strings.TrimSpace(params.Title)
	params.Description = strings.TrimSpace(params.Description)

	if err := validateProject(params.Title, params.Description, params.Visibility); err != nil {
		return nil, err
	}

	tags, err := encodeTags(params.Tags)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to encode tags")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to begin transaction")
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	row, err := qtx.UpdateProject(ctx, repository.UpdateProjectParams{
		ID:          params.ID,
		Title:       params.Title,
		Description: params.Description,
		Url:         params.URL,
		Visibility:  string(params.Visibility),
		Tags:        tags,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "project", params.ID.String())
		}
		return nil, domain.Internal(err, op, "Failed to update project")
	}

	if err := qtx.SetProjectFrameworks(ctx, row.ID, params.FrameworkIDs); err != nil {
		return nil, domain.Internal(err, op, "Failed to replace frameworks")
	}
	if err := qtx.SetProjectLanguages(ctx, row.ID, params.LanguageIDs); err != nil {
		return nil, domain.Internal(err, op, "Failed to replace languages")
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.Internal(err, op, "Failed to commit transaction")
	}

	s.logger.Info("project updated", "project_id", row.ID, "title", row.Title)

	return s.loadProject(ctx, row)
}

// Delete removes a project and its stored images.
func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "ProjectService.Delete"

	row, err := s.queries.GetProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "project", id.String())
		}
		return domain.Internal(err, op, "Failed to retrieve project")
	}

	images, err := decodeImages(row.Images)
	if err != nil {
		return domain.Internal(err, op, "Failed to decode project images")
	}

	if err := s.queries.DeleteProject(ctx, id); err != nil {
		return domain.Internal(err, op, "Failed to delete project")
	}

	// Storage cleanup happens after the row is gone; a failed delete leaves
	// an orphaned object, not a dangling reference
	for _, img := range images {
		if err := s.storage.Delete(ctx, img.OriginalKey); err != nil {
			s.logger.Warn("failed to delete project image", "key", img.OriginalKey, "error", err)
		}
		if err := s.storage.Delete(ctx, img.ThumbnailKey); err != nil {
			s.logger.Warn("failed to delete project thumbnail", "key", img.ThumbnailKey, "error", err)
		}
	}

	s.logger.Info("project deleted", "project_id", id)

	return nil
}

// =============================================================================
// Images
// =============================================================================

// UploadImage stores an uploaded image and its generated thumbnail.
func (s *projectService) UploadImage(ctx context.Context, projectID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*domain.ProjectImage, error) {
	const op = "ProjectService.UploadImage"

	row, err := s.queries.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "project", projectID.String())
		}
		return nil, domain.Internal(err, op, "Failed to retrieve project")
	}

	if err := domain.ValidateImageSize(header.Size); err != nil {
		metrics.ImagesUploaded.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// Sniff the content type from the first bytes rather than trusting the
	// client-provided header
	headerBytes := make([]byte, 512)
	n, err := file.Read(headerBytes)
	if err != nil && err != io.EOF {
		return nil, domain.Internal(err, op, "Failed to read file header")
	}
	contentType := http.DetectContentType(headerBytes[:n])

	if !domain.IsValidImageContentType(contentType) {
		metrics.ImagesUploaded.WithLabelValues("rejected").Inc()
		return nil, domain.Invalid(op, fmt.Sprintf("Unsupported image type: %s. Only JPEG and PNG are supported.", contentType))
	}

	if seeker, ok := file.(io.Seeker); ok {
		if _, err := seeker.Seek(0, 0); err != nil {
			return nil, domain.Internal(err, op, "Failed to reset file pointer")
		}
	}

	fileData, err := io.ReadAll(file)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to read file data")
	}

	thumbnailBytes, width, height, err := s.thumbnailProcessor.GenerateThumbnail(
		bytes.NewReader(fileData),
		domain.ThumbnailMaxWidth,
		domain.ThumbnailMaxHeight,
	)
	if err != nil {
		metrics.ImagesUploaded.WithLabelValues("failed").Inc()
		return nil, domain.Internal(err, op, "Failed to generate thumbnail")
	}

	imageID := uuid.New()
	originalKey := storage.ProjectImageKey(projectID, imageID, header.Filename)
	thumbnailKey := storage.ProjectThumbnailKey(projectID, imageID)

	if err := s.storage.Put(ctx, originalKey, bytes.NewReader(fileData), storage.PutOptions{
		ContentType: contentType,
		MaxSize:     domain.MaxImageSize,
		Overwrite:   false,
		Public:      true,
	}); err != nil {
		metrics.ImagesUploaded.WithLabelValues("failed").Inc()
		return nil, domain.Internal(err, op, "Failed to upload image")
	}

	if err := s.storage.Put(ctx, thumbnailKey, bytes.NewReader(thumbnailBytes), storage.PutOptions{
		ContentType: "image/jpeg",
		Overwrite:   false,
		Public:      true,
	}); err != nil {
		_ = s.storage.Delete(ctx, originalKey)
		metrics.ImagesUploaded.WithLabelValues("failed").Inc()
		return nil, domain.Internal(err, op, "Failed to upload thumbnail")
	}

	image := domain.ProjectImage{
		ID:           imageID,
		OriginalKey:  originalKey,
		ThumbnailKey: thumbnailKey,
		ContentType:  contentType,
		Size:         header.Size,
		Width:        width,
		Height:       height,
		UploadedAt:   time.Now(),
	}

	images, err := decodeImages(row.Images)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to decode project images")
	}
	images = append(images, image)

	if err := s.saveImages(ctx, projectID, images); err != nil {
		_ = s.storage.Delete(ctx, originalKey)
		_ = s.storage.Delete(ctx, thumbnailKey)
		metrics.ImagesUploaded.WithLabelValues("failed").Inc()
		return nil, domain.Internal(err, op, "Failed to record image")
	}

	metrics.ImagesUploaded.WithLabelValues("success").Inc()

	s.logger.Info("project image uploaded",
		"project_id", projectID,
		"image_id", imageID,
		"content_type", contentType,
		"size", header.Size,
	)

	return &image, nil
}

// DeleteImage removes one image (original and thumbnail) from a project.
func (s *projectService) DeleteImage(ctx context.Context, projectID, imageID uuid.UUID) error {
	const op = "ProjectService.DeleteImage"

	row, err := s.queries.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "project", projectID.String())
		}
		return domain.Internal(err, op, "Failed to retrieve project")
	}

	images, err := decodeImages(row.Images)
	if err != nil {
		return domain.Internal(err, op, "Failed to decode project images")
	}

	var removed *domain.ProjectImage
	kept := make([]domain.ProjectImage, 0, len(images))
	for _, img := range images {
		if img.ID == imageID {
			removed = &img
			continue
		}
		kept = append(kept, img)
	}
	if removed == nil {
		return domain.NotFound(op, "image", imageID.String())
	}

	if err := s.saveImages(ctx, projectID, kept); err != nil {
		return domain.Internal(err, op, "Failed to record image removal")
	}

	if err := s.storage.Delete(ctx, removed.OriginalKey); err != nil {
		s.logger.Warn("failed to delete project image", "key", removed.OriginalKey, "error", err)
	}
	if err := s.storage.Delete(ctx, removed.ThumbnailKey); err != nil {
		s.logger.Warn("failed to delete project thumbnail", "key", removed.ThumbnailKey, "error", err)
	}

	s.logger.Info("project image deleted", "project_id", projectID, "image_id", imageID)

	return nil
}

// ImageURL resolves a storage key to a servable URL.
func (s *projectService) ImageURL(ctx context.Context, key string) (string, error) {
	const op = "ProjectService.ImageURL"

	url, err := s.storage.URL(ctx, key, imageURLExpiry)
	if err != nil {
		return "", domain.Internal(err, op, "Failed to resolve image URL")
	}
	return url, nil
}

// =============================================================================
// Frameworks and Languages
// =============================================================================

// CreateFramework creates a framework tag.
func (s *projectService) CreateFramework(ctx context.Context, params domain.CreateTagParams) (*domain.Framework, error) {
	const op = "ProjectService.CreateFramework"

	params.Name = strings.TrimSpace(params.Name)
	if err := validateTag(params.Name, params.Color); err != nil {
		return nil, err
	}

	if _, err := s.queries.GetFrameworkByName(ctx, params.Name); err == nil {
		return nil, domain.Conflict(op, "The framework already exist in the database.")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Internal(err, op, "Failed to check framework name")
	}

	row, err := s.queries.CreateFramework(ctx, repository.CreateFrameworkParams{
		Name:  params.Name,
		Color: string(params.Color),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "The framework already exist in the database.")
		}
		return nil, domain.Internal(err, op, "Failed to create framework")
	}

	s.logger.Info("framework created", "framework_id", row.ID, "name", row.Name)

	framework := repoFrameworkToDomain(row)
	return &framework, nil
}

// ListFrameworks returns all framework tags ordered by name.
func (s *projectService) ListFrameworks(ctx context.Context) ([]domain.Framework, error) {
	const op = "ProjectService.ListFrameworks"

	rows, err := s.queries.ListFrameworks(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list frameworks")
	}

	frameworks := make([]domain.Framework, 0, len(rows))
	for _, f := range rows {
		frameworks = append(frameworks, repoFrameworkToDomain(f))
	}
	return frameworks, nil
}

// DeleteFramework removes a framework tag.
func (s *projectService) DeleteFramework(ctx context.Context, id uuid.UUID) error {
	const op = "ProjectService.DeleteFramework"

	if _, err := s.queries.GetFrameworkByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "framework", id.String())
		}
		return domain.Internal(err, op, "Failed to retrieve framework")
	}

	if err := s.queries.DeleteFramework(ctx, id); err != nil {
		return domain.Internal(err, op, "Failed to delete framework")
	}

	s.logger.Info("framework deleted", "framework_id", id)

	return nil
}

// CreateLanguage creates a language tag.
func (s *projectService) CreateLanguage(ctx context.Context, params domain.CreateTagParams) (*domain.Language, error) {
	const op = "ProjectService.CreateLanguage"

	params.Name = strings.TrimSpace(params.Name)
	if err := validateTag(params.Name, params.Color); err != nil {
		return nil, err
	}

	if _, err := s.queries.GetLanguageByName(ctx, params.Name); err == nil {
		return nil, domain.Conflict(op, "The language already exist in the database.")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Internal(err, op, "Failed to check language name")
	}

	row, err := s.queries.CreateLanguage(ctx, repository.CreateLanguageParams{
		Name:  params.Name,
		Color: string(params.Color),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict(op, "The language already exist in the database.")
		}
		return nil, domain.Internal(err, op, "Failed to create language")
	}

	s.logger.Info("language created", "language_id", row.ID, "name", row.Name)

	language := repoLanguageToDomain(row)
	return &language, nil
}

// ListLanguages returns all language tags ordered by name.
func (s *projectService) ListLanguages(ctx context.Context) ([]domain.Language, error) {
	const op = "ProjectService.ListLanguages"

	rows, err := s.queries.ListLanguages(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list languages")
	}

	languages := make([]domain.Language, 0, len(rows))
	for _, l := range rows {
		languages = append(languages, repoLanguageToDomain(l))
	}
	return languages, nil
}

// DeleteLanguage removes a language tag.
func (s *projectService) DeleteLanguage(ctx context.Context, id uuid.UUID) error {
	const op = "ProjectService.DeleteLanguage"

	if _, err := s.queries.GetLanguageByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "language", id.String())
		}
		return domain.Internal(err, op, "Failed to retrieve language")
	}

	if err := s.queries.DeleteLanguage(ctx, id); err != nil {
		return domain.Internal(err, op, "Failed to delete language")
	}

	s.logger.Info("language deleted", "language_id", id)

	return nil
}

// =============================================================================
// Validation
// =============================================================================

// validateProject checks project title, description and visibility bounds.
func validateProject(title, description string, visibility domain.Visibility) error {
	const op = "ProjectService.validateProject"

	if len(title) < MinProjectTitleLength || len(title) > MaxProjectTitleLength {
		return domain.Invalid(op, fmt.Sprintf("The title must be between %d and %d characters.", MinProjectTitleLength, MaxProjectTitleLength))
	}
	if len(description) < MinProjectDescriptionLength || len(description) > MaxProjectDescriptionLength {
		return domain.Invalid(op, fmt.Sprintf("The description must be between %d and %d characters.", MinProjectDescriptionLength, MaxProjectDescriptionLength))
	}
	if visibility != domain.VisibilityPublic && visibility != domain.VisibilityPrivate {
		return domain.Invalid(op, "The visibility must be either public or private.")
	}
	return nil
}

// validateTag checks framework and language name and color bounds.
func validateTag(name string, color domain.TagColor) error {
	const op = "ProjectService.validateTag"

	if len(name) < MinTagNameLength || len(name) > MaxTagNameLength {
		return domain.Invalid(op, fmt.Sprintf("The name must be between %d and %d characters.", MinTagNameLength, MaxTagNameLength))
	}
	if !domain.IsValidTagColor(string(color)) {
		return domain.Invalid(op, "The selected color isn't part of the palette.")
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// loadProject converts a project row and attaches its tag lists.
func (s *projectService) loadProject(ctx context.Context, row repository.Project) (*domain.Project, error) {
	const op = "ProjectService.loadProject"

	project, err := repoProjectToDomain(row)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to decode project")
	}

	frameworks, err := s.queries.ListProjectFrameworks(ctx, row.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list project frameworks")
	}
	for _, f := range frameworks {
		project.Frameworks = append(project.Frameworks, repoFrameworkToDomain(f))
	}

	languages, err := s.queries.ListProjectLanguages(ctx, row.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list project languages")
	}
	for _, l := range languages {
		project.Languages = append(project.Languages, repoLanguageToDomain(l))
	}

	return project, nil
}

// rowsToProjects converts a list of project rows with their tags.
func (s *projectService) rowsToProjects(ctx context.Context, rows []repository.Project) ([]domain.Project, error) {
	projects := make([]domain.Project, 0, len(rows))
	for _, row := range rows {
		project, err := s.loadProject(ctx, row)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, nil
}

// saveImages writes the image list back to the project row.
func (s *projectService) saveImages(ctx context.Context, projectID uuid.UUID, images []domain.ProjectImage) error {
	raw, err := json.Marshal(images)
	if err != nil {
		return err
	}
	return s.queries.UpdateProjectImages(ctx, repository.UpdateProjectImagesParams{
		ID:     projectID,
		Images: pqtype.NullRawMessage{RawMessage: raw, Valid: true},
	})
}

// encodeTags packs the free-form tag list for the jsonb column.
func encodeTags(tags []string) (pqtype.NullRawMessage, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return pqtype.NullRawMessage{}, err
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}

// decodeImages unpacks the JSON image list stored on a project row.
func decodeImages(raw pqtype.NullRawMessage) ([]domain.ProjectImage, error) {
	if !raw.Valid || len(raw.RawMessage) == 0 {
		return nil, nil
	}
	var images []domain.ProjectImage
	if err := json.Unmarshal(raw.RawMessage, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// repoProjectToDomain converts a repository.Project to domain.Project.
// Tag lists are attached separately by loadProject.
func repoProjectToDomain(row repository.Project) (*domain.Project, error) {
	images, err := decodeImages(row.Images)
	if err != nil {
		return nil, err
	}

	var tags []string
	if row.Tags.Valid && len(row.Tags.RawMessage) > 0 {
		if err := json.Unmarshal(row.Tags.RawMessage, &tags); err != nil {
			return nil, err
		}
	}

	return &domain.Project{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		URL:         row.Url,
		Visibility:  domain.Visibility(row.Visibility),
		Images:      images,
		Tags:        tags,
		CreatedAt:   row.CreatedAt,
	}, nil
}

// repoFrameworkToDomain converts a repository.Framework to domain.Framework.
func repoFrameworkToDomain(f repository.Framework) domain.Framework {
	return domain.Framework{
		ID:        f.ID,
		Name:      f.Name,
		Color:     domain.TagColor(f.Color),
		CreatedAt: f.CreatedAt,
	}
}

// repoLanguageToDomain converts a repository.Language to domain.Language.
func repoLanguageToDomain(l repository.Language) domain.Language {
	return domain.Language{
		ID:        l.ID,
		Name:      l.Name,
		Color:     domain.TagColor(l.Color),
		CreatedAt: l.CreatedAt,
	}
}

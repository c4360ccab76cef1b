package domain

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls whether a project appears on the public portfolio.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// TagColor is the fixed palette available for framework and language tags.
type TagColor string

const (
	TagColorBlack  TagColor = "black"
	TagColorGrey   TagColor = "grey"
	TagColorRed    TagColor = "red"
	TagColorOrange TagColor = "orange"
	TagColorGreen  TagColor = "green"
	TagColorPink   TagColor = "pink"
)

// TagColors lists every valid tag color, in display order.
var TagColors = []TagColor{
	TagColorBlack,
	TagColorGrey,
	TagColorRed,
	TagColorOrange,
	TagColorGreen,
	TagColorPink,
}

// IsValidTagColor reports whether color is part of the palette.
func IsValidTagColor(color string) bool {
	for _, c := range TagColors {
		if string(c) == color {
			return true
		}
	}
	return false
}

// Project is a portfolio entry.
type Project struct {
	ID          uuid.UUID
	Title       string
	Description string
	URL         string // external link, optional
	Visibility  Visibility
	Images      []ProjectImage
	Tags        []string
	Frameworks  []Framework
	Languages   []Language
	CreatedAt   time.Time
}

// IsPublic reports whether the project is shown on the public portfolio.
func (p *Project) IsPublic() bool {
	return p.Visibility == VisibilityPublic
}

// ProjectImage describes one uploaded image belonging to a project.
// Keys reference objects in the storage backend.
type ProjectImage struct {
	ID           uuid.UUID `json:"id"`
	OriginalKey  string    `json:"original_key"`
	ThumbnailKey string    `json:"thumbnail_key"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Framework is a framework tag attachable to projects.
type Framework struct {
	ID        uuid.UUID
	Name      string
	Color     TagColor
	CreatedAt time.Time
}

// Language is a programming language tag attachable to projects.
type Language struct {
	ID        uuid.UUID
	Name      string
	Color     TagColor
	CreatedAt time.Time
}

// CreateProjectParams contains validated parameters for creating a project.
type CreateProjectParams struct {
	Title        string
	Description  string
	URL          string
	Visibility   Visibility
	Tags         []string
	FrameworkIDs []uuid.UUID
	LanguageIDs  []uuid.UUID
}

// UpdateProjectParams contains validated parameters for updating a project.
type UpdateProjectParams struct {
	ID           uuid.UUID
	Title        string
	Description  string
	URL          string
	Visibility   Visibility
	Tags         []string
	FrameworkIDs []uuid.UUID
	LanguageIDs  []uuid.UUID
}

// CreateTagParams contains validated parameters for creating a framework or
// language tag.
type CreateTagParams struct {
	Name  string
	Color TagColor
}

// =============================================================================
// Image upload constraints
// =============================================================================

const (
	// MaxImageSize is the upload limit for a single project image (10 MiB).
	MaxImageSize = 10 << 20

	// ThumbnailMaxWidth and ThumbnailMaxHeight bound generated thumbnails.
	ThumbnailMaxWidth  = 400
	ThumbnailMaxHeight = 300

	// ThumbnailJPEGQuality is the JPEG quality used for thumbnails.
	ThumbnailJPEGQuality = 85
)

// validImageContentTypes are the accepted upload content types.
var validImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// IsValidImageContentType reports whether contentType is an accepted
// project image type.
func IsValidImageContentType(contentType string) bool {
	return validImageContentTypes[contentType]
}

// ValidateImageSize returns an EINVALID error if size exceeds MaxImageSize.
func ValidateImageSize(size int64) error {
	if size > MaxImageSize {
		return Errorf(ETOOLARGE, "project.image", "Image exceeds the %d MB upload limit", MaxImageSize>>20)
	}
	return nil
}

package storage

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// DetectContentType determines the MIME type of a file.
//
// Detection priority:
// 1. If providedType is non-empty, use it directly
// 2. Try to detect from file extension using mime.TypeByExtension
// 3. Sniff content from the first 512 bytes of data (if available)
// 4. Fall back to "application/octet-stream"
func DetectContentType(providedType, filename string, data io.Reader) string {
	if providedType != "" {
		return providedType
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	if data != nil {
		// http.DetectContentType looks at up to 512 bytes
		buffer := make([]byte, 512)
		n, err := io.ReadFull(data, buffer)
		if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
			return http.DetectContentType(buffer[:n])
		}
	}

	return "application/octet-stream"
}

// AllowedImageTypes defines the MIME types accepted for project image uploads.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true, // Some systems use this instead of image/jpeg
	"image/png":  true,
}

// IsAllowedImageType checks if a content type is an accepted image format
// for project image uploads.
func IsAllowedImageType(contentType string) bool {
	return AllowedImageTypes[normalize(contentType)]
}

// IsImage returns true if the content type is any image format.
func IsImage(contentType string) bool {
	return strings.HasPrefix(normalize(contentType), "image/")
}

// normalize strips parameters (like charset) and lowercases a content type.
func normalize(contentType string) string {
	baseType := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(baseType))
}

package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileExtension returns the lower-cased extension of name without the dot.
func FileExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(ext, ".")
}

// StoredFileName returns a collision-resistant name for an uploaded file,
// keeping only the original extension. The original name is preserved as
// row metadata, never on disk.
func StoredFileName(originalName string) string {
	ext := FileExtension(originalName)
	if ext == "" {
		return uuid.NewString()
	}
	return uuid.NewString() + "." + ext
}

// EmailLocalPart returns the part of an email address before the '@'.
// Used to derive a display name for default task titles.
func EmailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

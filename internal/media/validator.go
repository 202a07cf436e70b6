// Package media enforces the upload policy: a fixed extension
// allow-list with asymmetric size caps. Photos are expected
// thumbnail-sized, videos short clips, hence the very different limits.
package media

import (
	"fmt"

	"github.com/storeops/rollout-tracker/internal/constants"
	"github.com/storeops/rollout-tracker/internal/utils"
)

// Kind classifies a file by its extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindPhoto
	KindVideo
)

var photoExts = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

var videoExts = map[string]struct{}{
	"mp4": {},
	"mov": {},
	"avi": {},
}

// KindOf returns the media kind for a filename's extension.
func KindOf(filename string) Kind {
	ext := utils.FileExtension(filename)
	if _, ok := photoExts[ext]; ok {
		return KindPhoto
	}
	if _, ok := videoExts[ext]; ok {
		return KindVideo
	}
	return KindUnknown
}

// Policy holds the configurable size caps.
type Policy struct {
	MaxPhotoBytes int64
	MaxVideoBytes int64
}

// DefaultPolicy returns the stock caps: 200KB photos, 100MB videos.
func DefaultPolicy() Policy {
	return Policy{
		MaxPhotoBytes: constants.DefaultMaxPhotoBytes,
		MaxVideoBytes: constants.DefaultMaxVideoBytes,
	}
}

// Validator checks files against a Policy.
type Validator struct {
	policy Policy
}

// NewValidator creates a Validator with the given policy.
func NewValidator(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Validate accepts or rejects one file by name and size. The returned
// error message is safe to surface to the uploader verbatim.
func (v *Validator) Validate(filename string, size int64) error {
	switch KindOf(filename) {
	case KindPhoto:
		if size > v.policy.MaxPhotoBytes {
			return fmt.Errorf("Photo file %s exceeds maximum size of %s", filename, formatBytes(v.policy.MaxPhotoBytes))
		}
	case KindVideo:
		if size > v.policy.MaxVideoBytes {
			return fmt.Errorf("Video file %s exceeds maximum size of %s", filename, formatBytes(v.policy.MaxVideoBytes))
		}
	default:
		return fmt.Errorf("Invalid file type for %s. Allowed: JPG, PNG, MP4, MOV, AVI", filename)
	}
	return nil
}

func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024 && n%(1024*1024) == 0:
		return fmt.Sprintf("%dMB", n/(1024*1024))
	case n >= 1024 && n%1024 == 0:
		return fmt.Sprintf("%dKB", n/1024)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

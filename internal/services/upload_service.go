package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/logger"
	"github.com/storeops/rollout-tracker/internal/media"
	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
	"github.com/storeops/rollout-tracker/internal/utils"
)

// UploadService validates and stores media attached to comments. A
// batch is processed file by file; one bad file never blocks the rest.
type UploadService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	access      *Access
	validator   *media.Validator
	uploadDir   string
}

// NewUploadService creates a new UploadService writing into uploadDir.
func NewUploadService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, access *Access, validator *media.Validator, uploadDir string) *UploadService {
	return &UploadService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		access:      access,
		validator:   validator,
		uploadDir:   uploadDir,
	}
}

// UploadResult reports a batch outcome: what got stored and, per
// rejected or failed file, why.
type UploadResult struct {
	Uploaded []models.MediaFile `json:"uploaded_files"`
	Errors   []string           `json:"errors,omitempty"`
}

// Upload validates each file against the media policy, stores the
// accepted ones under collision-free names and records them against
// the comment.
func (s *UploadService) Upload(user *models.User, commentID uint64, files []*multipart.FileHeader) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, NewValidationError("no files provided")
	}

	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	task, err := s.taskRepo.FindByID(comment.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	allowed, err := s.access.CanAttachToComment(user, comment, task)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	result := &UploadResult{}
	for _, fh := range files {
		if err := s.validator.Validate(fh.Filename, fh.Size); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		stored := utils.StoredFileName(fh.Filename)
		if err := s.saveFile(fh, stored); err != nil {
			logger.L().Error("file store failed",
				zap.String("file", fh.Filename),
				zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to store %s", fh.Filename))
			continue
		}

		mediaFile := models.MediaFile{
			CommentID: commentID,
			FileName:  fh.Filename,
			FilePath:  stored,
			FileType:  utils.FileExtension(fh.Filename),
			FileSize:  fh.Size,
		}
		if err := s.commentRepo.AddMedia(&mediaFile); err != nil {
			logger.L().Error("media record failed",
				zap.String("file", fh.Filename),
				zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to record %s", fh.Filename))
			continue
		}
		result.Uploaded = append(result.Uploaded, mediaFile)
	}

	return result, nil
}

func (s *UploadService) saveFile(fh *multipart.FileHeader, storedName string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.uploadDir, storedName))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

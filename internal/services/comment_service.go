package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
)

var ErrCommentNotFound = errors.New("comment not found")

// CommentService handles the discussion thread under a task.
type CommentService struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	access      *Access
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, access *Access) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		access:      access,
	}
}

// ListForTask returns a task's comments, oldest first, with authors and
// attached media.
func (s *CommentService) ListForTask(user *models.User, taskID uint64) ([]models.Comment, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.access.CanViewTask(user, task)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	return s.commentRepo.ListByTask(taskID)
}

// Create posts a comment on a task.
func (s *CommentService) Create(user *models.User, taskID uint64, text string) (*models.Comment, error) {
	if err := requireField(text, "comment_text"); err != nil {
		return nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.access.CanViewTask(user, task)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	comment := &models.Comment{
		TaskID:      taskID,
		UserID:      user.ID,
		CommentText: text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return s.commentRepo.FindByID(comment.ID, "User")
}

func (s *CommentService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
	"github.com/storeops/rollout-tracker/internal/utils"
)

var (
	ErrTaskNotFound = errors.New("task not found")

	// ErrFieldNotAllowed is returned when a task assignee touches a
	// field reserved for elevated roles.
	ErrFieldNotAllowed = errors.New("field not allowed for this role")
)

// TaskService handles task CRUD with role-dependent field access: an
// assignee may update execution state (status, progress, description,
// site flags, checklist) but not the task's definition (title,
// priority, assignee, due date).
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	access      *Access
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, access *Access) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		access:      access,
	}
}

// CreateTaskInput carries a new-task payload.
type CreateTaskInput struct {
	ProjectID          uint64           `json:"project_id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Status             string           `json:"status"`
	Priority           string           `json:"priority"`
	ProgressPercentage *int             `json:"progress_percentage"`
	AssignedTo         *uint64          `json:"assigned_to"`
	DueDate            string           `json:"due_date"`
	PhotoVideoCapture  *bool            `json:"photo_video_capture"`
	TempConnAvailable  *bool            `json:"temporary_connection_available"`
	Checklist          models.Checklist `json:"checklist"`
}

// UpdateTaskInput carries a partial task update; nil means keep.
type UpdateTaskInput struct {
	Title              *string          `json:"title"`
	Description        *string          `json:"description"`
	Status             *string          `json:"status"`
	Priority           *string          `json:"priority"`
	ProgressPercentage *int             `json:"progress_percentage"`
	AssignedTo         *uint64          `json:"assigned_to"`
	DueDate            *string          `json:"due_date"`
	PhotoVideoCapture  *bool            `json:"photo_video_capture"`
	TempConnAvailable  *bool            `json:"temporary_connection_available"`
	Checklist          models.Checklist `json:"checklist"`
}

// List returns the tasks visible to the user: all of them for elevated
// roles, otherwise only tasks assigned to the user.
func (s *TaskService) List(user *models.User) ([]models.Task, error) {
	if user.Role.Elevated() {
		return s.taskRepo.ListAll()
	}
	return s.taskRepo.ListForAssignee(user.ID)
}

// ListByProject returns a project's tasks, after the project-level
// existence and access checks.
func (s *TaskService) ListByProject(user *models.User, projectID uint64) ([]models.Task, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	allowed, err := s.access.CanViewProject(user, projectID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	return s.taskRepo.ListByProject(projectID)
}

// Get returns one task with its relations.
func (s *TaskService) Get(user *models.User, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, "Project", "Assignee", "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	allowed, err := s.access.CanViewTask(user, task)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	return task, nil
}

// Create inserts a task. Elevated roles only.
func (s *TaskService) Create(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if !actor.Role.Elevated() {
		return nil, ErrPermissionDenied
	}
	if err := requireField(input.Title, "title"); err != nil {
		return nil, err
	}
	if input.ProjectID == 0 {
		return nil, NewValidationError("field 'project_id' is required")
	}
	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("project %d does not exist", input.ProjectID)
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if input.AssignedTo != nil {
		if _, err := s.userRepo.FindByID(*input.AssignedTo); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("assigned user %d does not exist", *input.AssignedTo)
			}
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
	}

	checklist := input.Checklist
	if checklist == nil {
		checklist = models.Checklist{}
	}
	if err := checklist.Validate(); err != nil {
		return nil, NewValidationError("%v", err)
	}

	task := &models.Task{
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   &actor.ID,
		Checklist:   checklist,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if input.ProgressPercentage != nil {
		if err := validateProgress(*input.ProgressPercentage); err != nil {
			return nil, err
		}
		task.ProgressPercentage = *input.ProgressPercentage
	}
	if input.PhotoVideoCapture != nil {
		task.PhotoVideoCapture = *input.PhotoVideoCapture
	}
	if input.TempConnAvailable != nil {
		task.TemporaryConnectionAvailable = *input.TempConnAvailable
	}
	if input.DueDate != "" {
		t, err := utils.ParseDate(input.DueDate)
		if err != nil {
			return nil, NewValidationError("due_date: %v", err)
		}
		task.DueDate = &t
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return s.taskRepo.FindByID(task.ID, "Project", "Assignee", "Creator")
}

// Update applies a partial task update under the field-access rules.
// Elevated roles may change anything; the task's assignee only its
// execution state. Anyone else is denied outright.
func (s *TaskService) Update(actor *models.User, id uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	elevated := actor.Role.Elevated()
	isAssignee := task.AssignedTo != nil && *task.AssignedTo == actor.ID
	if !elevated && !isAssignee {
		return nil, ErrPermissionDenied
	}
	if !elevated {
		if input.Title != nil || input.Priority != nil || input.AssignedTo != nil || input.DueDate != nil {
			return nil, ErrFieldNotAllowed
		}
	}

	if input.Title != nil {
		if err := requireField(*input.Title, "title"); err != nil {
			return nil, err
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ProgressPercentage != nil {
		if err := validateProgress(*input.ProgressPercentage); err != nil {
			return nil, err
		}
		task.ProgressPercentage = *input.ProgressPercentage
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo == 0 {
			task.AssignedTo = nil
		} else {
			if _, err := s.userRepo.FindByID(*input.AssignedTo); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, NewValidationError("assigned user %d does not exist", *input.AssignedTo)
				}
				return nil, fmt.Errorf("failed to find user: %w", err)
			}
			task.AssignedTo = input.AssignedTo
		}
	}
	if input.DueDate != nil {
		if *input.DueDate == "" {
			task.DueDate = nil
		} else {
			t, err := utils.ParseDate(*input.DueDate)
			if err != nil {
				return nil, NewValidationError("due_date: %v", err)
			}
			task.DueDate = &t
		}
	}
	if input.PhotoVideoCapture != nil {
		task.PhotoVideoCapture = *input.PhotoVideoCapture
	}
	if input.TempConnAvailable != nil {
		task.TemporaryConnectionAvailable = *input.TempConnAvailable
	}
	if input.Checklist != nil {
		if err := input.Checklist.Validate(); err != nil {
			return nil, NewValidationError("%v", err)
		}
		task.Checklist = task.Checklist.Merge(input.Checklist)
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.taskRepo.FindByID(id, "Project", "Assignee", "Creator")
}

// Delete removes a task. Admin-class roles only.
func (s *TaskService) Delete(actor *models.User, id uint64) error {
	if !actor.Role.AdminClass() {
		return ErrPermissionDenied
	}
	if err := s.taskRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func validateProgress(pct int) error {
	if pct < 0 || pct > 100 {
		return NewValidationError("progress_percentage must be between 0 and 100")
	}
	return nil
}

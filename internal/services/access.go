package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
)

// Access decides, per role and per ownership fact, whether an identity
// may touch a resource. Role checks are pure; ownership checks consult
// the project assignment table.
//
// Check order is fixed everywhere: existence first (404), then
// authorization (403). A denied caller on an existing resource always
// sees 403, never 404.
type Access struct {
	projectRepo repository.ProjectRepository
}

// NewAccess creates a new Access evaluator.
func NewAccess(projectRepo repository.ProjectRepository) *Access {
	return &Access{projectRepo: projectRepo}
}

// IsProjectMember reports whether the user is assigned to the project.
func (a *Access) IsProjectMember(userID, projectID uint64) (bool, error) {
	_, err := a.projectRepo.FindAssignment(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check project membership: %w", err)
	}
	return true, nil
}

// CanViewProject allows elevated roles, assigned users, and the
// project's creator. The creator check matters after a role downgrade:
// losing elevation must not lock a creator out of their own project.
func (a *Access) CanViewProject(user *models.User, projectID uint64) (bool, error) {
	if user.Role.Elevated() {
		return true, nil
	}
	member, err := a.IsProjectMember(user.ID, projectID)
	if err != nil || member {
		return member, err
	}
	project, err := a.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check project creator: %w", err)
	}
	return project.CreatedBy != nil && *project.CreatedBy == user.ID, nil
}

// CanViewTask allows elevated roles, the task's assignee, the task's
// creator, and members of the task's project.
func (a *Access) CanViewTask(user *models.User, task *models.Task) (bool, error) {
	if user.Role.Elevated() {
		return true, nil
	}
	if task.AssignedTo != nil && *task.AssignedTo == user.ID {
		return true, nil
	}
	if task.CreatedBy != nil && *task.CreatedBy == user.ID {
		return true, nil
	}
	return a.IsProjectMember(user.ID, task.ProjectID)
}

// CanAttachToComment allows elevated roles, the comment's author, and
// anyone who could view the comment's task.
func (a *Access) CanAttachToComment(user *models.User, comment *models.Comment, task *models.Task) (bool, error) {
	if user.Role.Elevated() {
		return true, nil
	}
	if comment.UserID == user.ID {
		return true, nil
	}
	return a.CanViewTask(user, task)
}

package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/models"
)

// ErrDuplicate is returned when an insert or update violates a unique
// constraint (email, project_code, or a (project_id, user_id) pair).
var ErrDuplicate = errors.New("repository: duplicate key")

// isDuplicate recognizes unique-constraint violations across the
// supported drivers. GORM's TranslateError covers postgres and mysql;
// the string checks cover the sqlite driver used in tests.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user; ErrDuplicate on an existing email.
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns all users, newest first
	List() ([]models.User, error)

	// Update saves changed user fields; ErrDuplicate on an email collision.
	Update(user *models.User) error

	// Delete removes a user and their sessions
	Delete(id uint64) error

	// CountExcludingRole counts users outside the given role
	CountExcludingRole(role models.Role) (int64, error)
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Create inserts a new session row
	Create(session *models.Session) error

	// DeleteByToken removes the session with the given token; deleting a
	// missing token is not an error
	DeleteByToken(token string) error

	// FindValidByToken returns the session (with its user) whose token
	// matches and whose expiry is after now. Unknown and expired tokens
	// both yield gorm.ErrRecordNotFound.
	FindValidByToken(token string, now time.Time) (*models.Session, error)
}

// ProjectTaskStats aggregates task progress for one project.
type ProjectTaskStats struct {
	TotalTasks     int64   `json:"total_tasks"`
	AvgProgress    float64 `json:"avg_progress"`
	CompletedTasks int64   `json:"completed_tasks"`
}

// StatusCount is one bucket of a group-by-status aggregate.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ProjectRepository defines the interface for project data access,
// including the transactional create/update of a project together with
// its assignments and documents.
type ProjectRepository interface {
	// CreateWithRelations inserts the project, its assignments and its
	// documents as one transaction. Any failure rolls everything back.
	// A project_code collision yields ErrDuplicate.
	CreateWithRelations(project *models.Project, users []models.ProjectUser, docs []models.ProjectDocument) error

	// UpdateWithRelations saves the project and, where the replace flags
	// are set, replaces the full assignment/document sets wholesale:
	// delete all existing rows, insert the new set. Not a diff.
	UpdateWithRelations(project *models.Project, users []models.ProjectUser, replaceUsers bool, docs []models.ProjectDocument, replaceDocs bool) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListAll returns every project, newest first
	ListAll() ([]models.Project, error)

	// ListForUser returns the projects the user is assigned to
	ListForUser(userID uint64) ([]models.Project, error)

	// Delete removes a project and everything it owns
	Delete(id uint64) error

	// AddAssignment inserts one assignment; ErrDuplicate if the user is
	// already assigned
	AddAssignment(assignment *models.ProjectUser) error

	// FindAssignment finds a specific project assignment
	FindAssignment(projectID, userID uint64) (*models.ProjectUser, error)

	// ListAssignments lists a project's assignments with their users
	ListAssignments(projectID uint64) ([]models.ProjectUser, error)

	// ListDocuments lists a project's documents
	ListDocuments(projectID uint64) ([]models.ProjectDocument, error)

	// TaskStats aggregates task counts and progress for a project
	TaskStats(projectID uint64) (*ProjectTaskStats, error)

	// CountAll counts all projects
	CountAll() (int64, error)

	// CountForUser counts distinct projects the user is assigned to
	CountForUser(userID uint64) (int64, error)

	// StatusBreakdown groups all projects by project_status
	StatusBreakdown() ([]StatusCount, error)

	// RecentProjects returns the most recently created projects
	RecentProjects(limit int) ([]models.Project, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListAll returns every task, newest first
	ListAll() ([]models.Task, error)

	// ListForAssignee returns tasks assigned to the user, newest first
	ListForAssignee(userID uint64) ([]models.Task, error)

	// ListByProject returns a project's tasks, newest first
	ListByProject(projectID uint64) ([]models.Task, error)

	// Update saves a task
	Update(task *models.Task) error

	// Delete removes a task and its comments and media rows
	Delete(id uint64) error

	// CountAll counts all tasks
	CountAll() (int64, error)

	// CountForAssignee counts tasks assigned to the user, optionally
	// restricted to one status (empty status means all)
	CountForAssignee(userID uint64, status string) (int64, error)

	// StatusBreakdownForAssignee groups the user's tasks by status
	StatusBreakdownForAssignee(userID uint64) ([]StatusCount, error)

	// RecentUpdated returns the most recently updated tasks
	RecentUpdated(limit int) ([]models.Task, error)
}

// CommentRepository defines the interface for comment and media data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Comment, error)

	// ListByTask returns a task's comments, oldest first, with their
	// authors and media files
	ListByTask(taskID uint64) ([]models.Comment, error)

	// AddMedia records one uploaded file against a comment
	AddMedia(media *models.MediaFile) error
}

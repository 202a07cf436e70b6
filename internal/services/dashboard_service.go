package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
)

const recentActivityLimit = 10

// DashboardService builds the role-dependent landing-page aggregates.
type DashboardService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) *DashboardService {
	return &DashboardService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// ActivityItem is one entry in the recent-activity feed.
type ActivityItem struct {
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// AdminDashboard is the summary shown to elevated roles.
type AdminDashboard struct {
	TotalProjects          int64                    `json:"total_projects"`
	TotalTasks             int64                    `json:"total_tasks"`
	TotalUsers             int64                    `json:"total_users"`
	ProjectStatusBreakdown []repository.StatusCount `json:"project_status_breakdown"`
	RecentActivities       []ActivityItem           `json:"recent_activities"`
}

// UserDashboard is the summary shown to everyone else.
type UserDashboard struct {
	MyProjectsCount     int64                    `json:"my_projects_count"`
	MyTasksCount        int64                    `json:"my_tasks_count"`
	CompletedTasksCount int64                    `json:"completed_tasks_count"`
	TaskStatusBreakdown []repository.StatusCount `json:"task_status_breakdown"`
}

// Summary returns the dashboard for the user's role: global aggregates
// for elevated roles, personal ones otherwise.
func (s *DashboardService) Summary(user *models.User) (interface{}, error) {
	if user.Role.Elevated() {
		return s.adminSummary()
	}
	return s.userSummary(user)
}

func (s *DashboardService) adminSummary() (*AdminDashboard, error) {
	projects, err := s.projectRepo.CountAll()
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	tasks, err := s.taskRepo.CountAll()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	users, err := s.userRepo.CountExcludingRole(models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	breakdown, err := s.projectRepo.StatusBreakdown()
	if err != nil {
		return nil, fmt.Errorf("failed to break down project statuses: %w", err)
	}
	activities, err := s.recentActivities()
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		TotalProjects:          projects,
		TotalTasks:             tasks,
		TotalUsers:             users,
		ProjectStatusBreakdown: breakdown,
		RecentActivities:       activities,
	}, nil
}

func (s *DashboardService) userSummary(user *models.User) (*UserDashboard, error) {
	projects, err := s.projectRepo.CountForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	tasks, err := s.taskRepo.CountForAssignee(user.ID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	completed, err := s.taskRepo.CountForAssignee(user.ID, models.TaskStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	breakdown, err := s.taskRepo.StatusBreakdownForAssignee(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to break down task statuses: %w", err)
	}

	return &UserDashboard{
		MyProjectsCount:     projects,
		MyTasksCount:        tasks,
		CompletedTasksCount: completed,
		TaskStatusBreakdown: breakdown,
	}, nil
}

// recentActivities merges the latest project creations and task updates
// into one feed, newest first.
func (s *DashboardService) recentActivities() ([]ActivityItem, error) {
	projects, err := s.projectRepo.RecentProjects(recentActivityLimit / 2)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent projects: %w", err)
	}
	tasks, err := s.taskRepo.RecentUpdated(recentActivityLimit / 2)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tasks: %w", err)
	}

	items := make([]ActivityItem, 0, len(projects)+len(tasks))
	for _, p := range projects {
		items = append(items, ActivityItem{
			Type:      "project",
			Name:      p.StoreName,
			Timestamp: p.CreatedAt,
		})
	}
	for _, t := range tasks {
		items = append(items, ActivityItem{
			Type:      "task",
			Name:      t.Title,
			Timestamp: t.UpdatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > recentActivityLimit {
		items = items[:recentActivityLimit]
	}
	return items, nil
}

package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/logger"
	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
	"github.com/storeops/rollout-tracker/internal/utils"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectCodeTaken    = errors.New("project code already in use")
	ErrUserAlreadyAssigned = errors.New("user already assigned to project")
)

// ProjectService coordinates project writes with their assignment and
// document side effects.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	taskRepo    repository.TaskRepository
	access      *Access
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, taskRepo repository.TaskRepository, access *Access) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		access:      access,
	}
}

// AssignedUserInput is one assignment in a project payload.
type AssignedUserInput struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
}

// DocumentInput is one document reference in a project payload.
type DocumentInput struct {
	DocumentName string `json:"document_name"`
	FilePath     string `json:"file_path"`
}

// CreateProjectInput carries a full new-project payload. Dates arrive
// as YYYY-MM-DD strings.
type CreateProjectInput struct {
	StoreCode            string   `json:"store_code"`
	StoreName            string   `json:"store_name"`
	ProjectCode          string   `json:"project_code"`
	Zone                 string   `json:"zone"`
	City                 string   `json:"city"`
	State                string   `json:"state"`
	SiteLatLong          string   `json:"site_lat_long"`
	StoreType            string   `json:"store_type"`
	SiteType             string   `json:"site_type"`
	LLHODate             string   `json:"ll_ho_date"`
	LaunchDate           string   `json:"launch_date"`
	ProjectHandoverDate  string   `json:"project_handover_date"`
	LOIReleaseDate       string   `json:"loi_release_date"`
	TokenReleaseDate     string   `json:"token_release_date"`
	ReceeDate            string   `json:"recee_date"`
	ReceeStatus          string   `json:"recee_status"`
	LOISignedStatus      string   `json:"loi_signed_status"`
	Layout               string   `json:"layout"`
	ProjectStatus        string   `json:"project_status"`
	PropertyAreaSqft     *float64 `json:"property_area_sqft"`
	ActualCarpetAreaSqft *float64 `json:"actual_carpet_area_sqft"`
	Criticality          string   `json:"criticality"`
	Address              string   `json:"address"`
	TokenReleased        string   `json:"token_released"`
	PowerAvailabilityKVA string   `json:"power_availability_kva"`

	AssignedUsers []AssignedUserInput `json:"assigned_users"`
	Documents     []DocumentInput     `json:"documents"`
}

// UpdateProjectInput carries a partial project update; nil means keep.
// A non-nil AssignedUsers or Documents slice replaces the full set,
// including an empty one, which clears it.
type UpdateProjectInput struct {
	StoreCode            *string  `json:"store_code"`
	StoreName            *string  `json:"store_name"`
	ProjectCode          *string  `json:"project_code"`
	Zone                 *string  `json:"zone"`
	City                 *string  `json:"city"`
	State                *string  `json:"state"`
	SiteLatLong          *string  `json:"site_lat_long"`
	StoreType            *string  `json:"store_type"`
	SiteType             *string  `json:"site_type"`
	LLHODate             *string  `json:"ll_ho_date"`
	LaunchDate           *string  `json:"launch_date"`
	ProjectHandoverDate  *string  `json:"project_handover_date"`
	LOIReleaseDate       *string  `json:"loi_release_date"`
	TokenReleaseDate     *string  `json:"token_release_date"`
	ReceeDate            *string  `json:"recee_date"`
	ReceeStatus          *string  `json:"recee_status"`
	LOISignedStatus      *string  `json:"loi_signed_status"`
	Layout               *string  `json:"layout"`
	ProjectStatus        *string  `json:"project_status"`
	PropertyAreaSqft     *float64 `json:"property_area_sqft"`
	ActualCarpetAreaSqft *float64 `json:"actual_carpet_area_sqft"`
	Criticality          *string  `json:"criticality"`
	Address              *string  `json:"address"`
	TokenReleased        *string  `json:"token_released"`
	PowerAvailabilityKVA *string  `json:"power_availability_kva"`

	AssignedUsers *[]AssignedUserInput `json:"assigned_users"`
	Documents     *[]DocumentInput     `json:"documents"`
}

// StatusCounts summarizes a project list for the dashboard strip above
// it. Counts are computed over the same list the caller is shown.
type StatusCounts struct {
	AllProjects       int `json:"all_projects"`
	LLWIP             int `json:"ll_wip"`
	FitoutWIP         int `json:"fitout_wip"`
	Completed         int `json:"completed"`
	LLHODone          int `json:"llho_done"`
	ProjectHOComplete int `json:"project_ho_complete"`
	Launched          int `json:"launched"`
	RecceCompleted    int `json:"recce_completed"`
	LOISigned         int `json:"loi_signed"`
	TokenReleased     int `json:"token_released"`
	SiteTypeBTS       int `json:"site_type_bts"`
	SiteTypeSemiBTS   int `json:"site_type_semi_bts"`
	SiteTypeRTM       int `json:"site_type_rtm"`
	SiteTypeCAndE     int `json:"site_type_c_and_e"`
}

// ProjectList bundles the visible projects with their status counts.
type ProjectList struct {
	Projects     []models.Project `json:"projects"`
	StatusCounts StatusCounts     `json:"status_counts"`
}

// ProjectDetail is one project with its aggregated task stats.
type ProjectDetail struct {
	Project   *models.Project              `json:"project"`
	TaskStats *repository.ProjectTaskStats `json:"task_stats"`
}

// List returns the projects visible to the user. Elevated roles see
// everything; everyone else sees only projects they are assigned to.
func (s *ProjectService) List(user *models.User) (*ProjectList, error) {
	var projects []models.Project
	var err error
	if user.Role.Elevated() {
		projects, err = s.projectRepo.ListAll()
	} else {
		projects, err = s.projectRepo.ListForUser(user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return &ProjectList{
		Projects:     projects,
		StatusCounts: countStatuses(projects),
	}, nil
}

func countStatuses(projects []models.Project) StatusCounts {
	counts := StatusCounts{AllProjects: len(projects)}
	for _, p := range projects {
		switch p.ProjectStatus {
		case "LL WIP":
			counts.LLWIP++
		case "Fitout WIP":
			counts.FitoutWIP++
		case "Completed":
			counts.Completed++
		case "LLHO Done":
			counts.LLHODone++
		case "Project HO Complete":
			counts.ProjectHOComplete++
		case "Launched":
			counts.Launched++
		}
		if p.ReceeStatus == "Completed" {
			counts.RecceCompleted++
		}
		if p.LOISignedStatus == "Yes" {
			counts.LOISigned++
		}
		if p.TokenReleased == "Yes" {
			counts.TokenReleased++
		}
		switch p.SiteType {
		case "BTS":
			counts.SiteTypeBTS++
		case "Semi BTS":
			counts.SiteTypeSemiBTS++
		case "RTM":
			counts.SiteTypeRTM++
		case "C&E":
			counts.SiteTypeCAndE++
		}
	}
	return counts
}

// Get returns one project with its assignments, documents and task
// stats. Existence is checked before authorization, so an unknown ID is
// a not-found for everyone.
func (s *ProjectService) Get(user *models.User, id uint64) (*ProjectDetail, error) {
	project, err := s.projectRepo.FindByID(id, "Creator", "AssignedUsers.User", "Documents")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	allowed, err := s.access.CanViewProject(user, id)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	stats, err := s.projectRepo.TaskStats(id)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate task stats: %w", err)
	}

	return &ProjectDetail{Project: project, TaskStats: stats}, nil
}

// Create inserts a project together with its assignments and documents
// in one transaction, then creates one default task per assigned user.
// The default tasks are best effort and never fail the request.
func (s *ProjectService) Create(actor *models.User, input CreateProjectInput) (*ProjectDetail, error) {
	for _, f := range []struct{ value, name string }{
		{input.StoreCode, "store_code"},
		{input.StoreName, "store_name"},
		{input.ProjectCode, "project_code"},
	} {
		if err := requireField(f.value, f.name); err != nil {
			return nil, err
		}
	}

	status := input.ProjectStatus
	if status == "" {
		status = models.DefaultProjectStatus
	}

	project := &models.Project{
		StoreCode:            input.StoreCode,
		StoreName:            input.StoreName,
		ProjectCode:          input.ProjectCode,
		Zone:                 input.Zone,
		City:                 input.City,
		State:                input.State,
		SiteLatLong:          input.SiteLatLong,
		StoreType:            input.StoreType,
		SiteType:             input.SiteType,
		ReceeStatus:          input.ReceeStatus,
		LOISignedStatus:      input.LOISignedStatus,
		Layout:               input.Layout,
		ProjectStatus:        status,
		PropertyAreaSqft:     input.PropertyAreaSqft,
		ActualCarpetAreaSqft: input.ActualCarpetAreaSqft,
		Criticality:          input.Criticality,
		Address:              input.Address,
		TokenReleased:        input.TokenReleased,
		PowerAvailabilityKVA: input.PowerAvailabilityKVA,
		CreatedBy:            &actor.ID,
	}

	for _, d := range []struct {
		raw  string
		name string
		dst  **time.Time
	}{
		{input.LLHODate, "ll_ho_date", &project.LLHODate},
		{input.LaunchDate, "launch_date", &project.LaunchDate},
		{input.ProjectHandoverDate, "project_handover_date", &project.ProjectHandoverDate},
		{input.LOIReleaseDate, "loi_release_date", &project.LOIReleaseDate},
		{input.TokenReleaseDate, "token_release_date", &project.TokenReleaseDate},
		{input.ReceeDate, "recee_date", &project.ReceeDate},
	} {
		if d.raw == "" {
			continue
		}
		t, err := utils.ParseDate(d.raw)
		if err != nil {
			return nil, NewValidationError("%s: %v", d.name, err)
		}
		*d.dst = &t
	}

	assignments, err := s.buildAssignments(input.AssignedUsers)
	if err != nil {
		return nil, err
	}
	docs := buildDocuments(input.Documents)

	if err := s.projectRepo.CreateWithRelations(project, assignments, docs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProjectCodeTaken
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.createDefaultTasks(project, assignmentUserIDs(assignments))

	return s.Get(actor, project.ID)
}

// Update applies a partial project update. A present assigned_users or
// documents array replaces the stored set wholesale; newly assigned
// users get a default task.
func (s *ProjectService) Update(actor *models.User, id uint64, input UpdateProjectInput) (*ProjectDetail, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&project.StoreCode, input.StoreCode)
	applyString(&project.StoreName, input.StoreName)
	applyString(&project.ProjectCode, input.ProjectCode)
	applyString(&project.Zone, input.Zone)
	applyString(&project.City, input.City)
	applyString(&project.State, input.State)
	applyString(&project.SiteLatLong, input.SiteLatLong)
	applyString(&project.StoreType, input.StoreType)
	applyString(&project.SiteType, input.SiteType)
	applyString(&project.ReceeStatus, input.ReceeStatus)
	applyString(&project.LOISignedStatus, input.LOISignedStatus)
	applyString(&project.Layout, input.Layout)
	applyString(&project.ProjectStatus, input.ProjectStatus)
	applyString(&project.Criticality, input.Criticality)
	applyString(&project.Address, input.Address)
	applyString(&project.TokenReleased, input.TokenReleased)
	applyString(&project.PowerAvailabilityKVA, input.PowerAvailabilityKVA)
	if input.PropertyAreaSqft != nil {
		project.PropertyAreaSqft = input.PropertyAreaSqft
	}
	if input.ActualCarpetAreaSqft != nil {
		project.ActualCarpetAreaSqft = input.ActualCarpetAreaSqft
	}

	for _, d := range []struct {
		raw  *string
		name string
		dst  **time.Time
	}{
		{input.LLHODate, "ll_ho_date", &project.LLHODate},
		{input.LaunchDate, "launch_date", &project.LaunchDate},
		{input.ProjectHandoverDate, "project_handover_date", &project.ProjectHandoverDate},
		{input.LOIReleaseDate, "loi_release_date", &project.LOIReleaseDate},
		{input.TokenReleaseDate, "token_release_date", &project.TokenReleaseDate},
		{input.ReceeDate, "recee_date", &project.ReceeDate},
	} {
		if d.raw == nil {
			continue
		}
		if *d.raw == "" {
			*d.dst = nil
			continue
		}
		t, err := utils.ParseDate(*d.raw)
		if err != nil {
			return nil, NewValidationError("%s: %v", d.name, err)
		}
		*d.dst = &t
	}

	var assignments []models.ProjectUser
	var newlyAssigned []uint64
	replaceUsers := input.AssignedUsers != nil
	if replaceUsers {
		assignments, err = s.buildAssignments(*input.AssignedUsers)
		if err != nil {
			return nil, err
		}
		existing, err := s.projectRepo.ListAssignments(id)
		if err != nil {
			return nil, fmt.Errorf("failed to list assignments: %w", err)
		}
		existingIDs := make(map[uint64]struct{}, len(existing))
		for _, a := range existing {
			existingIDs[a.UserID] = struct{}{}
		}
		for _, a := range assignments {
			if _, ok := existingIDs[a.UserID]; !ok {
				newlyAssigned = append(newlyAssigned, a.UserID)
			}
		}
	}

	var docs []models.ProjectDocument
	replaceDocs := input.Documents != nil
	if replaceDocs {
		docs = buildDocuments(*input.Documents)
	}

	if err := s.projectRepo.UpdateWithRelations(project, assignments, replaceUsers, docs, replaceDocs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProjectCodeTaken
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.createDefaultTasks(project, newlyAssigned)

	return s.Get(actor, id)
}

// Delete removes a project and everything hanging off it.
func (s *ProjectService) Delete(id uint64) error {
	if err := s.projectRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AssignUser adds one user to a project and creates their default task.
func (s *ProjectService) AssignUser(projectID uint64, input AssignedUserInput) (*models.ProjectUser, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	assignments, err := s.buildAssignments([]AssignedUserInput{input})
	if err != nil {
		return nil, err
	}
	assignment := &assignments[0]
	assignment.ProjectID = projectID

	if err := s.projectRepo.AddAssignment(assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyAssigned
		}
		return nil, fmt.Errorf("failed to assign user: %w", err)
	}

	s.createDefaultTasks(project, []uint64{assignment.UserID})

	return assignment, nil
}

// buildAssignments validates each referenced user and normalizes the
// assignment roles.
func (s *ProjectService) buildAssignments(inputs []AssignedUserInput) ([]models.ProjectUser, error) {
	assignments := make([]models.ProjectUser, 0, len(inputs))
	for _, in := range inputs {
		if in.UserID == 0 {
			return nil, NewValidationError("assigned user_id is required")
		}
		if _, err := s.userRepo.FindByID(in.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("assigned user %d does not exist", in.UserID)
			}
			return nil, fmt.Errorf("failed to find user %d: %w", in.UserID, err)
		}
		role := in.Role
		if role == "" {
			role = models.DefaultAssignmentRole
		}
		assignments = append(assignments, models.ProjectUser{
			UserID: in.UserID,
			Role:   role,
		})
	}
	return assignments, nil
}

func buildDocuments(inputs []DocumentInput) []models.ProjectDocument {
	docs := make([]models.ProjectDocument, 0, len(inputs))
	for _, in := range inputs {
		if in.DocumentName == "" {
			continue
		}
		docs = append(docs, models.ProjectDocument{
			DocumentName: in.DocumentName,
			FilePath:     in.FilePath,
		})
	}
	return docs
}

func assignmentUserIDs(assignments []models.ProjectUser) []uint64 {
	ids := make([]uint64, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.UserID)
	}
	return ids
}

// createDefaultTasks creates the "<store> - <user>" starter task for
// each user. Failures are logged and swallowed; the project write has
// already committed.
func (s *ProjectService) createDefaultTasks(project *models.Project, userIDs []uint64) {
	for _, userID := range userIDs {
		uid := userID
		user, err := s.userRepo.FindByID(uid)
		if err != nil {
			logger.L().Warn("default task skipped, user lookup failed",
				zap.Uint64("project_id", project.ID),
				zap.Uint64("user_id", uid),
				zap.Error(err))
			continue
		}
		task := &models.Task{
			ProjectID:   project.ID,
			Title:       fmt.Sprintf("%s - %s", project.StoreName, utils.EmailLocalPart(user.Email)),
			Description: fmt.Sprintf("Default task created for project: %s (%s)", project.StoreName, project.ProjectCode),
			Status:      models.TaskStatusTodo,
			AssignedTo:  &uid,
			CreatedBy:   project.CreatedBy,
			Checklist:   models.Checklist{},
		}
		if err := s.taskRepo.Create(task); err != nil {
			logger.L().Warn("default task creation failed",
				zap.Uint64("project_id", project.ID),
				zap.Uint64("user_id", uid),
				zap.Error(err))
		}
	}
}

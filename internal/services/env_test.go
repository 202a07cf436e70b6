package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/database"
	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
)

// serviceTestEnv wires every service against one in-memory database.
type serviceTestEnv struct {
	db *gorm.DB

	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	commentRepo repository.CommentRepository

	access           *Access
	projectService   *ProjectService
	taskService      *TaskService
	commentService   *CommentService
	dashboardService *DashboardService
}

func setupServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Project{},
		&models.ProjectUser{},
		&models.ProjectDocument{},
		&models.Task{},
		&models.Comment{},
		&models.MediaFile{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	env := &serviceTestEnv{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		projectRepo: repository.NewProjectRepository(db),
		taskRepo:    repository.NewTaskRepository(db),
		commentRepo: repository.NewCommentRepository(db),
	}
	env.access = NewAccess(env.projectRepo)
	env.projectService = NewProjectService(env.projectRepo, env.userRepo, env.taskRepo, env.access)
	env.taskService = NewTaskService(env.taskRepo, env.projectRepo, env.userRepo, env.access)
	env.commentService = NewCommentService(env.commentRepo, env.taskRepo, env.access)
	env.dashboardService = NewDashboardService(env.projectRepo, env.taskRepo, env.userRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return env
}

func (env *serviceTestEnv) seedUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Email:          email,
		PasswordDigest: string(digest),
		Role:           role,
	}
	require.NoError(t, env.userRepo.Create(user))
	return user
}

func (env *serviceTestEnv) seedProject(t *testing.T, actor *models.User, code string, assignees ...*models.User) *ProjectDetail {
	t.Helper()
	input := CreateProjectInput{
		StoreCode:   "ST-" + code,
		StoreName:   "Store " + code,
		ProjectCode: code,
	}
	for _, u := range assignees {
		input.AssignedUsers = append(input.AssignedUsers, AssignedUserInput{UserID: u.ID})
	}
	detail, err := env.projectService.Create(actor, input)
	require.NoError(t, err)
	return detail
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/constants"
	"github.com/storeops/rollout-tracker/internal/database"
	"github.com/storeops/rollout-tracker/internal/media"
	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
	"github.com/storeops/rollout-tracker/internal/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type handlerTestEnv struct {
	db     *gorm.DB
	router *gin.Engine

	userService *services.UserService
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	uploadDir   string
}

func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
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

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	access := services.NewAccess(projectRepo)
	authService := services.NewAuthService(userRepo, sessionRepo, constants.DefaultSessionLifetime)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, taskRepo, access)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, access)
	commentService := services.NewCommentService(commentRepo, taskRepo, access)
	uploadDir := t.TempDir()
	validator := media.NewValidator(media.DefaultPolicy())
	uploadService := services.NewUploadService(commentRepo, taskRepo, access, validator, uploadDir)
	dashboardService := services.NewDashboardService(projectRepo, taskRepo, userRepo)

	router := NewRouter(Handlers{
		AuthService: authService,
		Auth:        NewAuthHandler(authService),
		Users:       NewUserHandler(userService),
		Projects:    NewProjectHandler(projectService, taskService),
		Tasks:       NewTaskHandler(taskService, commentService),
		Uploads:     NewUploadHandler(uploadService),
		Dashboard:   NewDashboardHandler(dashboardService),
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &handlerTestEnv{
		db:          db,
		router:      router,
		userService: userService,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		uploadDir:   uploadDir,
	}
}

func (env *handlerTestEnv) createUser(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()
	user, err := env.userService.Create(services.CreateUserInput{
		Email:    email,
		Password: password,
		Role:     string(role),
	})
	require.NoError(t, err)
	return user
}

// login runs the real login endpoint and returns the bearer token.
func (env *handlerTestEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	w := env.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (env *handlerTestEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

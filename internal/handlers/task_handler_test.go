package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/services"
)

func (env *handlerTestEnv) createProjectWithTask(t *testing.T, adminToken string, assignee *models.User) (uint64, uint64) {
	t.Helper()

	w := env.request(t, http.MethodPost, "/api/projects", adminToken, map[string]interface{}{
		"store_code":   "ST-1",
		"store_name":   "One",
		"project_code": "PX-001",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var detail services.ProjectDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))

	payload := map[string]interface{}{
		"project_id": detail.Project.ID,
		"title":      "Electrical fit-out",
		"priority":   "High",
	}
	if assignee != nil {
		payload["assigned_to"] = assignee.ID
	}
	w = env.request(t, http.MethodPost, "/api/tasks", adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	return detail.Project.ID, task.ID
}

func TestTaskUpdateFieldGating(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "admin@example.com", "supersecret", models.RoleAdmin)
	assignee := env.createUser(t, "ground@example.com", "supersecret", models.RoleGroundTeam)

	adminToken := env.login(t, "admin@example.com", "supersecret")
	groundToken := env.login(t, "ground@example.com", "supersecret")

	_, taskID := env.createProjectWithTask(t, adminToken, assignee)
	path := fmt.Sprintf("/api/tasks/%d", taskID)

	// Execution-state fields are open to the assignee.
	w := env.request(t, http.MethodPut, path, groundToken, map[string]interface{}{
		"status":              "In Progress",
		"progress_percentage": 30,
		"photo_video_capture": true,
		"checklist": map[string]string{
			"flooring_concrete_status": "Done",
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "In Progress", updated.Status)
	require.True(t, updated.PhotoVideoCapture)

	// Definition fields are not.
	w = env.request(t, http.MethodPut, path, groundToken, map[string]interface{}{
		"title": "Hijacked",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// An unknown checklist field is rejected outright.
	w = env.request(t, http.MethodPut, path, groundToken, map[string]interface{}{
		"checklist": map[string]string{"made_up_field": "x"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The admin may rename.
	w = env.request(t, http.MethodPut, path, adminToken, map[string]interface{}{
		"title": "Renamed",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTaskVisibility(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "admin@example.com", "supersecret", models.RoleAdmin)
	assignee := env.createUser(t, "ground@example.com", "supersecret", models.RoleGroundTeam)
	env.createUser(t, "outsider@example.com", "supersecret", models.RoleNormalUser)

	adminToken := env.login(t, "admin@example.com", "supersecret")
	groundToken := env.login(t, "ground@example.com", "supersecret")
	outsiderToken := env.login(t, "outsider@example.com", "supersecret")

	projectID, taskID := env.createProjectWithTask(t, adminToken, assignee)

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", taskID), groundToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", taskID), outsiderToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, "/api/tasks/9999", outsiderToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// The project task list follows project access.
	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/tasks", projectID), outsiderToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/tasks", projectID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCommentThread(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "admin@example.com", "supersecret", models.RoleAdmin)
	assignee := env.createUser(t, "ground@example.com", "supersecret", models.RoleGroundTeam)

	adminToken := env.login(t, "admin@example.com", "supersecret")
	groundToken := env.login(t, "ground@example.com", "supersecret")

	_, taskID := env.createProjectWithTask(t, adminToken, assignee)
	path := fmt.Sprintf("/api/tasks/%d/comments", taskID)

	w := env.request(t, http.MethodPost, path, groundToken, map[string]string{
		"comment_text": "Flooring done, photos to follow",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.request(t, http.MethodPost, path, groundToken, map[string]string{
		"comment_text": "",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodGet, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Comments []models.Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comments, 1)
	require.Equal(t, assignee.ID, resp.Comments[0].UserID)
}

func TestCommentFlatRoutes(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "admin@example.com", "supersecret", models.RoleAdmin)
	assignee := env.createUser(t, "ground@example.com", "supersecret", models.RoleGroundTeam)

	adminToken := env.login(t, "admin@example.com", "supersecret")

	_, taskID := env.createProjectWithTask(t, adminToken, assignee)

	w := env.request(t, http.MethodPost, "/api/comments", adminToken, map[string]interface{}{
		"task_id":      taskID,
		"comment_text": "Checked site access",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.request(t, http.MethodPost, "/api/comments", adminToken, map[string]interface{}{
		"comment_text": "missing task",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/comments?task_id=%d", taskID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Comments []models.Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comments, 1)

	w = env.request(t, http.MethodGet, "/api/comments", adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardShapes(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "admin@example.com", "supersecret", models.RoleAdmin)
	assignee := env.createUser(t, "ground@example.com", "supersecret", models.RoleGroundTeam)

	adminToken := env.login(t, "admin@example.com", "supersecret")
	groundToken := env.login(t, "ground@example.com", "supersecret")

	env.createProjectWithTask(t, adminToken, assignee)

	w := env.request(t, http.MethodGet, "/api/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "total_projects")
	require.Contains(t, w.Body.String(), "recent_activities")

	w = env.request(t, http.MethodGet, "/api/dashboard", groundToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "my_tasks_count")
	require.NotContains(t, w.Body.String(), "total_users")
}

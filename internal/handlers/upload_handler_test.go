package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/services"
)

func (env *handlerTestEnv) uploadFiles(t *testing.T, token string, commentID uint64, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile("media", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/comments/%d/media", commentID), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestMediaUploadBatch(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "admin@example.com", "supersecret", models.RoleAdmin)
	assignee := env.createUser(t, "ground@example.com", "supersecret", models.RoleGroundTeam)

	adminToken := env.login(t, "admin@example.com", "supersecret")
	groundToken := env.login(t, "ground@example.com", "supersecret")

	_, taskID := env.createProjectWithTask(t, adminToken, assignee)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/comments", taskID), groundToken, map[string]string{
		"comment_text": "Site photos attached",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var comment models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))

	// Mixed batch: one valid photo, one oversized photo, one disallowed
	// type. The valid one lands; the others are reported individually.
	w = env.uploadFiles(t, groundToken, comment.ID, map[string][]byte{
		"site.jpg":  bytes.Repeat([]byte("x"), 50*1024),
		"huge.png":  bytes.Repeat([]byte("x"), 250*1024),
		"notes.txt": []byte("not media"),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result services.UploadResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Uploaded, 1)
	require.Equal(t, "site.jpg", result.Uploaded[0].FileName)
	require.Len(t, result.Errors, 2)

	// An all-rejected batch is still a 201; the outcome lives in the
	// body, not the status.
	w = env.uploadFiles(t, groundToken, comment.ID, map[string][]byte{
		"malware.exe": []byte("nope"),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result = services.UploadResult{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Empty(t, result.Uploaded)
	require.Len(t, result.Errors, 1)

	// The thread now shows the stored file.
	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d/comments", taskID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Comments []models.Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comments, 1)
	require.Len(t, resp.Comments[0].MediaFiles, 1)
}

func TestMediaUploadFlatRoute(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "admin@example.com", "supersecret", models.RoleAdmin)
	assignee := env.createUser(t, "ground@example.com", "supersecret", models.RoleGroundTeam)

	adminToken := env.login(t, "admin@example.com", "supersecret")
	groundToken := env.login(t, "ground@example.com", "supersecret")

	_, taskID := env.createProjectWithTask(t, adminToken, assignee)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/comments", taskID), groundToken, map[string]string{
		"comment_text": "Panel install shots",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var comment models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("comment_id", fmt.Sprintf("%d", comment.ID)))
	part, err := writer.CreateFormFile("media", "panel.jpg")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("x"), 10*1024))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+groundToken)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result services.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Uploaded, 1)

	// Missing comment_id is a 400, not a panic or a 404.
	var empty bytes.Buffer
	w2 := multipart.NewWriter(&empty)
	p, err := w2.CreateFormFile("media", "x.jpg")
	require.NoError(t, err)
	_, err = p.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w2.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/upload", &empty)
	req.Header.Set("Content-Type", w2.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+groundToken)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMediaUploadAuthorization(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "admin@example.com", "supersecret", models.RoleAdmin)
	assignee := env.createUser(t, "ground@example.com", "supersecret", models.RoleGroundTeam)
	env.createUser(t, "outsider@example.com", "supersecret", models.RoleNormalUser)

	adminToken := env.login(t, "admin@example.com", "supersecret")
	groundToken := env.login(t, "ground@example.com", "supersecret")
	outsiderToken := env.login(t, "outsider@example.com", "supersecret")

	_, taskID := env.createProjectWithTask(t, adminToken, assignee)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/tasks/%d/comments", taskID), groundToken, map[string]string{
		"comment_text": "Mine",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var comment models.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comment))

	w = env.uploadFiles(t, outsiderToken, comment.ID, map[string][]byte{
		"site.jpg": []byte("x"),
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.uploadFiles(t, groundToken, 9999, map[string][]byte{
		"site.jpg": []byte("x"),
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

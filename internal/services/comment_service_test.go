package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storeops/rollout-tracker/internal/models"
)

func TestCommentService_CreateAndList(t *testing.T) {
	env := setupServiceTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin)
	assignee := env.seedUser(t, "assignee@example.com", models.RoleGroundTeam)
	detail := env.seedProject(t, admin, "PX-001", assignee)
	task := env.seedTask(t, admin, detail.Project.ID, assignee)

	comment, err := env.commentService.Create(assignee, task.ID, "Flooring done, photos attached")
	require.NoError(t, err)
	require.Equal(t, assignee.ID, comment.UserID)
	require.Equal(t, assignee.Email, comment.User.Email)

	_, err = env.commentService.Create(admin, task.ID, "Looks good")
	require.NoError(t, err)

	comments, err := env.commentService.ListForTask(assignee, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	// Oldest first.
	require.Equal(t, "Flooring done, photos attached", comments[0].CommentText)
}

func TestCommentService_RequiresText(t *testing.T) {
	env := setupServiceTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin)
	detail := env.seedProject(t, admin, "PX-001")
	task := env.seedTask(t, admin, detail.Project.ID, nil)

	_, err := env.commentService.Create(admin, task.ID, "")
	require.True(t, IsValidation(err))
}

func TestCommentService_OutsiderDenied(t *testing.T) {
	env := setupServiceTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin)
	outsider := env.seedUser(t, "outsider@example.com", models.RoleNormalUser)
	detail := env.seedProject(t, admin, "PX-001")
	task := env.seedTask(t, admin, detail.Project.ID, nil)

	_, err := env.commentService.Create(outsider, task.ID, "Not my task")
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.commentService.ListForTask(outsider, task.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.commentService.ListForTask(outsider, 9999)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storeops/rollout-tracker/internal/models"
)

func TestRolePredicates(t *testing.T) {
	elevated := []models.Role{models.RoleAdmin, models.RoleSuperAdmin, models.RoleEditor}
	for _, r := range elevated {
		require.True(t, r.Elevated(), "%s should be elevated", r)
	}

	plain := []models.Role{models.RoleNormalUser, models.RoleAssociate, models.RoleGroundTeam}
	for _, r := range plain {
		require.False(t, r.Elevated(), "%s should not be elevated", r)
	}

	require.True(t, models.RoleAdmin.AdminClass())
	require.True(t, models.RoleSuperAdmin.AdminClass())
	require.False(t, models.RoleEditor.AdminClass())

	require.False(t, models.Role("Manager").Valid())
	require.True(t, models.RoleGroundTeam.Valid())
}

func TestAccess_CanViewProject(t *testing.T) {
	env := setupServiceTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin)
	editor := env.seedUser(t, "editor@example.com", models.RoleEditor)
	member := env.seedUser(t, "member@example.com", models.RoleNormalUser)
	outsider := env.seedUser(t, "outsider@example.com", models.RoleNormalUser)

	detail := env.seedProject(t, admin, "PX-001", member)
	projectID := detail.Project.ID

	for _, u := range []*models.User{admin, editor, member} {
		allowed, err := env.access.CanViewProject(u, projectID)
		require.NoError(t, err)
		require.True(t, allowed, "%s should see the project", u.Email)
	}

	allowed, err := env.access.CanViewProject(outsider, projectID)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestAccess_CanViewProjectCreatorAfterDowngrade(t *testing.T) {
	env := setupServiceTestEnv(t)
	creator := env.seedUser(t, "editor@example.com", models.RoleEditor)
	member := env.seedUser(t, "member@example.com", models.RoleNormalUser)

	detail := env.seedProject(t, creator, "PX-001", member)
	projectID := detail.Project.ID

	// A creator who loses elevation, and was never assigned, keeps
	// visibility into their own project.
	creator.Role = models.RoleNormalUser
	require.NoError(t, env.userRepo.Update(creator))

	allowed, err := env.access.CanViewProject(creator, projectID)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestAccess_CanViewTask(t *testing.T) {
	env := setupServiceTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdmin)
	assignee := env.seedUser(t, "assignee@example.com", models.RoleGroundTeam)
	outsider := env.seedUser(t, "outsider@example.com", models.RoleNormalUser)

	detail := env.seedProject(t, admin, "PX-001", assignee)
	task, err := env.taskService.Create(admin, CreateTaskInput{
		ProjectID:  detail.Project.ID,
		Title:      "Flooring",
		AssignedTo: &assignee.ID,
	})
	require.NoError(t, err)

	allowed, err := env.access.CanViewTask(assignee, task)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = env.access.CanViewTask(outsider, task)
	require.NoError(t, err)
	require.False(t, allowed)
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storeops/rollout-tracker/internal/constants"
	"github.com/storeops/rollout-tracker/internal/database"
	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/repository"
)

type authTestEnv struct {
	db          *gorm.DB
	authService *AuthService
	userService *UserService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		authService: NewAuthService(userRepo, sessionRepo, constants.DefaultSessionLifetime),
		userService: NewUserService(userRepo),
	}
}

func (env authTestEnv) createUser(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()
	user, err := env.userService.Create(CreateUserInput{
		Email:    email,
		Password: password,
		Role:     string(role),
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_LoginAndResolve(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "site@example.com", "supersecret", models.RoleNormalUser)

	result, err := env.authService.Login("site@example.com", "supersecret")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Len(t, result.Token, 64)
	require.True(t, result.ExpiresAt.After(time.Now()))

	user, err := env.authService.Resolve(result.Token)
	require.NoError(t, err)
	require.Equal(t, "site@example.com", user.Email)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "site@example.com", "supersecret", models.RoleNormalUser)

	_, wrongPassword := env.authService.Login("site@example.com", "nope")
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)

	_, unknownEmail := env.authService.Login("nobody@example.com", "supersecret")
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)

	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_ConcurrentSessions(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "site@example.com", "supersecret", models.RoleNormalUser)

	first, err := env.authService.Login("site@example.com", "supersecret")
	require.NoError(t, err)
	second, err := env.authService.Login("site@example.com", "supersecret")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = env.authService.Resolve(first.Token)
	require.NoError(t, err)
	_, err = env.authService.Resolve(second.Token)
	require.NoError(t, err)
}

func TestAuthService_ExpiredTokenRejected(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "site@example.com", "supersecret", models.RoleNormalUser)

	result, err := env.authService.Login("site@example.com", "supersecret")
	require.NoError(t, err)

	env.authService.SetClock(func() time.Time {
		return time.Now().Add(constants.DefaultSessionLifetime + time.Minute)
	})

	_, err = env.authService.Resolve(result.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_LogoutRevokesImmediately(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "site@example.com", "supersecret", models.RoleNormalUser)

	result, err := env.authService.Login("site@example.com", "supersecret")
	require.NoError(t, err)

	require.NoError(t, env.authService.Logout(result.Token))

	_, err = env.authService.Resolve(result.Token)
	require.ErrorIs(t, err, ErrInvalidToken)

	// A second logout of the same token is a no-op, not an error.
	require.NoError(t, env.authService.Logout(result.Token))
}

func TestAuthService_UserDeletionRevokesSessions(t *testing.T) {
	env := setupAuthTestEnv(t)
	user := env.createUser(t, "site@example.com", "supersecret", models.RoleNormalUser)

	result, err := env.authService.Login("site@example.com", "supersecret")
	require.NoError(t, err)

	require.NoError(t, env.userService.Delete(user.ID))

	_, err = env.authService.Resolve(result.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storeops/rollout-tracker/internal/constants"
	apierrors "github.com/storeops/rollout-tracker/internal/errors"
	"github.com/storeops/rollout-tracker/internal/models"
	"github.com/storeops/rollout-tracker/internal/services"
)

// RequireAuth resolves the bearer token into a user and stores it in
// the request context. Requests without a valid token stop here.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := authService.Resolve(token)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				apierrors.Unauthorized(c, err.Error())
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyCurrentUser, user)
		c.Next()
	}
}

// RequireElevated stops requests from non-elevated roles. Must run
// after RequireAuth.
func RequireElevated() gin.HandlerFunc {
	return requireRole(func(r models.Role) bool { return r.Elevated() })
}

// RequireAdmin stops requests from non-admin-class roles. Must run
// after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(func(r models.Role) bool { return r.AdminClass() })
}

func requireRole(allowed func(models.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !allowed(user.Role) {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyCurrentUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

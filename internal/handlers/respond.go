package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/storeops/rollout-tracker/internal/errors"
	"github.com/storeops/rollout-tracker/internal/logger"
	"github.com/storeops/rollout-tracker/internal/services"
)

// respondServiceError translates a service error into the HTTP
// response. Anything unrecognized is logged and becomes a 500 with no
// detail leaked.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied),
		errors.Is(err, services.ErrFieldNotAllowed):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrProjectCodeTaken),
		errors.Is(err, services.ErrUserAlreadyAssigned):
		apierrors.Conflict(c, err.Error())
	case services.IsValidation(err):
		apierrors.BadRequest(c, err.Error())
	default:
		logger.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		apierrors.InternalError(c, "")
	}
}

// parseIDParam reads a numeric path parameter; a zero return means the
// 400 response has already been written.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

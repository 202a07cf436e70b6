package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/storeops/rollout-tracker/internal/errors"
	"github.com/storeops/rollout-tracker/internal/middleware"
	"github.com/storeops/rollout-tracker/internal/services"
)

// DashboardHandler exposes the landing-page summary endpoint.
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary handles GET /api/dashboard.
func (h *DashboardHandler) Summary(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	summary, err := h.dashboardService.Summary(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeops/rollout-tracker/internal/middleware"
	"github.com/storeops/rollout-tracker/internal/services"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	AuthService *services.AuthService

	Auth      *AuthHandler
	Users     *UserHandler
	Projects  *ProjectHandler
	Tasks     *TaskHandler
	Uploads   *UploadHandler
	Dashboard *DashboardHandler
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(h.AuthService))
	{
		authed.POST("/logout", h.Auth.Logout)
		authed.GET("/me", h.Auth.Me)
		authed.GET("/dashboard", h.Dashboard.Summary)

		users := authed.Group("/users", middleware.RequireAdmin())
		{
			users.GET("", h.Users.List)
			users.POST("", h.Users.Create)
			users.GET("/:id", h.Users.Get)
			users.PUT("/:id", h.Users.Update)
			users.DELETE("/:id", h.Users.Delete)
		}

		projects := authed.Group("/projects")
		{
			projects.GET("", h.Projects.List)
			projects.GET("/:id", h.Projects.Get)
			projects.GET("/:id/tasks", h.Projects.ListTasks)
			projects.POST("", middleware.RequireElevated(), h.Projects.Create)
			projects.PUT("/:id", middleware.RequireElevated(), h.Projects.Update)
			projects.POST("/:id/assign-user", middleware.RequireElevated(), h.Projects.AssignUser)
			projects.DELETE("/:id", middleware.RequireAdmin(), h.Projects.Delete)
		}

		tasks := authed.Group("/tasks")
		{
			tasks.GET("", h.Tasks.List)
			tasks.POST("", h.Tasks.Create)
			tasks.GET("/:id", h.Tasks.Get)
			tasks.PUT("/:id", h.Tasks.Update)
			tasks.DELETE("/:id", h.Tasks.Delete)
			tasks.GET("/:id/comments", h.Tasks.ListComments)
			tasks.POST("/:id/comments", h.Tasks.CreateComment)
		}

		// Flat aliases for clients that address comments and uploads as
		// top-level resources.
		authed.GET("/comments", h.Tasks.ListCommentsByQuery)
		authed.POST("/comments", h.Tasks.CreateCommentFlat)
		authed.POST("/comments/:id/media", h.Uploads.Upload)
		authed.POST("/upload", h.Uploads.UploadForm)
	}

	return r
}

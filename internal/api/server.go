// Package api exposes the ProdPush REST surface under /api.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prodpush/prodpush/internal/auth"
)

// Handler carries the shared dependencies of every route.
type Handler struct {
	DB       *gorm.DB
	Sessions auth.SessionStore
	Identity *auth.IdentityClient

	// FrontendURL is where the browser is sent after auth redirects.
	FrontendURL string
}

// RegisterRoutes mounts the REST surface onto the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheckHandler)

		authGroup := api.Group("/auth")
		{
			authGroup.GET("/login", h.LoginHandler)
			authGroup.GET("/register", h.RegisterHandler)
			authGroup.GET("/callback", h.CallbackHandler)
			authGroup.GET("/logout", h.LogoutHandler)
			authGroup.GET("/me", h.MeHandler)
		}

		protected := api.Group("")
		protected.Use(h.RequireUser())
		{
			protected.GET("/tasks", h.ListTasks)
			protected.POST("/tasks", h.CreateTask)
			protected.PATCH("/tasks/:id", h.UpdateTask)
			protected.DELETE("/tasks/:id", h.DeleteTask)

			protected.GET("/projects", h.ListProjects)
			protected.GET("/projects/:id", h.GetProject)
			protected.POST("/projects", h.CreateProject)
			protected.PATCH("/projects/:id", h.UpdateProject)
			protected.DELETE("/projects/:id", h.DeleteProject)

			protected.GET("/notes", h.ListNotes)
			protected.GET("/notes/:id", h.GetNote)
			protected.POST("/notes", h.CreateNote)
			protected.PATCH("/notes/:id", h.UpdateNote)
			protected.DELETE("/notes/:id", h.DeleteNote)
		}
	}
}

// HealthCheckHandler provides a basic readiness endpoint.
func (h *Handler) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

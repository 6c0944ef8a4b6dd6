package jobs

import (
	"github.com/labstack/echo/v4"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers job routes. All of them require a session.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	jobService := NewService(db)

	h := &handler{
		jobService: jobService,
	}

	jobs := e.Group("/jobs")
	jobs.Use(authMiddleware.Authenticate)
	jobs.GET("", h.list)
	jobs.GET("/:id", h.retrieve)
	jobs.POST("", h.create)

	return jobService
}

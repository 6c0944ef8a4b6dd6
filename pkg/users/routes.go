package users

import (
	"github.com/labstack/echo/v4"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all user routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	userService := NewService(db)

	h := &handler{
		userService: userService,
	}

	users := e.Group("/users")
	users.Use(authMiddleware.Authenticate)
	users.PATCH("/profile", h.updateProfile)
	users.PATCH("/account", h.updateAccount)

	return userService
}

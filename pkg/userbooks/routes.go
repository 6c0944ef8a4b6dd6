package userbooks

import (
	"github.com/labstack/echo/v4"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/revalidate"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers shelf entry routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, notifier *revalidate.Notifier, authMiddleware *auth.Middleware) *Service {
	userBookService := NewService(db, notifier)

	h := &handler{
		userBookService: userBookService,
	}

	userBooks := e.Group("/user-books")
	userBooks.Use(authMiddleware.Authenticate)

	// The static route must be registered before the parameterized ones.
	userBooks.PATCH("/reorder", h.reorder)
	userBooks.PATCH("/:id", h.update)
	userBooks.DELETE("/:id", h.remove)

	return userBookService
}

package books

import (
	"github.com/labstack/echo/v4"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/revalidate"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers book routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, resolver MetaResolver, notifier *revalidate.Notifier, authMiddleware *auth.Middleware) *Service {
	bookService := NewService(db, resolver, notifier)

	h := &handler{
		bookService: bookService,
	}

	books := e.Group("/books")
	books.Use(authMiddleware.Authenticate)
	books.POST("", h.add)
	books.GET("/:id", h.retrieve)

	return bookService
}

package bookstores

import (
	"github.com/labstack/echo/v4"
	"github.com/sassamahha/shotenme/pkg/amazon"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/revalidate"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers bookstore routes plus the public shelf route.
func RegisterRoutes(e *echo.Echo, db *bun.DB, notifier *revalidate.Notifier, amazonLinks *amazon.LinkBuilder, authMiddleware *auth.Middleware) *Service {
	bookstoreService := NewService(db, notifier)

	h := &handler{
		bookstoreService: bookstoreService,
		amazonLinks:      amazonLinks,
	}

	bookstores := e.Group("/bookstores")
	bookstores.Use(authMiddleware.Authenticate)
	bookstores.GET("", h.list)
	bookstores.POST("", h.create)
	bookstores.PATCH("/:id", h.update)
	bookstores.DELETE("/:id", h.delete)

	// Public shelf page data.
	e.GET("/shelves/:handle", h.retrieveShelf, authMiddleware.AuthenticateOptional)

	return bookstoreService
}

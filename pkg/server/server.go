package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/sassamahha/shotenme/pkg/amazon"
	"github.com/sassamahha/shotenme/pkg/auth"
	"github.com/sassamahha/shotenme/pkg/binder"
	"github.com/sassamahha/shotenme/pkg/bookmeta"
	"github.com/sassamahha/shotenme/pkg/books"
	"github.com/sassamahha/shotenme/pkg/bookstores"
	"github.com/sassamahha/shotenme/pkg/config"
	"github.com/sassamahha/shotenme/pkg/errcodes"
	"github.com/sassamahha/shotenme/pkg/jobs"
	"github.com/sassamahha/shotenme/pkg/revalidate"
	"github.com/sassamahha/shotenme/pkg/testutils"
	"github.com/sassamahha/shotenme/pkg/userbooks"
	"github.com/sassamahha/shotenme/pkg/users"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))

	health.RegisterRoutes(e)

	resolver := NewResolver(cfg)
	notifier := revalidate.NewNotifier(cfg.RevalidateURL, cfg.RevalidateSecret)

	// Register auth routes and get the auth service
	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	amazonLinks := amazon.NewLinkBuilder(cfg.DefaultAffiliateTag)

	users.RegisterRoutes(e, db, authMiddleware)
	bookstores.RegisterRoutes(e, db, notifier, amazonLinks, authMiddleware)
	books.RegisterRoutes(e, db, resolver, notifier, authMiddleware)
	userbooks.RegisterRoutes(e, db, notifier, authMiddleware)
	jobs.RegisterRoutes(e, db, authMiddleware)

	if cfg.Environment == "test" {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// NewResolver builds the metadata resolver with the provider chain in
// priority order. OpenBD first since it has the best Japanese coverage.
func NewResolver(cfg *config.Config) *bookmeta.Resolver {
	return bookmeta.NewResolver(
		cfg.MetadataCacheTTL,
		bookmeta.NewOpenBDClient(cfg.OpenBDBaseURL),
		bookmeta.NewGoogleBooksClient(cfg.GoogleBooksBaseURL),
	)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}

package handler

import (
	"net/http"

	"ratehub/internal/api/middleware"
	"ratehub/internal/api/service"
	"ratehub/internal/config"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the full HTTP surface. PUT is not an allowed mutation verb
// on any collection; HandleMethodNotAllowed turns every unregistered method
// into a 405 instead of a 404.
func NewRouter(
	cfg *config.Config,
	authService service.AuthService,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	categoryHandler *CategoryHandler,
	genreHandler *GenreHandler,
	titleHandler *TitleHandler,
	reviewHandler *ReviewHandler,
	commentHandler *CommentHandler,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.HandleMethodNotAllowed = true

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Authenticate(authService))

	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
	authHandler.RegisterRoutes(auth)

	userHandler.RegisterRoutes(v1)
	categoryHandler.RegisterRoutes(v1)
	genreHandler.RegisterRoutes(v1)
	titleHandler.RegisterRoutes(v1)
	reviewHandler.RegisterRoutes(v1)
	commentHandler.RegisterRoutes(v1)

	return r
}

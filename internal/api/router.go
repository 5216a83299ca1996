package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/jwpark-dev/tripnote/internal/auth"
	"github.com/jwpark-dev/tripnote/internal/handlers"
	"github.com/jwpark-dev/tripnote/internal/middleware"
	"github.com/jwpark-dev/tripnote/internal/services"
	"github.com/jwpark-dev/tripnote/pkg/errors"
	"github.com/jwpark-dev/tripnote/pkg/response"
)

// Dependencies carries the wired services the router needs. OAuth may be nil
// when no Google client is configured; its routes then answer 503.
type Dependencies struct {
	DB             *gorm.DB
	Tokens         *iauth.TokenService
	Auth           *services.AuthService
	Chapters       *services.ChapterService
	Diary          *services.DiaryService
	OAuth          *handlers.OAuthHandler
	AllowedOrigins []string
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("token service must be provided")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("auth service must be provided")
	}
	if deps.Chapters == nil || deps.Diary == nil {
		return nil, fmt.Errorf("chapter and diary services must be provided")
	}

	r := gin.New()

	// Global middleware. Authentication resolves the principal on every
	// request but rejects nothing; RequireAuth enforces the route policy.
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.Authenticate(RoutePolicy(), deps.Tokens, deps.DB))
	r.Use(middleware.RequireAuth())

	r.GET("/health", handlers.Health())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Auth)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify", authHandler.Verify)
		auth.POST("/resend-code", authHandler.ResendCode)
		auth.POST("/login", authHandler.Login)
	}

	oauthHandler := deps.OAuth
	if oauthHandler == nil {
		oauthHandler = handlers.NewOAuthHandler(nil, nil, nil, "")
	}
	r.GET("/oauth2/google", oauthHandler.Begin)
	r.GET("/login/oauth2/code/google", oauthHandler.Callback)

	r.GET("/api/users/me", handlers.Me())

	chapterHandler := handlers.NewChapterHandler(deps.Chapters)
	entryHandler := handlers.NewEntryHandler(deps.Diary)

	chapters := r.Group("/api/chapters")
	{
		chapters.POST("", chapterHandler.Create)
		chapters.GET("", chapterHandler.List)
		chapters.GET("/:id", chapterHandler.Get)
		chapters.PATCH("/:id", chapterHandler.Update)
		chapters.POST("/:id/close", chapterHandler.Close)
		chapters.DELETE("/:id", chapterHandler.Delete)

		chapters.POST("/:id/entries", entryHandler.Create)
		chapters.GET("/:id/entries", entryHandler.List)
	}

	entries := r.Group("/api/entries")
	{
		entries.GET("/:id", entryHandler.Get)
		entries.PATCH("/:id", entryHandler.Update)
		entries.DELETE("/:id", entryHandler.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, errors.ErrNotFound)
	})

	return r, nil
}

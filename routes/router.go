package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"conduit/config"
	"conduit/controllers"
	"conduit/middleware"
	"conduit/repository"
	"conduit/utils"
)

// SetupRouter wires repositories, controllers, and middlewares.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	favourites := repository.NewFavouriteRepository(db)
	follows := repository.NewFollowRepository(db)

	authController := controllers.NewAuthController(users)
	articleController := controllers.NewArticleController(posts, comments, favourites)
	commentController := controllers.NewCommentController(posts, comments)
	socialController := controllers.NewSocialController(users, posts, favourites, follows)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/settings", middleware.AuthRequired(), authController.UpdateSettings)

	articles := api.Group("/articles")
	articles.GET("", middleware.AuthOptional(), articleController.ListArticles)
	articles.GET("/feed", middleware.AuthRequired(), articleController.YourFeed)
	articles.GET("/:slug", middleware.AuthOptional(), articleController.GetArticle)
	articles.GET("/:slug/comments", commentController.ListComments)

	api.GET("/tags", articleController.TopTags)
	api.GET("/profiles/:id", middleware.AuthOptional(), socialController.GetProfile)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/articles", articleController.CreateArticle)
	protected.POST("/articles/:slug/comments", commentController.CreateComment)
	protected.POST("/articles/:slug/favourite", socialController.ToggleFavourite)
	protected.DELETE("/comments/:id", commentController.DeleteComment)
	protected.POST("/profiles/:id/follow", socialController.ToggleFollow)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

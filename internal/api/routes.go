package api

import (
	"github.com/gin-gonic/gin"

	"github.com/MdFayaz7/portfolio1/internal/api/middleware"
)

// RegisterRoutes 注册 /api 下的全部路由。
func RegisterRoutes(api *gin.RouterGroup, d Deps) {
	authHandler := NewAuthHandler(d.Auth)
	profileHandler := NewProfileHandler(d.Content.Profile, d.Uploader, d.Files)
	educationHandler := NewEducationHandler(d.Content.Education)
	skillHandler := NewSkillHandler(d.Content.Skills)
	projectHandler := NewProjectHandler(d.Content.Projects, d.Uploader)
	contactHandler := NewContactHandler(d.Content.Messages)
	uploadHandler := NewUploadHandler(d.Uploader)

	authMiddleware := middleware.AuthMiddleware(d.Auth)
	admin := []gin.HandlerFunc{authMiddleware, middleware.RequireAdmin()}

	api.Use(middleware.RateLimitMiddleware(d.Limiter))

	api.GET("/health", health(d.DB))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", middleware.SetupTokenMiddleware(d.SetupToken), authHandler.Register)
		authGroup.GET("/me", authMiddleware, authHandler.Me)
		authGroup.GET("/verify", authMiddleware, authHandler.Verify)
	}

	profileGroup := api.Group("/profile")
	{
		profileGroup.GET("", profileHandler.Get)
		profileGroup.GET("/resume", profileHandler.Resume)
		profileGroup.PUT("", append(admin, profileHandler.Update)...)
	}

	educationGroup := api.Group("/education")
	{
		educationGroup.GET("", educationHandler.List)
		educationGroup.POST("", append(admin, educationHandler.Create)...)
		educationGroup.PUT("/:id", append(admin, educationHandler.Update)...)
		educationGroup.DELETE("/:id", append(admin, educationHandler.Delete)...)
	}

	skillGroup := api.Group("/skills")
	{
		skillGroup.GET("", skillHandler.List)
		skillGroup.POST("", append(admin, skillHandler.Create)...)
		skillGroup.PUT("/:id", append(admin, skillHandler.Update)...)
		skillGroup.DELETE("/:id", append(admin, skillHandler.Delete)...)
	}

	projectGroup := api.Group("/projects")
	{
		projectGroup.GET("", projectHandler.List)
		projectGroup.GET("/:id", projectHandler.Get)
		projectGroup.POST("", append(admin, projectHandler.Create)...)
		projectGroup.PUT("/:id", append(admin, projectHandler.Update)...)
		projectGroup.PATCH("/:id/featured", append(admin, projectHandler.ToggleFeatured)...)
		projectGroup.DELETE("/:id", append(admin, projectHandler.Delete)...)
	}

	contactGroup := api.Group("/contact")
	{
		contactGroup.POST("", contactHandler.Create)
		contactGroup.GET("", append(admin, contactHandler.List)...)
		contactGroup.GET("/:id", append(admin, contactHandler.Get)...)
		contactGroup.PATCH("/:id", append(admin, contactHandler.SetStatus)...)
		contactGroup.PATCH("/:id/status", append(admin, contactHandler.SetStatus)...)
		contactGroup.DELETE("/:id", append(admin, contactHandler.Delete)...)
	}

	uploadGroup := api.Group("/upload")
	uploadGroup.Use(admin...)
	{
		uploadGroup.POST("/single", uploadHandler.Single)
		uploadGroup.POST("/multiple", uploadHandler.Multiple)
		uploadGroup.POST("/profile", uploadHandler.Profile)
	}
}

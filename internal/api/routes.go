package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-media-library/internal/api/handlers"
	"go-media-library/internal/api/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
		}

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth())
		{
			media := protected.Group("/media")
			{
				media.POST("/upload", handlers.UploadMedia)
				media.GET("/list", handlers.ListMedia)
				media.DELETE("", handlers.DeleteMedia)
				media.POST("/bulk-delete", handlers.BulkDeleteMedia)
				media.PUT("/rename", handlers.RenameMedia)
				media.PUT("/move", handlers.MoveMedia)
				media.PUT("/move-bulk", handlers.BulkMoveMedia)
				media.GET("/export", handlers.ExportMedia)
			}

			folders := protected.Group("/folders")
			{
				folders.POST("", handlers.CreateFolder)
				folders.GET("", handlers.ListFolders)
				folders.DELETE("", handlers.DeleteFolder)
				folders.PUT("/rename", handlers.RenameFolder)
				folders.PUT("/move", handlers.MoveFolder)
			}

			protected.GET("/ws", handlers.Notifications)
		}
	}
}

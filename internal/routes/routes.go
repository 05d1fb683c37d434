package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/logscope/backend/internal/controllers"
	"github.com/logscope/backend/internal/middleware"
	"github.com/logscope/backend/internal/services"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, db *gorm.DB, logStore *services.LogStoreService) {
	// Initialize services
	llmService := services.NewLLMService(
		os.Getenv("OLLAMA_URL"),
		os.Getenv("OLLAMA_MODEL"),
	)
	projectService := services.NewProjectService(db)
	githubService := services.NewGitHubService()
	pipeline := services.NewPipelineService(logStore, llmService)

	// Initialize controllers
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	projectController := controllers.NewProjectController(projectService)
	logController := controllers.NewLogController(pipeline, projectService, llmService)
	githubController := controllers.NewGitHubController(githubService, projectService)

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authController.Login)
			auth.POST("/register", authController.Register)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/auth/refresh", authController.RefreshToken)
			protected.POST("/auth/change-password", authController.ChangePassword)

			// Users
			users := protected.Group("/users")
			{
				users.GET("/me", userController.GetCurrentUser)
				users.PUT("/me", userController.UpdateCurrentUser)
				users.GET("", userController.GetUsers)
			}

			// Projects
			projects := protected.Group("/projects")
			{
				projects.GET("", projectController.GetProjects)
				projects.POST("", projectController.CreateProject)
				projects.GET("/:id", projectController.GetProject)
				projects.PUT("/:id", projectController.UpdateProject)
				projects.DELETE("/:id", projectController.DeleteProject)

				// Log clustering pipeline
				projects.GET("/:id/cluster-logs", logController.GetClusterLogs)

				// GitHub pass-throughs
				projects.GET("/:id/pull-requests", githubController.GetPullRequests)
				projects.GET("/:id/vulnerabilities", githubController.GetVulnerabilityAlerts)
			}

			// LLM Status endpoint
			llm := protected.Group("/llm")
			{
				llm.GET("/status", logController.GetLLMStatus)
			}
		}
	}
}

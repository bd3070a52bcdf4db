package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskmaster-dev/taskmaster/internal/config"
	"github.com/taskmaster-dev/taskmaster/internal/handlers"
	"github.com/taskmaster-dev/taskmaster/internal/logging"
	"github.com/taskmaster-dev/taskmaster/internal/middleware"
	"github.com/taskmaster-dev/taskmaster/internal/types"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	types.AllowedOrigins = cfg.AllowedOrigins
	handlers.EnforceReorderAccess = cfg.ReorderEnforceAccess

	r := gin.New()
	r.Use(gin.LoggerWithWriter(logging.Logger.Writer()), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", middleware.AuthMiddleware(), handlers.WebSocket)
		api.GET("/auth/me", middleware.AuthMiddleware(), handlers.Me)

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/:project_id", handlers.GetProject)
			projects.PATCH("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)

			// Membership endpoints
			projects.GET("/:project_id/members", handlers.ListMembers)
			projects.DELETE("/:project_id/members/:user_id", handlers.RemoveMember)
			projects.POST("/:project_id/leave", handlers.LeaveProject)

			// Invitation endpoints
			projects.POST("/:project_id/invitations", handlers.CreateInvitation)
			projects.GET("/:project_id/invitations", handlers.ListProjectInvitations)
		}

		invitations := api.Group("/invitations", middleware.AuthMiddleware())
		{
			invitations.POST("/accept", handlers.AcceptInvitation)
			invitations.POST("/decline", handlers.DeclineInvitation)
			invitations.GET("/pending", handlers.ListPendingInvitations)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.POST("", handlers.CreateTask)
			tasks.GET("", handlers.ListTasks)
			tasks.POST("/update-order", handlers.UpdateTaskOrder)
			tasks.GET("/:task_id", handlers.GetTask)
			tasks.PUT("/:task_id", handlers.UpdateTask)
			tasks.PATCH("/:task_id", handlers.UpdateTask)
			tasks.DELETE("/:task_id", handlers.DeleteTask)
		}
	}

	return r
}

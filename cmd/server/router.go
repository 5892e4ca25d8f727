package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/progress-api/internal/config"
	"github.com/yukikurage/progress-api/internal/constants"
	"github.com/yukikurage/progress-api/internal/handlers"
	"github.com/yukikurage/progress-api/internal/middleware"
	"github.com/yukikurage/progress-api/internal/repository"
	"github.com/yukikurage/progress-api/internal/services"
	"gorm.io/gorm"
)

func newRouter(cfg *config.Config, db *gorm.DB, store sessions.Store) *gin.Engine {
	r := gin.Default()

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	repos := repository.New(db)
	tokens := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		log.Println("OPENAI_API_KEY not set, subtask suggestions are disabled")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.NewAuthService(repos.Users), tokens)
	projectHandler := handlers.NewProjectHandler(services.NewProjectService(repos))
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(repos, aiService))
	activityHandler := handlers.NewActivityHandler(services.NewActivityService(repos))
	communityHandler := handlers.NewCommunityHandler(services.NewCommunityService(repos))
	sharedHandler := handlers.NewSharedHandler(services.NewSharedService(repos))
	notificationHandler := handlers.NewNotificationHandler(services.NewNotificationService(repos))

	requireAuth := middleware.RequireAuth(tokens)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Progress API is running",
		})
	})

	api := r.Group("/api")
	{
		// Account routes
		api.POST("/register/", authHandler.Register)
		api.POST("/login/", authHandler.Login)
		api.POST("/logout/", authHandler.Logout)
		api.GET("/me/", requireAuth, authHandler.GetMe)
		api.PATCH("/me/", requireAuth, authHandler.UpdateMe)
		api.PATCH("/profile/", requireAuth, authHandler.UpdateProfile)
		api.PATCH("/change-password/", requireAuth, authHandler.ChangePassword)

		// Public community board
		api.GET("/projects/community/", projectHandler.ListCommunityProjects)

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projectID := middleware.RequireIDParam("project")
			projects.GET("/", projectHandler.ListProjects)
			projects.POST("/", projectHandler.CreateProject)
			projects.GET("/:id/", projectID, projectHandler.GetProject)
			projects.PATCH("/:id/", projectID, projectHandler.UpdateProject)
			projects.DELETE("/:id/", projectID, projectHandler.DeleteProject)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			taskID := middleware.RequireIDParam("task")
			tasks.GET("/", taskHandler.ListTasks)
			tasks.POST("/", taskHandler.CreateTask)
			tasks.GET("/:id/", taskID, taskHandler.GetTask)
			tasks.PATCH("/:id/", taskID, taskHandler.UpdateTask)
			tasks.DELETE("/:id/", taskID, taskHandler.DeleteTask)
			tasks.POST("/:id/suggest-subtasks", taskID, taskHandler.SuggestSubtasks)
		}

		subtasks := api.Group("/subtasks")
		subtasks.Use(requireAuth)
		{
			subtaskID := middleware.RequireIDParam("subtask")
			subtasks.GET("/", taskHandler.ListSubtasks)
			subtasks.POST("/", taskHandler.CreateSubtask)
			subtasks.GET("/:id/", subtaskID, taskHandler.GetSubtask)
			subtasks.PATCH("/:id/", subtaskID, taskHandler.UpdateSubtask)
			subtasks.DELETE("/:id/", subtaskID, taskHandler.DeleteSubtask)
		}

		focus := api.Group("/focus-sessions")
		focus.Use(requireAuth)
		{
			focus.GET("/", activityHandler.ListFocusSessions)
			focus.POST("/", activityHandler.CreateFocusSession)
			focus.GET("/reports/", activityHandler.FocusReport)
		}

		notes := api.Group("/notes")
		notes.Use(requireAuth)
		{
			noteID := middleware.RequireIDParam("note")
			notes.GET("/", activityHandler.ListNotes)
			notes.POST("/", activityHandler.CreateNote)
			notes.GET("/:id/", noteID, activityHandler.GetNote)
			notes.PATCH("/:id/", noteID, activityHandler.UpdateNote)
			notes.DELETE("/:id/", noteID, activityHandler.DeleteNote)
		}

		communities := api.Group("/communities")
		communities.Use(requireAuth)
		{
			access := middleware.RequireCommunityAccess(repos.Communities)
			owner := middleware.RequireCommunityOwner()
			communities.GET("/", communityHandler.ListCommunities)
			communities.POST("/", communityHandler.CreateCommunity)
			communities.GET("/:id/", access, communityHandler.GetCommunity)
			communities.POST("/:id/add_member", access, owner, communityHandler.AddMember)
			communities.POST("/:id/remove_member", access, owner, communityHandler.RemoveMember)
		}

		sharedProjects := api.Group("/shared-projects")
		sharedProjects.Use(requireAuth)
		{
			sharedProjectID := middleware.RequireIDParam("shared project")
			sharedProjects.GET("/", sharedHandler.ListSharedProjects)
			sharedProjects.POST("/", sharedHandler.CreateSharedProject)
			sharedProjects.GET("/:id/", sharedProjectID, sharedHandler.GetSharedProject)
			sharedProjects.PATCH("/:id/", sharedProjectID, sharedHandler.UpdateSharedProject)
			sharedProjects.DELETE("/:id/", sharedProjectID, sharedHandler.DeleteSharedProject)
		}

		sharedTasks := api.Group("/shared-tasks")
		sharedTasks.Use(requireAuth)
		{
			sharedTaskID := middleware.RequireIDParam("shared task")
			sharedTasks.GET("/", sharedHandler.ListSharedTasks)
			sharedTasks.POST("/", sharedHandler.CreateSharedTask)
			sharedTasks.PATCH("/:id/", sharedTaskID, sharedHandler.UpdateSharedTask)
			sharedTasks.DELETE("/:id/", sharedTaskID, sharedHandler.DeleteSharedTask)
		}

		sharedNotes := api.Group("/shared-notes")
		sharedNotes.Use(requireAuth)
		{
			sharedNoteID := middleware.RequireIDParam("shared note")
			sharedNotes.GET("/", sharedHandler.ListSharedNotes)
			sharedNotes.POST("/", sharedHandler.CreateSharedNote)
			sharedNotes.DELETE("/:id/", sharedNoteID, sharedHandler.DeleteSharedNote)
		}

		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notificationID := middleware.RequireIDParam("notification")
			notifications.GET("/", notificationHandler.ListNotifications)
			notifications.GET("/unread_count", notificationHandler.UnreadCount)
			notifications.POST("/mark_all_read", notificationHandler.MarkAllRead)
			notifications.POST("/:id/accept", notificationID, notificationHandler.Accept)
			notifications.POST("/:id/reject", notificationID, notificationHandler.Reject)
			notifications.POST("/:id/mark_read", notificationID, notificationHandler.MarkRead)
		}
	}

	return r
}

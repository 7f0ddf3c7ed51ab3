package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/peerlink-dev/peerlink/internal/handlers"
	"github.com/peerlink-dev/peerlink/internal/middleware"
	"github.com/peerlink-dev/peerlink/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/signup", handlers.Signup)
		api.POST("/login", handlers.Login)
		api.POST("/logout", handlers.Logout)
		api.GET("/me", middleware.AuthMiddleware(), handlers.Me)

		authed := api.Group("", middleware.AuthMiddleware())
		{
			authed.GET("/dashboard", handlers.GetDashboard)

			authed.GET("/profile", handlers.GetProfile)
			authed.PUT("/profile", handlers.UpdateProfile)

			authed.GET("/connections", handlers.ListConnections)
			authed.POST("/send_request/:user_id", handlers.SendRequest)
			authed.POST("/send_connection/:profile_id", handlers.SendConnection)
			authed.POST("/accept_request/:conn_id", handlers.AcceptRequest)
			authed.POST("/accept_connection/:conn_id", handlers.AcceptRequest)
			authed.POST("/reject_request/:conn_id", handlers.RejectRequest)
			authed.POST("/reject_connection/:conn_id", handlers.RejectRequest)

			authed.GET("/schedule_meeting/:conn_id", handlers.GetScheduleMeeting)
			authed.POST("/schedule_meeting/:conn_id", handlers.ScheduleMeeting)
			authed.POST("/complete_meeting/:meeting_id", handlers.CompleteMeeting)

			authed.GET("/tasks", handlers.ListTasks)
			authed.POST("/tasks", handlers.CreateTask)
			authed.POST("/toggle_task/:task_id", handlers.ToggleTask)
			authed.POST("/delete_task/:task_id", handlers.DeleteTask)

			authed.GET("/notes_dashboard", handlers.ListNotes)
			authed.POST("/notes_dashboard", handlers.UploadNote)
			authed.GET("/notes/:note_id/download", handlers.DownloadNote)
			authed.POST("/delete_note/:note_id", handlers.DeleteNote)
		}
	}

	return r
}

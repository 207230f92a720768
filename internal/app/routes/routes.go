package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/vacantes/internal/app/controllers"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/middleware"
	"github.com/yigit/vacantes/internal/pkg/metrics"
	"github.com/yigit/vacantes/internal/pkg/ratelimit"
)

// MessageSendScope prefixes the per-caller rate limit key for message sends
const MessageSendScope = "msg"

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	accountController *controllers.AccountController,
	vacancyController *controllers.VacancyController,
	applicationController *controllers.ApplicationController,
	rosterController *controllers.RosterController,
	messageController *controllers.MessageController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
	messageLimiter ratelimit.Limiter,
	logger zerolog.Logger,
) {
	router.GET("/ping", healthController.Ping)
	router.GET("/health", healthController.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	owners := authMiddleware.RoleRequired(models.RoleProfessor, models.RoleInstitution)
	students := authMiddleware.RoleRequired(models.RoleStudent)

	// --- Public vacancy routes ---
	vacancies := v1.Group("/vacancies")
	{
		vacancies.GET("", vacancyController.ListVacancies)
		vacancies.GET("/:id", vacancyController.GetVacancy)
		vacancies.GET("/:id/seats", vacancyController.GetSeats)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/accounts/me", accountController.GetMe)

		vacanciesProtected := authenticated.Group("/vacancies")
		{
			vacanciesProtected.POST("/:id/applications", students, applicationController.Apply)

			vacanciesOwner := vacanciesProtected.Group("")
			vacanciesOwner.Use(owners)
			{
				vacanciesOwner.GET("/mine", vacancyController.ListMyVacancies)
				vacanciesOwner.POST("", vacancyController.CreateVacancy)
				vacanciesOwner.PUT("/:id", vacancyController.UpdateVacancy)
				vacanciesOwner.DELETE("/:id", vacancyController.DeleteVacancy)
				vacanciesOwner.GET("/:id/applications", applicationController.ListForVacancy)
				vacanciesOwner.POST("/:id/applications/:applicationId/accept", applicationController.Accept)
				vacanciesOwner.POST("/:id/applications/:applicationId/reject", applicationController.Reject)
			}
		}

		applications := authenticated.Group("/applications")
		{
			applications.GET("/mine", students, applicationController.ListMine)
			applications.GET("/:applicationId", applicationController.GetApplication)
			applications.DELETE("/:applicationId", students, applicationController.Cancel)
		}

		roster := authenticated.Group("/roster")
		roster.Use(owners)
		{
			roster.GET("", rosterController.GetRoster)
			roster.POST("/reconcile", rosterController.Reconcile)
		}

		messages := authenticated.Group("/messages")
		{
			messages.POST("", middleware.RateLimit(messageLimiter, MessageSendScope, logger), messageController.SendMessage)
			messages.GET("/inbox", messageController.Inbox)
			messages.GET("/sent", messageController.Sent)
			messages.GET("/unread-count", messageController.UnreadCount)
			messages.GET("/:messageId", messageController.GetMessage)
			messages.PATCH("/:messageId/read", messageController.MarkRead)
			messages.DELETE("/:messageId", messageController.DeleteMessage)
		}
	}
}

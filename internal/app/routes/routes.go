package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/cleartrack/internal/app/controllers"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	clearanceController *controllers.ClearanceController,
	notificationController *controllers.NotificationController,
	pushController *controllers.PushController,
	importController *controllers.ImportController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// The VAPID public key is needed before the service worker can subscribe
	v1.GET("/push/public-key", pushController.PublicKey)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Clearance routes; who can do what differs per route
		clearance := authenticated.Group("/clearance")
		{
			clearanceStudent := clearance.Group("")
			clearanceStudent.Use(authMiddleware.RoleRequired(models.RoleStudent))
			{
				clearanceStudent.GET("/me", clearanceController.MyClearance)
				clearanceStudent.POST("/request", clearanceController.SubmitRequest)
				clearanceStudent.GET("/me/form", clearanceController.ClearanceForm)
			}

			clearanceOfficer := clearance.Group("")
			clearanceOfficer.Use(authMiddleware.RoleRequired(models.RoleDepartmentOfficer))
			{
				clearanceOfficer.GET("/department", clearanceController.DepartmentRecords)
				clearanceOfficer.PUT("/records/:id", clearanceController.DecideRecord)
			}
		}

		// Inbox and push subscriptions are available to every account type
		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.ListNotifications)
			notifications.POST("/mark-read", notificationController.MarkAllRead)
		}

		push := authenticated.Group("/push")
		{
			push.POST("/subscriptions", pushController.SaveSubscription)
			push.DELETE("/subscriptions", pushController.DeleteSubscription)
		}

		// Admin routes
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleSystemAdmin))
		{
			admin.GET("/dashboard", clearanceController.Dashboard)
			admin.POST("/clearances/reset", clearanceController.ResetCycle)

			admin.GET("/users", userController.ListUsers)
			admin.POST("/users", userController.CreateUser)
			admin.GET("/users/:id", userController.GetUser)
			admin.PUT("/users/:id", userController.UpdateUser)
			admin.DELETE("/users/:id", userController.DeleteUser)

			admin.POST("/imports/students", importController.ImportStudents)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})
}

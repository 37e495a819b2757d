package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"roomdesk/handlers"
	"roomdesk/middleware"
	"roomdesk/utils"
)

// SetupRouter builds the gin engine with middleware and all API routes.
func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.ErrorHandler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})

	RegisterBookingRoutes(r)
	RegisterRoomRoutes(r)
	return r
}

// RegisterBookingRoutes registers booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		api.POST("", handlers.CreateBooking)
		api.POST("/validate", handlers.ValidateBooking)
		api.GET("", handlers.ListBookings)
		api.GET("/pending", handlers.ListPendingBookings)
		api.GET("/availability", handlers.CheckAvailability)
		api.GET("/suggest", handlers.SuggestAlternatives)
		api.GET("/priority", handlers.ListPriorityBookings)
		api.GET("/user/:userId", handlers.ListUserBookings)
		api.GET("/:id", handlers.GetBooking)
		api.GET("/:id/history", handlers.GetBookingHistory)
		api.GET("/:id/ai-decision", handlers.GetDecision)
		api.GET("/:id/approval-logs", handlers.GetApprovalLogs)
		api.POST("/:id/approve", handlers.ApproveBooking)
		api.POST("/:id/reject", handlers.RejectBooking)
		api.POST("/:id/cancel", handlers.CancelBooking)
		api.PUT("/:id/status", handlers.UpdateBookingStatus)
	}
}

// RegisterRoomRoutes registers room catalogue endpoints.
func RegisterRoomRoutes(r *gin.Engine) {
	api := r.Group("/api/rooms")
	{
		api.GET("", handlers.ListRooms)
		api.GET("/available", handlers.ListAvailableRooms)
		api.GET("/:id", handlers.GetRoom)
		api.GET("/:id/equipment", handlers.GetRoomEquipment)
		api.GET("/:id/bookings", handlers.ListRoomBookings)
	}
}

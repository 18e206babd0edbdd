package routes

import (
	"time"

	"mindwell/handlers"
	"mindwell/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the HTTP handlers wired in main.
type HandlerBundle struct {
	Availability *handlers.AvailabilityHandler
	Booking      *handlers.BookingHandler
	Chat         *handlers.ChatHandler
}

// RegisterRoutes registers all endpoints of the counseling core.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", utils.HealthHandler)

	availability := r.Group("/api/availability")
	{
		availability.POST("/check", hb.Availability.CheckAvailability)
		availability.POST("/check-batch", hb.Availability.BatchCheckAvailability)
	}

	booking := r.Group("/api/counseling")
	{
		booking.POST("", hb.Booking.BookCounseling)
		booking.PUT("/:bookingID/reschedule", hb.Booking.RescheduleBooking)
		booking.DELETE("/:bookingID", hb.Booking.CancelBooking)
	}

	chat := r.Group("/api/chat")
	{
		chat.POST("/sessions/:sessionID/token", hb.Chat.RealtimeToken)
		chat.POST("/sessions/:sessionID/end", hb.Chat.EndSession)
		chat.POST("/reconcile", hb.Chat.Reconcile)
	}
}

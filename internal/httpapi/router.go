package httpapi

import "github.com/gin-gonic/gin"

func NewRouter(bh *BookingHandler, ph *PaymentHandler, wh *WebhookHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/bookings", bh.Create)
		api.GET("/bookings/:id", bh.Get)
		api.PATCH("/bookings/:id", bh.Reschedule)
		api.POST("/bookings/:id/status", bh.ChangeStatus)
		api.POST("/bookings/:id/cancel", bh.Cancel)
		api.DELETE("/bookings/:id", bh.Delete)

		api.POST("/bookings/:id/payment-intent", ph.CreateIntent)
		api.GET("/bookings/:id/payment", ph.GetByBooking)

		api.GET("/rooms/:id/availability", bh.RoomAvailability)
	}

	r.POST("/webhooks/stripe", wh.Handle)
	return r
}

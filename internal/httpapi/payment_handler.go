package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/service"
)

type PaymentHandler struct {
	svc *service.PaymentSvc
}

func NewPaymentHandler(svc *service.PaymentSvc) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// CreateIntent returns the gateway client secret for the booking's payment.
// Safe to retry: the intent idempotency key is derived from the booking id.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	p, intent, err := h.svc.CreateIntent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payment_id":    p.ID,
		"intent_id":     intent.ID,
		"client_secret": intent.ClientSecret,
		"amount":        p.Amount,
		"currency":      p.Currency,
	})
}

func (h *PaymentHandler) GetByBooking(c *gin.Context) {
	p, err := h.svc.ByBookingID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no payment for booking"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

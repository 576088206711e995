package httpapi

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/gateway"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/service"
)

const maxWebhookBody = 64 << 10

type WebhookHandler struct {
	gw  gateway.Gateway
	rec *service.Reconciler
}

func NewWebhookHandler(gw gateway.Gateway, rec *service.Reconciler) *WebhookHandler {
	return &WebhookHandler{gw: gw, rec: rec}
}

// Handle is the inbound gateway endpoint. The response code is the whole
// contract with the gateway's redelivery: 2xx settles the event, 4xx marks
// it rejected, 5xx asks for another delivery because nothing was committed.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	ev, err := h.gw.VerifyEventSignature(payload, c.GetHeader("Stripe-Signature"))
	if errors.Is(err, gateway.ErrEventIgnored) {
		c.Status(http.StatusOK)
		return
	}
	if err != nil {
		log.Printf("[webhook] signature rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	err = h.rec.HandleGatewayEvent(c.Request.Context(), ev)
	var (
		it *domain.InvalidTransitionError
		ce *domain.ConsistencyError
	)
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.As(err, &it), errors.As(err, &ce):
		// business rejection, already logged by the reconciler
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[webhook] event %s not processed: %v", ev.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event not processed"})
	}
}

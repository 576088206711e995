package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/domain"
	"github.com/Dev-Ahmed-Ashraf/Hotel-Booking-API-sub000/internal/service"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	svc *service.BookingSvc
}

func NewBookingHandler(svc *service.BookingSvc) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type createBookingBody struct {
	UserID   string `json:"user_id" binding:"required"`
	RoomID   string `json:"room_id" binding:"required"`
	CheckIn  string `json:"check_in" binding:"required"`  // YYYY-MM-DD
	CheckOut string `json:"check_out" binding:"required"` // YYYY-MM-DD, exclusive
}

func (h *BookingHandler) Create(c *gin.Context) {
	var body createBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ci, co, ok := parseDates(c, body.CheckIn, body.CheckOut)
	if !ok {
		return
	}

	b, err := h.svc.Create(c.Request.Context(), body.UserID, body.RoomID, ci, co)
	if err != nil {
		writeBookingErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

type rescheduleBody struct {
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	var body rescheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ci, co, ok := parseDates(c, body.CheckIn, body.CheckOut)
	if !ok {
		return
	}

	b, err := h.svc.Reschedule(c.Request.Context(), c.Param("id"), ci, co)
	if err != nil {
		writeBookingErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type statusBody struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(body.Status), body.Reason)
	if err != nil {
		writeBookingErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type cancelBody struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var body cancelBody
	_ = c.ShouldBindJSON(&body) // reason may be empty
	b, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), body.Reason)
	if err != nil {
		writeBookingErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBookingErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) Delete(c *gin.Context) {
	force := c.Query("force") == "true"
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), force); err != nil {
		writeBookingErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) RoomAvailability(c *gin.Context) {
	ci, co, ok := parseDates(c, c.Query("check_in"), c.Query("check_out"))
	if !ok {
		return
	}
	free, err := h.svc.IsAvailable(c.Request.Context(), c.Param("id"), ci, co)
	if err != nil {
		writeBookingErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": free})
}

func parseDates(c *gin.Context, in, out string) (time.Time, time.Time, bool) {
	ci, err := time.Parse(dateLayout, in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	co, err := time.Parse(dateLayout, out)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	return ci, co, true
}

func writeBookingErr(c *gin.Context, err error) {
	var it *domain.InvalidTransitionError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrRoomUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrBookingNotTerminal),
		errors.As(err, &it):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

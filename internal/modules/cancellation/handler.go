package cancellation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photomarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	// Reason is optional, an empty or absent body is acceptable.
	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.service.RequestCancellation(c.Request.Context(), bookingID, userID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking does not exist")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "NOT_YOUR_BOOKING", "This booking belongs to another user")
		case errors.Is(err, ErrNotCancellable):
			response.Error(c, http.StatusConflict, "NOT_CANCELLABLE", "Booking can no longer be cancelled")
		case errors.Is(err, ErrUpstream):
			// The cancellation itself went through; the refund stays
			// pending and a retry will pick it up.
			response.Error(c, http.StatusBadGateway, "REFUND_DEFERRED", "Cancellation recorded, refund processing failed and will be retried")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel booking")
		}
		return
	}

	status := http.StatusOK
	if !result.AlreadyCancelled {
		status = http.StatusCreated
	}
	response.Success(c, status, gin.H{
		"refund":            result.Refund,
		"outcome":           result.Outcome,
		"already_cancelled": result.AlreadyCancelled,
	})
}

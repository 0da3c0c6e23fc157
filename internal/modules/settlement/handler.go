package settlement

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"photomarket/internal/domain"
	"photomarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes exposes the transfer operations for back-office and
// scheduler use; the caller wires them behind the cron-secret middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/settlement/transfer-deposit", h.TransferDeposit)
	rg.POST("/settlement/transfer-balance", h.TransferBalance)
}

type transferRequest struct {
	BookingID          int64  `json:"booking_id" binding:"required"`
	DestinationAccount string `json:"destination_account"`
}

func (h *Handler) TransferDeposit(c *gin.Context) {
	h.handleTransfer(c, h.service.TransferDeposit)
}

func (h *Handler) TransferBalance(c *gin.Context) {
	h.handleTransfer(c, h.service.TransferBalance)
}

func (h *Handler) handleTransfer(c *gin.Context, fn func(context.Context, int64, string) (*domain.Transfer, error)) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	entry, err := fn(c.Request.Context(), req.BookingID, req.DestinationAccount)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking does not exist")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrNotTransferable):
			response.Error(c, http.StatusConflict, "NOT_TRANSFERABLE", err.Error())
		case errors.Is(err, ErrUpstream):
			response.Error(c, http.StatusBadGateway, "PAYMENT_UPSTREAM", "Payment processor call failed")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Transfer failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transfer": entry})
}

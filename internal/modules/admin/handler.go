package admin

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

// RegisterRoutes mounts the admin endpoints. The group must be protected
// by the admin-role middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/refunds/pending-review", h.PendingReview)
	rg.POST("/admin/refunds/:id/force-majeure", h.ForceMajeure)
}

func (h *Handler) PendingReview(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	refunds, err := h.service.PendingReview(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list refunds")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"refunds": refunds})
}

type forceMajeureRequest struct {
	Note string `json:"note"`
}

func (h *Handler) ForceMajeure(c *gin.Context) {
	adminID := c.GetInt64("user_id")
	if adminID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	refundID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || refundID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid refund ID")
		return
	}

	var req forceMajeureRequest
	_ = c.ShouldBindJSON(&req)

	refund, err := h.service.ForceMajeureRefund(c.Request.Context(), refundID, adminID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "REFUND_NOT_FOUND", "Refund does not exist")
		case errors.Is(err, ErrNotStrictPolicy):
			response.Error(c, http.StatusUnprocessableEntity, "NOT_STRICT_POLICY", "Only Strict-policy refunds can be overridden")
		case errors.Is(err, ErrRefundProcessed):
			response.Error(c, http.StatusConflict, "ALREADY_PROCESSED", "Refund has already been processed")
		case errors.Is(err, ErrUpstream):
			response.Error(c, http.StatusBadGateway, "PAYMENT_UPSTREAM", "Payment processor rejected the refund")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to apply override")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"refund": refund})
}

package order

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
	rg.POST("/orders", h.Create)
	rg.GET("/orders", h.ListOwn)
	rg.GET("/orders/:id", h.Get)
	rg.POST("/orders/:id/pay", h.MarkPaid)
}

type createOrderRequest struct {
	PhotographeID int64   `json:"photographe_id" binding:"required"`
	TotalAmount   float64 `json:"total_amount" binding:"required"`
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	o, err := h.service.Create(c.Request.Context(), userID, req.PhotographeID, req.TotalAmount)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create order")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"order": o})
}

func (h *Handler) Get(c *gin.Context) {
	h.withOwnOrder(c, func(orderID, userID int64) {
		o, err := h.service.Get(c.Request.Context(), orderID, userID)
		if err != nil {
			h.mapError(c, err, "Failed to load order")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"order": o})
	})
}

func (h *Handler) MarkPaid(c *gin.Context) {
	h.withOwnOrder(c, func(orderID, userID int64) {
		o, err := h.service.MarkPaid(c.Request.Context(), orderID, userID)
		if err != nil {
			h.mapError(c, err, "Failed to record payment")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"order": o})
	})
}

func (h *Handler) ListOwn(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, err := h.service.ListOwn(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list orders")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": rows})
}

func (h *Handler) withOwnOrder(c *gin.Context, fn func(orderID, userID int64)) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}
	fn(orderID, userID)
}

func (h *Handler) mapError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order does not exist")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "NOT_YOUR_ORDER", "This order belongs to another user")
	case errors.Is(err, ErrNotPayable):
		response.Error(c, http.StatusConflict, "NOT_PAYABLE", "Order is not in a payable state")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

package jobs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"photomarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the sweeps. The group must be protected by the
// cron-secret middleware; these endpoints mutate without a user context.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/auto-confirm-orders", h.run(h.service.AutoConfirmOrders))
	rg.POST("/jobs/auto-complete-bookings", h.run(h.service.AutoCompleteBookings))
	rg.POST("/jobs/auto-transfer-balances", h.run(h.service.AutoTransferBalances))
	rg.POST("/jobs/send-reminders", h.run(h.service.SendReminders))
	rg.POST("/jobs/run-all", h.RunAll)
}

func (h *Handler) run(sweep func(context.Context) (*Result, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := sweep(c.Request.Context())
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "SWEEP_FAILED", err.Error())
			return
		}
		response.Success(c, http.StatusOK, res)
	}
}

func (h *Handler) RunAll(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.RunAll(c.Request.Context()))
}

package api

import (
	"net/http"

	resdto "library-lending/internal/handler/dto/response"
	"library-lending/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintenanceUseCase commands.MaintenanceCommands
}

func NewMaintenanceHandler(maintenanceUseCase commands.MaintenanceCommands) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceUseCase: maintenanceUseCase}
}

// @Summary Run overdue sweep
// @Description Flag open loans past their due date as overdue
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SweepResponse
// @Router /maintenance/overdue-sweep [post]
func (h *MaintenanceHandler) OverdueSweep(c *gin.Context) {
	result, err := h.maintenanceUseCase.RunOverdueSweep(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromSweepResult(result))
}

// @Summary Run expiry sweep
// @Description Expire available reservations whose pickup window has lapsed
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SweepResponse
// @Router /maintenance/expiry-sweep [post]
func (h *MaintenanceHandler) ExpirySweep(c *gin.Context) {
	result, err := h.maintenanceUseCase.RunExpirySweep(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromSweepResult(result))
}

// @Summary Flush pickup notifications
// @Description Deliver pending pickup notices and mark them sent
// @Tags maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SweepResponse
// @Router /maintenance/notification-flush [post]
func (h *MaintenanceHandler) NotificationFlush(c *gin.Context) {
	result, err := h.maintenanceUseCase.RunNotificationFlush(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromSweepResult(result))
}

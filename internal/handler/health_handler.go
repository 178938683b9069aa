package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-scheduler-api/pkg/response"
)

// HealthHandler serves liveness probes.
type HealthHandler struct{}

// NewHealthHandler constructs the handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /healthcheck [get]
func (h *HealthHandler) Check(c *gin.Context) {
	response.JSON(c, http.StatusOK, "ok", nil)
}

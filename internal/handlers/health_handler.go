package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ModelInfo describes the loaded models for the readiness probe.
type ModelInfo interface {
	Device() string
	SpeechBackend() string
	TranslationBackend() string
}

// HealthHandler serves liveness and readiness
type HealthHandler struct {
	models ModelInfo
}

func NewHealthHandler(models ModelInfo) *HealthHandler {
	return &HealthHandler{models: models}
}

// Health reports that the process is up
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Ready reports the device and backends once models are loaded
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ErrorResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.models == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "models not loaded"})
		return
	}
	c.JSON(http.StatusOK, ReadyResponse{
		Status:             "ready",
		Device:             h.models.Device(),
		SpeechBackend:      h.models.SpeechBackend(),
		TranslationBackend: h.models.TranslationBackend(),
	})
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/internal/service"
	"github.com/airfork/uts-dpm-sub000/pkg/response"
)

// AutogenHandler serves the daily autogen pipeline.
type AutogenHandler struct {
	svc    service.AutogenService
	logger *zap.Logger
}

// NewAutogenHandler creates the AutogenHandler.
func NewAutogenHandler(svc service.AutogenService, logger *zap.Logger) *AutogenHandler {
	return &AutogenHandler{svc: svc, logger: logger}
}

// Preview handles GET /autogen.
func (h *AutogenHandler) Preview(c *gin.Context) {
	preview, err := h.svc.Preview(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrShiftSourceUnavailable) {
			response.BadGateway(c, 50201, "shift source unavailable")
			return
		}
		h.logger.Error("autogen preview failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, preview)
}

// Submit handles POST /autogen.
func (h *AutogenHandler) Submit(c *gin.Context) {
	err := h.svc.Submit(c.Request.Context(), callerID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadySubmitted):
			response.Conflict(c, 40901, "autogen already submitted today")
		case errors.Is(err, service.ErrShiftSourceUnavailable):
			response.BadGateway(c, 50201, "shift source unavailable")
		default:
			h.logger.Error("autogen submit failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

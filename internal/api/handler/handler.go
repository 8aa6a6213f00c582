package handler

import (
	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/internal/service"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Autogen *AutogenHandler
	Dpm     *DpmHandler
}

// New creates the Handler aggregate.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Autogen: NewAutogenHandler(svc.Autogen, logger),
		Dpm:     NewDpmHandler(svc.UserDpm, svc.Dpm, logger),
	}
}

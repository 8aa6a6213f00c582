package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/internal/dto"
	"github.com/airfork/uts-dpm-sub000/internal/service"
	"github.com/airfork/uts-dpm-sub000/pkg/response"
)

// DpmHandler serves the points ledger and the type catalog.
type DpmHandler struct {
	userDpmSvc service.UserDpmService
	dpmSvc     service.DpmService
	logger     *zap.Logger
}

// NewDpmHandler creates the DpmHandler.
func NewDpmHandler(userDpmSvc service.UserDpmService, dpmSvc service.DpmService, logger *zap.Logger) *DpmHandler {
	return &DpmHandler{userDpmSvc: userDpmSvc, dpmSvc: dpmSvc, logger: logger}
}

// Create handles POST /dpms.
func (h *DpmHandler) Create(c *gin.Context) {
	var req dto.CreateDpmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	dpm, err := h.userDpmSvc.Create(c.Request.Context(), callerID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			response.BadRequest(c, 40002, "date must be MM/DD/YYYY")
		case errors.Is(err, service.ErrNameNotFound):
			response.NotFound(c, 40401, "no driver with that name")
		case errors.Is(err, service.ErrDpmTypeNotFound):
			response.NotFound(c, 40402, "dpm type not found")
		default:
			h.logger.Error("creating dpm failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.Created(c, gin.H{"id": dpm.ID})
}

// UpdateStatus handles PATCH /dpms/:id.
func (h *DpmHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, 40003, "invalid dpm id")
		return
	}

	var req dto.UpdateDpmStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	err = h.userDpmSvc.UpdateStatus(c.Request.Context(), callerID(c), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDpmNotFound):
			response.NotFound(c, 40403, "dpm not found")
		case errors.Is(err, service.ErrNotAuthorized):
			response.Forbidden(c, 40302, "not authorized for this dpm")
		default:
			h.logger.Error("updating dpm status failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// GetUnapproved handles GET /dpms/unapproved.
func (h *DpmHandler) GetUnapproved(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 40004, "invalid paging parameters")
		return
	}

	dpms, total, err := h.userDpmSvc.GetUnapproved(c.Request.Context(), callerID(c), &page)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			response.Forbidden(c, 40302, "not authorized")
			return
		}
		h.logger.Error("listing unapproved dpms failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OKPage(c, dpms, total, page.GetPage(), page.GetPageSize())
}

// GetForUser handles GET /users/:id/dpms.
func (h *DpmHandler) GetForUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, 40005, "invalid user id")
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 40004, "invalid paging parameters")
		return
	}

	dpms, total, err := h.userDpmSvc.GetForUser(c.Request.Context(), userID, &page)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 40404, "user not found")
			return
		}
		h.logger.Error("listing user dpms failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OKPage(c, dpms, total, page.GetPage(), page.GetPageSize())
}

// GetCurrent handles GET /dpms/current.
func (h *DpmHandler) GetCurrent(c *gin.Context) {
	dpms, err := h.userDpmSvc.GetCurrent(c.Request.Context(), callerID(c))
	if err != nil {
		h.logger.Error("listing current dpms failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, dpms)
}

// GetTypes handles GET /dpms/types.
func (h *DpmHandler) GetTypes(c *gin.Context) {
	groups, err := h.dpmSvc.GetGroups(c.Request.Context())
	if err != nil {
		h.logger.Error("listing dpm types failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, groups)
}

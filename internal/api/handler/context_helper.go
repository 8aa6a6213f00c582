package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/airfork/uts-dpm-sub000/internal/api/middleware"
)

// callerID returns the authenticated user's id from the request context.
// The auth middleware guarantees it is set on protected routes.
func callerID(c *gin.Context) int {
	return c.GetInt(middleware.CtxUserID)
}

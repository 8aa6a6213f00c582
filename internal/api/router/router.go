package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/config"
	"github.com/airfork/uts-dpm-sub000/internal/api/handler"
	"github.com/airfork/uts-dpm-sub000/internal/api/middleware"
	"github.com/airfork/uts-dpm-sub000/internal/model"
	"github.com/airfork/uts-dpm-sub000/pkg/jwt"
	"github.com/airfork/uts-dpm-sub000/pkg/redis"
	"github.com/airfork/uts-dpm-sub000/pkg/response"
)

// New builds the gin engine with all routes and middleware.
func New(
	h *handler.Handler,
	jwtManager *jwt.Manager,
	rdb *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(&cfg.Server.CORS))
	r.Use(middleware.RateLimit(rdb, 300, time.Minute, logger))

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtManager, rdb, logger))
	{
		autogen := v1.Group("/autogen")
		autogen.Use(middleware.RoleAuth(model.RoleAdmin))
		{
			autogen.GET("", h.Autogen.Preview)
			autogen.POST("", h.Autogen.Submit)
		}

		dpms := v1.Group("/dpms")
		{
			dpms.GET("/current", h.Dpm.GetCurrent)
			dpms.GET("/types", h.Dpm.GetTypes)

			dpms.POST("",
				middleware.RoleAuth(model.RoleAdmin, model.RoleManager, model.RoleSupervisor),
				h.Dpm.Create)
			dpms.GET("/unapproved",
				middleware.RoleAuth(model.RoleAdmin, model.RoleManager),
				h.Dpm.GetUnapproved)
			dpms.PATCH("/:id",
				middleware.RoleAuth(model.RoleAdmin, model.RoleManager),
				h.Dpm.UpdateStatus)
		}

		v1.GET("/users/:id/dpms",
			middleware.RoleAuth(model.RoleAdmin, model.RoleManager),
			h.Dpm.GetForUser)
	}

	return r
}

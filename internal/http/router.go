package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/unaytac-cmd/printnest-sub000/internal/http/handlers"
	httpMW "github.com/unaytac-cmd/printnest-sub000/internal/http/middleware"
)

type RouterConfig struct {
	AuthMiddleware   *httpMW.AuthMiddleware
	GangsheetHandler *httpH.GangsheetHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.GangsheetHandler != nil {
			protected.POST("/gangsheets", cfg.GangsheetHandler.Generate)
			protected.GET("/gangsheets", cfg.GangsheetHandler.List)
			protected.GET("/gangsheets/:id", cfg.GangsheetHandler.GetStatus)
			protected.POST("/gangsheets/:id/cancel", cfg.GangsheetHandler.Cancel)
			protected.DELETE("/gangsheets/:id", cfg.GangsheetHandler.Delete)
		}
	}

	return r
}

package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/api/docs"
	"github.com/taoyao-code/msp-server/internal/api/middleware"
)

// RouteOptions 路由选项
type RouteOptions struct {
	Auth    middleware.AuthConfig
	Swagger bool
	// CommandRate 调试命令每秒令牌数，0 表示不限
	CommandRate  float64
	CommandBurst int
}

// RegisterRoutes 注册管理接口
// @title MSP Server API
// @version 1.0
// @description 飞控 MSP 命令引擎的管理接口
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func RegisterRoutes(r *gin.Engine, h *Handler, opts RouteOptions, logger *zap.Logger) {
	if r == nil || h == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.Swagger {
		docs.SwaggerInfo.BasePath = "/"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	if opts.Auth.Enabled {
		api.Use(middleware.APIKeyAuth(opts.Auth, logger))
		logger.Info("api authentication enabled", zap.Int("api_keys_count", len(opts.Auth.APIKeys)))
	} else {
		logger.Warn("api authentication disabled - only for development!")
	}

	api.GET("/status", h.Status)
	api.GET("/state", h.State)
	api.GET("/config", h.Config)

	api.GET("/sessions", h.ListSessions)
	api.DELETE("/sessions/:id", h.KickSession)
	api.GET("/commands", h.ListCommands)

	api.GET("/dataflash", h.DataflashSummary)
	api.POST("/dataflash", h.DataflashAppend)
	api.DELETE("/dataflash", h.DataflashErase)

	debug := api.Group("/msp")
	if opts.CommandRate > 0 {
		burst := opts.CommandBurst
		if burst <= 0 {
			burst = 1
		}
		debug.Use(middleware.RateLimit(opts.CommandRate, burst))
	}
	debug.POST("/:cmd", h.Command)

	logger.Info("api routes registered", zap.Bool("swagger", opts.Swagger))
}

package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/nguyentantai21042004/subflow/internal/http/handlers"
	httpMW "github.com/nguyentantai21042004/subflow/internal/http/middleware"
	"github.com/nguyentantai21042004/subflow/internal/logger"
)

type RouterConfig struct {
	ConvertHandler *httpH.ConvertHandler
	HealthHandler  *httpH.HealthHandler

	Logger         logger.Logger
	AllowedOrigins []string
	MaxUploadBytes int64
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Logger))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	api.Use(httpMW.LimitBody(cfg.MaxUploadBytes))
	{
		if cfg.ConvertHandler != nil {
			api.POST("/convert", cfg.ConvertHandler.Convert)
			api.POST("/transcribe", cfg.ConvertHandler.Transcribe)
			api.POST("/export", cfg.ConvertHandler.Export)
		}
	}

	return r
}

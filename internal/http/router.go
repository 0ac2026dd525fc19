package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/edutainment-backend/internal/http/handlers"
	httpMW "github.com/yungbote/edutainment-backend/internal/http/middleware"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Debug       bool
	ServiceName string

	CourseHandler    *httpH.CourseHandler
	NarrationHandler *httpH.NarrationHandler
	ProgressHandler  *httpH.ProgressHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.Debug))

	if cfg.HealthHandler != nil {
		r.GET("/test", cfg.HealthHandler.Test)
	}
	if cfg.CourseHandler != nil {
		r.POST("/generate-course", cfg.CourseHandler.GenerateCourse)
	}
	if cfg.NarrationHandler != nil {
		r.GET("/narration/*filename", cfg.NarrationHandler.Serve)
	}
	if cfg.ProgressHandler != nil {
		r.POST("/lesson-progress", cfg.ProgressHandler.Record)
	}
	return r
}

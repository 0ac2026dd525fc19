package app

import (
	"github.com/yungbote/edutainment-backend/internal/http"
	httpH "github.com/yungbote/edutainment-backend/internal/http/handlers"
	"github.com/yungbote/edutainment-backend/internal/learning/narration"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Course    *httpH.CourseHandler
	Narration *httpH.NarrationHandler
	Progress  *httpH.ProgressHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, store narration.Store) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Course:    httpH.NewCourseHandler(log, services.Plan, services.Extractor, cfg.MaxUploadBytes),
		Narration: httpH.NewNarrationHandler(log, store),
		Progress:  httpH.NewProgressHandler(log, services.Progress),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers) *http.Server {
	serviceName := ""
	if cfg.Tracing.Enabled {
		serviceName = cfg.Tracing.ServiceName
	}
	return http.NewServer(":"+cfg.Port, http.RouterConfig{
		Log:              log,
		Debug:            cfg.Debug,
		ServiceName:      serviceName,
		HealthHandler:    handlers.Health,
		CourseHandler:    handlers.Course,
		NarrationHandler: handlers.Narration,
		ProgressHandler:  handlers.Progress,
	})
}

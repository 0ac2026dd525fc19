package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	"github.com/yungbote/edutainment-backend/internal/data/repos"
	"github.com/yungbote/edutainment-backend/internal/learning/content"
	"github.com/yungbote/edutainment-backend/internal/learning/narration"
	"github.com/yungbote/edutainment-backend/internal/learning/plan"
	"github.com/yungbote/edutainment-backend/internal/learning/progress"
	"github.com/yungbote/edutainment-backend/internal/learning/prompts"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
	"github.com/yungbote/edutainment-backend/internal/platform/textextract"
)

type Services struct {
	Extractor *textextract.Extractor
	Content   *content.Service
	Plan      *plan.Service
	Progress  *progress.Service
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r repos.Set, clients Clients) (Services, error) {
	log.Info("Wiring services...")
	runner := aggregates.NewGormTxRunner(db)

	registry, err := prompts.Load()
	if err != nil {
		return Services{}, fmt.Errorf("load prompts: %w", err)
	}
	temperature := cfg.LLMTemperature
	contentSvc, err := content.NewService(log, clients.LLM, registry, r.GenerationLog, content.Config{
		Model:       cfg.LLMModel,
		Temperature: &temperature,
	})
	if err != nil {
		return Services{}, err
	}

	var narrator plan.Narrator
	if clients.Speech != nil {
		n, err := narration.NewNarrator(log, clients.Speech, clients.Narration)
		if err != nil {
			return Services{}, err
		}
		narrator = n
	}

	planSvc, err := plan.NewService(plan.Deps{
		Log:                  log,
		Runner:               runner,
		Repos:                r,
		Content:              contentSvc,
		Narrator:             narrator,
		Locks:                clients.Locks,
		LockTTL:              cfg.LockTTL,
		NarrationConcurrency: cfg.NarrationConcurrency,
		Debug:                cfg.Debug,
	})
	if err != nil {
		return Services{}, err
	}

	progressSvc, err := progress.NewService(log, runner, r, cfg.Debug)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Extractor: textextract.New(log, clients.Document),
		Content:   contentSvc,
		Plan:      planSvc,
		Progress:  progressSvc,
	}, nil
}

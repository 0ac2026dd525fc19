package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type GenerationLogRepo interface {
	Create(dbc dbctx.Context, rows []*types.GenerationLog) ([]*types.GenerationLog, error)
	ListByArticle(dbc dbctx.Context, articleID uuid.UUID) ([]*types.GenerationLog, error)
}

type generationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationLogRepo(db *gorm.DB, baseLog *logger.Logger) GenerationLogRepo {
	return &generationLogRepo{db: db, log: baseLog.With("repo", "GenerationLogRepo")}
}

func (r *generationLogRepo) Create(dbc dbctx.Context, rows []*types.GenerationLog) ([]*types.GenerationLog, error) {
	if len(rows) == 0 {
		return []*types.GenerationLog{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *generationLogRepo) ListByArticle(dbc dbctx.Context, articleID uuid.UUID) ([]*types.GenerationLog, error) {
	var out []*types.GenerationLog
	if articleID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("article_id = ?", articleID).
		Order("date_created ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

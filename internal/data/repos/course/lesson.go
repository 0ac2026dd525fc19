package course

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type LessonRepo interface {
	GetOrCreate(dbc dbctx.Context, candidate *types.Lesson) (*types.Lesson, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	ListByTopic(dbc dbctx.Context, articleTopicID uuid.UUID, debug bool) ([]*types.Lesson, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) GetOrCreate(dbc dbctx.Context, candidate *types.Lesson) (*types.Lesson, error) {
	if candidate == nil || candidate.ArticleTopicID == uuid.Nil {
		return nil, aggregates.ValidationError("lesson requires an article topic id")
	}
	if candidate.OrderNum < 0 {
		return nil, aggregates.ValidationError("lesson order_num must be >= 0")
	}
	row, outcome, err := aggregates.GetOrCreate(dbc, r.db, candidate)
	if err != nil {
		return nil, err
	}
	if outcome == aggregates.Recovered {
		r.log.Info("lesson insert raced, recovered existing row", "lesson_id", row.ID, "order_num", row.OrderNum)
	}
	return row, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Lesson
	err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByTopic returns a topic's lessons ordered by order_num.
func (r *lessonRepo) ListByTopic(dbc dbctx.Context, articleTopicID uuid.UUID, debug bool) ([]*types.Lesson, error) {
	out := []*types.Lesson{}
	if articleTopicID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("article_topic_id = ? AND debug = ?", articleTopicID, debug).
		Order("order_num ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type LessonCompletionRepo interface {
	GetOrCreate(dbc dbctx.Context, candidate *types.LessonCompletion) (*types.LessonCompletion, error)
	UpdateFlags(dbc dbctx.Context, id uuid.UUID, lessonComplete, answerCorrect bool) (*types.LessonCompletion, error)
}

type lessonCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonCompletionRepo(db *gorm.DB, baseLog *logger.Logger) LessonCompletionRepo {
	return &lessonCompletionRepo{db: db, log: baseLog.With("repo", "LessonCompletionRepo")}
}

func (r *lessonCompletionRepo) GetOrCreate(dbc dbctx.Context, candidate *types.LessonCompletion) (*types.LessonCompletion, error) {
	if candidate == nil || candidate.LessonID == uuid.Nil || candidate.CustomerSessionID == uuid.Nil {
		return nil, aggregates.ValidationError("completion requires lesson and session ids")
	}
	row, outcome, err := aggregates.GetOrCreate(dbc, r.db, candidate)
	if err != nil {
		return nil, err
	}
	if outcome == aggregates.Recovered {
		r.log.Info("completion insert raced, recovered existing row", "lesson_completion_id", row.ID)
	}
	return row, nil
}

// UpdateFlags overwrites both flags and returns the updated row.
func (r *lessonCompletionRepo) UpdateFlags(dbc dbctx.Context, id uuid.UUID, lessonComplete, answerCorrect bool) (*types.LessonCompletion, error) {
	if id == uuid.Nil {
		return nil, aggregates.ValidationError("completion id required")
	}
	tx := dbc.DB(r.db)
	res := tx.Model(&types.LessonCompletion{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"lesson_complete": lessonComplete,
			"answer_correct":  answerCorrect,
		})
	if res.Error != nil {
		return nil, aggregates.MapError("update completion flags", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, aggregates.MapError("update completion flags", gorm.ErrRecordNotFound)
	}
	var out types.LessonCompletion
	if err := tx.Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, aggregates.MapError("reload completion", err)
	}
	return &out, nil
}

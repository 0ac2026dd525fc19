package course

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type ArticleRepo interface {
	GetOrCreate(dbc dbctx.Context, candidate *types.Article) (*types.Article, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Article, error)
}

type articleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	return &articleRepo{db: db, log: baseLog.With("repo", "ArticleRepo")}
}

func (r *articleRepo) GetOrCreate(dbc dbctx.Context, candidate *types.Article) (*types.Article, error) {
	if candidate == nil || strings.TrimSpace(candidate.Filename) == "" {
		return nil, aggregates.ValidationError("article filename required")
	}
	if candidate.ContentHash == "" {
		candidate.ContentHash = types.HashContent(candidate.Content)
	}
	row, outcome, err := aggregates.GetOrCreate(dbc, r.db, candidate)
	if err != nil {
		return nil, err
	}
	r.log.Debug("article resolved", "article_id", row.ID, "outcome", outcome.String())
	return row, nil
}

func (r *articleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Article, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Article
	err := dbc.DB(r.db).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

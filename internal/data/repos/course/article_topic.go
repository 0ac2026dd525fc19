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

type ArticleTopicRepo interface {
	GetOrCreate(dbc dbctx.Context, candidate *types.ArticleTopic) (*types.ArticleTopic, error)
	GetByName(dbc dbctx.Context, articleID uuid.UUID, name string, debug bool) (*types.ArticleTopic, error)
	ListByArticle(dbc dbctx.Context, articleID uuid.UUID, debug bool) ([]*types.ArticleTopic, error)
}

type articleTopicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleTopicRepo(db *gorm.DB, baseLog *logger.Logger) ArticleTopicRepo {
	return &articleTopicRepo{db: db, log: baseLog.With("repo", "ArticleTopicRepo")}
}

func (r *articleTopicRepo) GetOrCreate(dbc dbctx.Context, candidate *types.ArticleTopic) (*types.ArticleTopic, error) {
	if candidate == nil || candidate.ArticleID == uuid.Nil || strings.TrimSpace(candidate.TopicName) == "" {
		return nil, aggregates.ValidationError("topic requires article id and name")
	}
	row, outcome, err := aggregates.GetOrCreate(dbc, r.db, candidate)
	if err != nil {
		return nil, err
	}
	if outcome == aggregates.Recovered {
		r.log.Info("topic insert raced, recovered existing row", "article_topic_id", row.ID, "topic", row.TopicName)
	}
	return row, nil
}

// GetByName looks a topic up within one article.
func (r *articleTopicRepo) GetByName(dbc dbctx.Context, articleID uuid.UUID, name string, debug bool) (*types.ArticleTopic, error) {
	if articleID == uuid.Nil || name == "" {
		return nil, nil
	}
	var out types.ArticleTopic
	err := dbc.DB(r.db).
		Where("article_id = ? AND topic_name = ? AND debug = ?", articleID, name, debug).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *articleTopicRepo) ListByArticle(dbc dbctx.Context, articleID uuid.UUID, debug bool) ([]*types.ArticleTopic, error) {
	var out []*types.ArticleTopic
	if articleID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("article_id = ? AND debug = ?", articleID, debug).
		Order("date_created ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type CustomerArticleTopicRepo interface {
	GetOrCreate(dbc dbctx.Context, candidate *types.CustomerArticleTopic) (*types.CustomerArticleTopic, error)
}

type customerArticleTopicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerArticleTopicRepo(db *gorm.DB, baseLog *logger.Logger) CustomerArticleTopicRepo {
	return &customerArticleTopicRepo{db: db, log: baseLog.With("repo", "CustomerArticleTopicRepo")}
}

func (r *customerArticleTopicRepo) GetOrCreate(dbc dbctx.Context, candidate *types.CustomerArticleTopic) (*types.CustomerArticleTopic, error) {
	if candidate == nil || candidate.ArticleTopicID == uuid.Nil || candidate.CustomerID == uuid.Nil {
		return nil, aggregates.ValidationError("customer topic requires topic and customer ids")
	}
	candidate.TopicExpertise = types.NormalizeExpertise(candidate.TopicExpertise)
	row, outcome, err := aggregates.GetOrCreate(dbc, r.db, candidate)
	if err != nil {
		return nil, err
	}
	if outcome == aggregates.Recovered {
		r.log.Info("customer topic insert raced, recovered existing row", "customer_article_topic_id", row.ID)
	}
	return row, nil
}

package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/edutainment-backend/internal/data/repos/course"
	"github.com/yungbote/edutainment-backend/internal/data/repos/customer"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type CustomerRepo = customer.CustomerRepo
type CustomerSessionRepo = customer.CustomerSessionRepo

type ArticleRepo = course.ArticleRepo
type ArticleTopicRepo = course.ArticleTopicRepo
type CustomerArticleTopicRepo = course.CustomerArticleTopicRepo
type LessonRepo = course.LessonRepo
type LessonCompletionRepo = course.LessonCompletionRepo
type GenerationLogRepo = course.GenerationLogRepo

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	return customer.NewCustomerRepo(db, baseLog)
}
func NewCustomerSessionRepo(db *gorm.DB, baseLog *logger.Logger) CustomerSessionRepo {
	return customer.NewCustomerSessionRepo(db, baseLog)
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	return course.NewArticleRepo(db, baseLog)
}
func NewArticleTopicRepo(db *gorm.DB, baseLog *logger.Logger) ArticleTopicRepo {
	return course.NewArticleTopicRepo(db, baseLog)
}
func NewCustomerArticleTopicRepo(db *gorm.DB, baseLog *logger.Logger) CustomerArticleTopicRepo {
	return course.NewCustomerArticleTopicRepo(db, baseLog)
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return course.NewLessonRepo(db, baseLog)
}
func NewLessonCompletionRepo(db *gorm.DB, baseLog *logger.Logger) LessonCompletionRepo {
	return course.NewLessonCompletionRepo(db, baseLog)
}

func NewGenerationLogRepo(db *gorm.DB, baseLog *logger.Logger) GenerationLogRepo {
	return course.NewGenerationLogRepo(db, baseLog)
}

// Set bundles every repository the course services need.
type Set struct {
	Customer             CustomerRepo
	CustomerSession      CustomerSessionRepo
	Article              ArticleRepo
	ArticleTopic         ArticleTopicRepo
	CustomerArticleTopic CustomerArticleTopicRepo
	Lesson               LessonRepo
	LessonCompletion     LessonCompletionRepo
	GenerationLog        GenerationLogRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Customer:             NewCustomerRepo(db, baseLog),
		CustomerSession:      NewCustomerSessionRepo(db, baseLog),
		Article:              NewArticleRepo(db, baseLog),
		ArticleTopic:         NewArticleTopicRepo(db, baseLog),
		CustomerArticleTopic: NewCustomerArticleTopicRepo(db, baseLog),
		Lesson:               NewLessonRepo(db, baseLog),
		LessonCompletion:     NewLessonCompletionRepo(db, baseLog),
		GenerationLog:        NewGenerationLogRepo(db, baseLog),
	}
}

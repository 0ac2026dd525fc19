package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/edutainment-backend/internal/domain"
)

func SeedCustomer(tb testing.TB, ctx context.Context, tx *gorm.DB) *domain.Customer {
	tb.Helper()
	c := &domain.Customer{ID: uuid.New()}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed customer: %v", err)
	}
	return c
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, customerID uuid.UUID) *domain.CustomerSession {
	tb.Helper()
	s := &domain.CustomerSession{ID: uuid.New(), CustomerID: customerID}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedArticle(tb testing.TB, ctx context.Context, tx *gorm.DB, filename, content string) *domain.Article {
	tb.Helper()
	a := domain.NewArticle(filename, content, false)
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed article: %v", err)
	}
	return a
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, articleID uuid.UUID, name string) *domain.ArticleTopic {
	tb.Helper()
	t := &domain.ArticleTopic{ArticleID: articleID, TopicName: name}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, order int) *domain.Lesson {
	tb.Helper()
	l := &domain.Lesson{
		ArticleTopicID:         topicID,
		LessonContent:          fmt.Sprintf("lesson %d", order),
		Question:               fmt.Sprintf("question %d?", order),
		RightAnswer:            "right",
		WrongAnswer:            "wrong",
		RightAnswerExplanation: "because",
		OrderNum:               order,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

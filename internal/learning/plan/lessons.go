package plan

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/learning/content"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
)

// GetLessons returns the topic's lessons, generating and narrating them the
// first time any customer asks. Expertise is recorded for the customer but
// does not change what is generated.
func (p *LessonPlan) GetLessons(ctx context.Context, topicName, expertise string) ([]*types.Lesson, error) {
	topicName = strings.TrimSpace(topicName)
	ctx, span := tracer.Start(ctx, "LessonPlan.GetLessons", trace.WithAttributes(
		attribute.String("article_id", p.Article.ID.String()),
		attribute.String("topic", topicName),
	))
	defer span.End()

	if topicName == "" {
		return nil, aggregates.ValidationError("topic name required")
	}

	var (
		topic    *types.ArticleTopic
		existing []*types.Lesson
	)
	err := p.svc.runner.InTx(ctx, func(dbc dbctx.Context) error {
		var err error
		topic, err = p.svc.repos.ArticleTopic.GetByName(dbc, p.Article.ID, topicName, p.Debug)
		if err != nil {
			return err
		}
		if topic == nil {
			topic, err = p.svc.repos.ArticleTopic.GetOrCreate(dbc, &types.ArticleTopic{
				ArticleID: p.Article.ID,
				TopicName: topicName,
				Debug:     p.Debug,
			})
			if err != nil {
				return fmt.Errorf("topic: %w", err)
			}
		}
		if _, err := p.svc.repos.CustomerArticleTopic.GetOrCreate(dbc, &types.CustomerArticleTopic{
			ArticleTopicID: topic.ID,
			CustomerID:     p.Customer.ID,
			TopicExpertise: expertise,
			Debug:          p.Debug,
		}); err != nil {
			return fmt.Errorf("customer topic: %w", err)
		}
		existing, err = p.svc.repos.Lesson.ListByTopic(dbc, topic.ID, p.Debug)
		return err
	})
	if err != nil {
		fail(span, err)
		p.log.Error("resolving topic failed", "topic", topicName, "error", err)
		return nil, err
	}
	if len(existing) > 0 {
		span.SetAttributes(attribute.Bool("generated", false))
		return existing, nil
	}

	lessons, err := p.generateOnce(ctx, topic)
	if err != nil {
		fail(span, err)
		p.log.Error("lesson generation failed", "topic", topicName, "error", err)
		return nil, err
	}
	return lessons, nil
}

// generateOnce holds the topic lock across generation so concurrent requests
// for the same topic wait and then read the stored lessons.
func (p *LessonPlan) generateOnce(ctx context.Context, topic *types.ArticleTopic) ([]*types.Lesson, error) {
	release, err := p.svc.locks.Acquire(ctx, "lessons:"+topic.ID.String(), p.svc.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire topic lock: %w", err)
	}
	defer release()

	existing, err := p.svc.repos.Lesson.ListByTopic(dbctx.Context{Ctx: ctx}, topic.ID, p.Debug)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	generated, err := p.gen.Lessons(ctx, topic.TopicName)
	if err != nil {
		return nil, err
	}
	files := p.narrate(ctx, topic, generated)

	out := make([]*types.Lesson, 0, len(generated))
	err = p.svc.runner.InTx(ctx, func(dbc dbctx.Context) error {
		for i, l := range generated {
			row, err := p.svc.repos.Lesson.GetOrCreate(dbc, &types.Lesson{
				ArticleTopicID:         topic.ID,
				LessonContent:          l.Lesson,
				Question:               l.Question,
				RightAnswer:            l.RightAnswer,
				WrongAnswer:            l.WrongAnswer,
				RightAnswerExplanation: l.RightAnswerExplanation,
				OrderNum:               i,
				NarrationFile:          files[i],
				Debug:                  p.Debug,
			})
			if err != nil {
				return fmt.Errorf("lesson %d: %w", i, err)
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.log.Info("lessons generated", "topic", topic.TopicName, "lessons", len(out))
	return out, nil
}

// narrate returns one file name per lesson, nil where narration failed.
func (p *LessonPlan) narrate(ctx context.Context, topic *types.ArticleTopic, lessons []content.Lesson) []*string {
	files := make([]*string, len(lessons))
	if p.svc.narrator == nil {
		return files
	}
	var g errgroup.Group
	g.SetLimit(p.svc.concurrency)
	for i := range lessons {
		g.Go(func() error {
			name, err := p.svc.narrator.Narrate(ctx, topic.ID.String(), lessons[i].Lesson)
			if err != nil {
				p.log.Error("narration failed, continuing without audio", "topic", topic.TopicName, "order_num", i, "error", err)
				return nil
			}
			files[i] = &name
			return nil
		})
	}
	_ = g.Wait()
	return files
}

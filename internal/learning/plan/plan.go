// Package plan builds narrated lesson courses for an uploaded article.
package plan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	"github.com/yungbote/edutainment-backend/internal/data/repos"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/learning/content"
	"github.com/yungbote/edutainment-backend/internal/platform/ctxutil"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/keylock"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

const DefaultLockTTL = 5 * time.Minute

var tracer = otel.Tracer("github.com/yungbote/edutainment-backend/internal/learning/plan")

// Narrator synthesizes and stores the audio for one lesson.
type Narrator interface {
	Narrate(ctx context.Context, id, text string) (string, error)
}

type Deps struct {
	Log     *logger.Logger
	Runner  aggregates.TxRunner
	Repos   repos.Set
	Content *content.Service
	// Narrator may be nil, in which case lessons are stored without audio.
	Narrator             Narrator
	Locks                keylock.Locker
	LockTTL              time.Duration
	NarrationConcurrency int
	Debug                bool
	Now                  func() time.Time
}

// Service creates LessonPlans.
type Service struct {
	log         *logger.Logger
	runner      aggregates.TxRunner
	repos       repos.Set
	content     *content.Service
	narrator    Narrator
	locks       keylock.Locker
	lockTTL     time.Duration
	concurrency int
	debug       bool
	now         func() time.Time
}

func NewService(d Deps) (*Service, error) {
	switch {
	case d.Log == nil:
		return nil, errors.New("plan: logger required")
	case d.Runner == nil:
		return nil, errors.New("plan: tx runner required")
	case d.Content == nil:
		return nil, errors.New("plan: content service required")
	}
	if d.Locks == nil {
		d.Locks = keylock.NewLocal()
	}
	if d.LockTTL <= 0 {
		d.LockTTL = DefaultLockTTL
	}
	if d.NarrationConcurrency <= 0 {
		d.NarrationConcurrency = 1
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		log:         d.Log.With("service", "LessonPlan"),
		runner:      d.Runner,
		repos:       d.Repos,
		content:     d.Content,
		narrator:    d.Narrator,
		locks:       d.Locks,
		lockTTL:     d.LockTTL,
		concurrency: d.NarrationConcurrency,
		debug:       d.Debug,
		now:         d.Now,
	}, nil
}

// Request identifies who is learning which article.
type Request struct {
	SessionID uuid.UUID
	Filename  string
	Text      string
	// Age, when set, overwrites the customer's birth year.
	Age *int
}

// LessonPlan is one customer's course over one article.
type LessonPlan struct {
	svc      *Service
	log      *logger.Logger
	Debug    bool
	Customer *types.Customer
	Session  *types.CustomerSession
	Article  *types.Article
	gen      *content.Generator
}

// New resolves the customer, session and article in one transaction.
func (s *Service) New(ctx context.Context, req Request) (*LessonPlan, error) {
	ctx, span := tracer.Start(ctx, "LessonPlan.New")
	defer span.End()

	if req.SessionID == uuid.Nil {
		return nil, aggregates.ValidationError("session id required")
	}
	if strings.TrimSpace(req.Filename) == "" {
		return nil, aggregates.ValidationError("article filename required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, aggregates.ValidationError("article text required")
	}
	var year *int
	if req.Age != nil {
		if *req.Age < 0 {
			return nil, aggregates.ValidationError("age must not be negative")
		}
		y := s.now().Year() - *req.Age
		year = &y
	}

	p := &LessonPlan{svc: s, Debug: s.debug}
	err := s.runner.InTx(ctx, func(dbc dbctx.Context) error {
		c, err := s.repos.Customer.GetOrCreate(dbc, &types.Customer{ID: req.SessionID, YearOfBirth: year, Debug: s.debug})
		if err != nil {
			return fmt.Errorf("customer: %w", err)
		}
		if year != nil {
			if err := s.repos.Customer.SetYearOfBirth(dbc, c.ID, year); err != nil {
				return fmt.Errorf("customer birth year: %w", err)
			}
			c.YearOfBirth = year
		}
		sess, err := s.repos.CustomerSession.GetOrCreate(dbc, &types.CustomerSession{ID: req.SessionID, CustomerID: c.ID, Debug: s.debug})
		if err != nil {
			return fmt.Errorf("session: %w", err)
		}
		a, err := s.repos.Article.GetOrCreate(dbc, types.NewArticle(req.Filename, req.Text, s.debug))
		if err != nil {
			return fmt.Errorf("article: %w", err)
		}
		p.Customer, p.Session, p.Article = c, sess, a
		return nil
	})
	if err != nil {
		fail(span, err)
		s.log.Error("lesson plan construction failed", "session_id", req.SessionID, "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.String("article_id", p.Article.ID.String()))
	p.gen = s.content.ForArticle(p.Article.ID, p.Article.Content)
	p.log = s.log.With("article_id", p.Article.ID, "session_id", p.Session.ID)
	if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.RequestID != "" {
		p.log = p.log.With("request_id", rd.RequestID)
	}
	return p, nil
}

// GetTopics generates the article's topics and stores each one.
func (p *LessonPlan) GetTopics(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "LessonPlan.GetTopics", trace.WithAttributes(
		attribute.String("article_id", p.Article.ID.String()),
	))
	defer span.End()

	topics, err := p.gen.Topics(ctx)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	err = p.svc.runner.InTx(ctx, func(dbc dbctx.Context) error {
		for _, name := range topics {
			if _, err := p.svc.repos.ArticleTopic.GetOrCreate(dbc, &types.ArticleTopic{
				ArticleID: p.Article.ID,
				TopicName: name,
				Debug:     p.Debug,
			}); err != nil {
				return fmt.Errorf("topic %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		fail(span, err)
		p.log.Error("storing topics failed", "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("topics", len(topics)))
	return topics, nil
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

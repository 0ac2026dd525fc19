// Package progress records how a session is doing on individual lessons.
package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	"github.com/yungbote/edutainment-backend/internal/data/repos"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type Service struct {
	log    *logger.Logger
	runner aggregates.TxRunner
	repos  repos.Set
	debug  bool
}

func NewService(log *logger.Logger, runner aggregates.TxRunner, r repos.Set, debug bool) (*Service, error) {
	if runner == nil {
		return nil, errors.New("progress: tx runner required")
	}
	return &Service{
		log:    log.With("service", "LessonProgress"),
		runner: runner,
		repos:  r,
		debug:  debug,
	}, nil
}

// LessonProgress is one session's completion row for one lesson.
type LessonProgress struct {
	svc        *Service
	Completion *types.LessonCompletion
}

// Open resolves the completion row for lesson and session, creating it the
// first time. Both must already exist.
func (s *Service) Open(ctx context.Context, lessonID, sessionID uuid.UUID) (*LessonProgress, error) {
	var row *types.LessonCompletion
	err := s.runner.InTx(ctx, func(dbc dbctx.Context) error {
		var err error
		row, err = s.open(dbc, lessonID, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &LessonProgress{svc: s, Completion: row}, nil
}

// Update overwrites both flags and commits immediately.
func (p *LessonProgress) Update(ctx context.Context, lessonComplete, answerCorrect bool) error {
	row, err := p.svc.repos.LessonCompletion.UpdateFlags(dbctx.Context{Ctx: ctx}, p.Completion.ID, lessonComplete, answerCorrect)
	if err != nil {
		return err
	}
	p.Completion = row
	return nil
}

// Record opens and updates the completion row in a single transaction.
func (s *Service) Record(ctx context.Context, lessonID, sessionID uuid.UUID, lessonComplete, answerCorrect bool) (*types.LessonCompletion, error) {
	var out *types.LessonCompletion
	err := s.runner.InTx(ctx, func(dbc dbctx.Context) error {
		row, err := s.open(dbc, lessonID, sessionID)
		if err != nil {
			return err
		}
		out, err = s.repos.LessonCompletion.UpdateFlags(dbc, row.ID, lessonComplete, answerCorrect)
		return err
	})
	if err != nil {
		s.log.Warn("recording progress failed", "lesson_id", lessonID, "session_id", sessionID, "error", err)
		return nil, err
	}
	return out, nil
}

func (s *Service) open(dbc dbctx.Context, lessonID, sessionID uuid.UUID) (*types.LessonCompletion, error) {
	if lessonID == uuid.Nil || sessionID == uuid.Nil {
		return nil, aggregates.ValidationError("lesson id and session id required")
	}
	lesson, err := s.repos.Lesson.GetByID(dbc, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, fmt.Errorf("lesson %s: %w", lessonID, aggregates.ErrNotFound)
	}
	sess, err := s.repos.CustomerSession.GetByID(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, aggregates.ErrNotFound)
	}
	return s.repos.LessonCompletion.GetOrCreate(dbc, &types.LessonCompletion{
		LessonID:          lessonID,
		CustomerSessionID: sessionID,
		Debug:             s.debug,
	})
}

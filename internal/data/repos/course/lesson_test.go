package course

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	"github.com/yungbote/edutainment-backend/internal/data/repos/testutil"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
)

func newLesson(topicID uuid.UUID, order int, body string) *types.Lesson {
	return &types.Lesson{
		ArticleTopicID:         topicID,
		LessonContent:          body,
		Question:               "q?",
		RightAnswer:            "r",
		WrongAnswer:            "w",
		RightAnswerExplanation: "e",
		OrderNum:               order,
	}
}

func TestLessonRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLessonRepo(db, testutil.Logger(t))

	a := testutil.SeedArticle(t, ctx, tx, "a.pdf", "article")
	topic := testutil.SeedTopic(t, ctx, tx, a.ID, "Cells")

	second := newLesson(topic.ID, 1, "second")
	if _, err := repo.GetOrCreate(dbc, second); err != nil {
		t.Fatalf("GetOrCreate second: %v", err)
	}
	file := "narration/abc.mp3"
	first := newLesson(topic.ID, 0, "first")
	first.NarrationFile = &file
	created, err := repo.GetOrCreate(dbc, first)
	if err != nil {
		t.Fatalf("GetOrCreate first: %v", err)
	}

	// Narration does not take part in identity.
	again, err := repo.GetOrCreate(dbc, newLesson(topic.ID, 0, "first"))
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if again.ID != created.ID || again.NarrationFile == nil || *again.NarrationFile != file {
		t.Fatalf("expected existing lesson with narration, got %+v", again)
	}

	rows, err := repo.ListByTopic(dbc, topic.ID, false)
	if err != nil {
		t.Fatalf("ListByTopic: %v", err)
	}
	if len(rows) != 2 || rows[0].OrderNum != 0 || rows[1].OrderNum != 1 {
		t.Fatalf("expected lessons ordered by order_num, got %d rows", len(rows))
	}
	if rows, err := repo.ListByTopic(dbc, uuid.New(), false); err != nil || len(rows) != 0 {
		t.Fatalf("ListByTopic unknown: err=%v len=%d", err, len(rows))
	}
	if got, err := repo.GetByID(dbc, created.ID); err != nil || got == nil || got.LessonContent != "first" {
		t.Fatalf("GetByID: err=%v row=%v", err, got)
	}
	if _, err := repo.GetOrCreate(dbc, newLesson(uuid.Nil, 0, "x")); !errors.Is(err, aggregates.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLessonCompletionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLessonCompletionRepo(db, testutil.Logger(t))

	c := testutil.SeedCustomer(t, ctx, tx)
	s := testutil.SeedSession(t, ctx, tx, c.ID)
	a := testutil.SeedArticle(t, ctx, tx, "a.pdf", "article")
	topic := testutil.SeedTopic(t, ctx, tx, a.ID, "Cells")
	lesson := testutil.SeedLesson(t, ctx, tx, topic.ID, 0)

	row, err := repo.GetOrCreate(dbc, &types.LessonCompletion{LessonID: lesson.ID, CustomerSessionID: s.ID})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	updated, err := repo.UpdateFlags(dbc, row.ID, true, true)
	if err != nil {
		t.Fatalf("UpdateFlags: %v", err)
	}
	if !updated.LessonComplete || !updated.AnswerCorrect {
		t.Fatalf("flags not updated: %+v", updated)
	}

	// Flags are insert-only, so a fresh candidate still resolves the same row.
	again, err := repo.GetOrCreate(dbc, &types.LessonCompletion{LessonID: lesson.ID, CustomerSessionID: s.ID})
	if err != nil || again.ID != row.ID {
		t.Fatalf("expected same completion: err=%v", err)
	}
	if !again.LessonComplete || !again.AnswerCorrect {
		t.Fatalf("expected stored flags, got %+v", again)
	}

	updated, err = repo.UpdateFlags(dbc, row.ID, false, false)
	if err != nil || updated.LessonComplete || updated.AnswerCorrect {
		t.Fatalf("UpdateFlags false: err=%v row=%+v", err, updated)
	}
	if _, err := repo.UpdateFlags(dbc, uuid.New(), true, true); !errors.Is(err, aggregates.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerationLogRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewGenerationLogRepo(db, testutil.Logger(t))

	a := testutil.SeedArticle(t, ctx, tx, "a.pdf", "article")
	rows, err := repo.Create(dbc, []*types.GenerationLog{
		{ArticleID: &a.ID, CallType: types.CallTypeTopics, Provider: "openai", Model: "m", Success: true, Usage: datatypes.JSON([]byte(`{"total_tokens":12}`))},
		{ArticleID: &a.ID, CallType: types.CallTypeLessons, TopicName: "Cells", Provider: "openai", Model: "m", Error: "bad json"},
	})
	if err != nil || len(rows) != 2 {
		t.Fatalf("Create: err=%v len=%d", err, len(rows))
	}
	got, err := repo.ListByArticle(dbc, a.ID)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListByArticle: err=%v len=%d", err, len(got))
	}
	if out, err := repo.Create(dbc, nil); err != nil || len(out) != 0 {
		t.Fatalf("Create empty: err=%v len=%d", err, len(out))
	}
}

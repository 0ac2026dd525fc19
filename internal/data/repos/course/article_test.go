package course

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/edutainment-backend/internal/data/aggregates"
	"github.com/yungbote/edutainment-backend/internal/data/repos/testutil"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
)

func TestArticleRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewArticleRepo(db, testutil.Logger(t))

	a, err := repo.GetOrCreate(dbc, &types.Article{Filename: "notes.pdf", Content: "photosynthesis"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if a.ContentHash != types.HashContent("photosynthesis") {
		t.Fatalf("content hash not filled in")
	}

	same, err := repo.GetOrCreate(dbc, types.NewArticle("notes.pdf", "photosynthesis", false))
	if err != nil {
		t.Fatalf("GetOrCreate same: %v", err)
	}
	if same.ID != a.ID {
		t.Fatalf("expected same article, got %s and %s", a.ID, same.ID)
	}

	other, err := repo.GetOrCreate(dbc, types.NewArticle("notes.pdf", "respiration", false))
	if err != nil {
		t.Fatalf("GetOrCreate other content: %v", err)
	}
	if other.ID == a.ID {
		t.Fatalf("different content must be a different article")
	}

	if got, err := repo.GetByID(dbc, a.ID); err != nil || got == nil || got.Content != "photosynthesis" {
		t.Fatalf("GetByID: err=%v row=%v", err, got)
	}
	if got, err := repo.GetByID(dbc, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID unknown: err=%v row=%v", err, got)
	}
	if _, err := repo.GetOrCreate(dbc, &types.Article{Content: "x"}); !errors.Is(err, aggregates.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestArticleTopicRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewArticleTopicRepo(db, testutil.Logger(t))

	a := testutil.SeedArticle(t, ctx, tx, "a.pdf", "article a")
	b := testutil.SeedArticle(t, ctx, tx, "b.pdf", "article b")

	topic, err := repo.GetOrCreate(dbc, &types.ArticleTopic{ArticleID: a.ID, TopicName: "Cells"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	again, err := repo.GetOrCreate(dbc, &types.ArticleTopic{ArticleID: a.ID, TopicName: "Cells"})
	if err != nil || again.ID != topic.ID {
		t.Fatalf("expected same topic: err=%v", err)
	}
	otherArticle, err := repo.GetOrCreate(dbc, &types.ArticleTopic{ArticleID: b.ID, TopicName: "Cells"})
	if err != nil {
		t.Fatalf("GetOrCreate other article: %v", err)
	}
	if otherArticle.ID == topic.ID {
		t.Fatalf("topic names are scoped per article")
	}

	got, err := repo.GetByName(dbc, a.ID, "Cells", false)
	if err != nil || got == nil || got.ID != topic.ID {
		t.Fatalf("GetByName: err=%v row=%v", err, got)
	}
	if got, err := repo.GetByName(dbc, a.ID, "Cells", true); err != nil || got != nil {
		t.Fatalf("GetByName debug: err=%v row=%v", err, got)
	}

	if _, err := repo.GetOrCreate(dbc, &types.ArticleTopic{ArticleID: a.ID, TopicName: "Energy"}); err != nil {
		t.Fatalf("GetOrCreate second topic: %v", err)
	}
	rows, err := repo.ListByArticle(dbc, a.ID, false)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByArticle: err=%v len=%d", err, len(rows))
	}
}

func TestCustomerArticleTopicRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCustomerArticleTopicRepo(db, testutil.Logger(t))

	c := testutil.SeedCustomer(t, ctx, tx)
	a := testutil.SeedArticle(t, ctx, tx, "a.pdf", "article")
	topic := testutil.SeedTopic(t, ctx, tx, a.ID, "Cells")

	row, err := repo.GetOrCreate(dbc, &types.CustomerArticleTopic{ArticleTopicID: topic.ID, CustomerID: c.ID, TopicExpertise: "Beginner"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if row.TopicExpertise != types.ExpertiseBeginner {
		t.Fatalf("expertise: got %q", row.TopicExpertise)
	}
	again, err := repo.GetOrCreate(dbc, &types.CustomerArticleTopic{ArticleTopicID: topic.ID, CustomerID: c.ID, TopicExpertise: "beginner"})
	if err != nil || again.ID != row.ID {
		t.Fatalf("expected same row: err=%v", err)
	}
	if _, err := repo.GetOrCreate(dbc, &types.CustomerArticleTopic{ArticleTopicID: topic.ID, CustomerID: c.ID, TopicExpertise: "advanced"}); err != nil {
		t.Fatalf("GetOrCreate other expertise: %v", err)
	}
	var n int64
	if err := tx.Model(&types.CustomerArticleTopic{}).Where("customer_id = ?", c.ID).Count(&n).Error; err != nil || n != 2 {
		t.Fatalf("customer topics: err=%v count=%d", err, n)
	}
}

package content

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/edutainment-backend/internal/data/repos"
	"github.com/yungbote/edutainment-backend/internal/data/repos/testutil"
	"github.com/yungbote/edutainment-backend/internal/learning/prompts"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/llm"
)

type fakeLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	reqs    []llm.Request
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return llm.Response{}, f.err
	}
	if len(f.replies) == 0 {
		return llm.Response{}, errors.New("no reply queued")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return llm.Response{Text: r, Usage: llm.Usage{TotalTokens: 42}}, nil
}

func newService(t *testing.T, client llm.Client, audit repos.GenerationLogRepo) *Service {
	t.Helper()
	reg, err := prompts.Load()
	if err != nil {
		t.Fatalf("prompts.Load: %v", err)
	}
	svc, err := NewService(testutil.Logger(t), client, reg, audit, Config{Model: "gpt-3.5-turbo-16k"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestTopicsFiltersByRelevance(t *testing.T) {
	client := &fakeLLM{replies: []string{
		`{"topics":[{"topic":"A","relevance_to_subject":"low"},{"topic":"B","relevance_to_subject":"high"}]}`,
	}}
	gen := newService(t, client, nil).ForArticle(uuid.Nil, "article body")

	got, err := gen.Topics(context.Background())
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if len(got) != 1 || got[0] != "B" {
		t.Fatalf("want [B], got %v", got)
	}

	req := client.reqs[0]
	if req.Temperature != DefaultTemperature {
		t.Fatalf("temperature: want=%v got=%v", DefaultTemperature, req.Temperature)
	}
	if !strings.Contains(req.User, "article body") || req.System == "" {
		t.Fatalf("prompt not rendered: %+v", req)
	}
}

func TestTopicsKeepsModelOrder(t *testing.T) {
	client := &fakeLLM{replies: []string{"```json\n" + `{"topics":[
		{"topic":"Zeta","relevance_to_subject":"medium"},
		{"topic":"Alpha","relevance_to_subject":"High"},
		{"topic":"Noise","relevance_to_subject":"low"},
		{"topic":"Zeta","relevance_to_subject":"high"},
		{"topic":"Mid","relevance_to_subject":"medium"}]}` + "\n```"}}
	gen := newService(t, client, nil).ForArticle(uuid.Nil, "text")

	got, err := gen.Topics(context.Background())
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	want := []string{"Zeta", "Alpha", "Mid"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestInvalidReplies(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		call  func(*Generator) error
	}{
		{"topics not json", "Sure! Here are your topics.", func(g *Generator) error { _, err := g.Topics(context.Background()); return err }},
		{"topics missing key", `{"subjects":[]}`, func(g *Generator) error { _, err := g.Topics(context.Background()); return err }},
		{"topics missing relevance", `{"topics":[{"topic":"A"}]}`, func(g *Generator) error { _, err := g.Topics(context.Background()); return err }},
		{"lessons not json", `{"instruction": [`, func(g *Generator) error { _, err := g.Lessons(context.Background(), "A"); return err }},
		{"lessons missing key", `{"lessons":[]}`, func(g *Generator) error { _, err := g.Lessons(context.Background(), "A"); return err }},
		{"lessons missing field", `{"instruction":[{"lesson":"l","question":"q"}]}`, func(g *Generator) error { _, err := g.Lessons(context.Background(), "A"); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := newService(t, &fakeLLM{replies: []string{tc.reply}}, nil).ForArticle(uuid.Nil, "text")
			err := tc.call(gen)
			if !errors.Is(err, ErrInvalidReply) {
				t.Fatalf("expected ErrInvalidReply, got %v", err)
			}
			var re *ReplyError
			if !errors.As(err, &re) || re.Raw != tc.reply {
				t.Fatalf("expected raw reply on error, got %v", err)
			}
		})
	}
}

func TestLessonsParsesInstruction(t *testing.T) {
	client := &fakeLLM{replies: []string{`{"instruction":[
		{"lesson":"Plants make food.","question":"What do plants make?","right_answer":"Food","wrong_answer":"Rocks","right_answer_explanation":"Photosynthesis makes sugar."},
		{"lesson":"Light is needed.","question":"What is needed?","right_answer":"Light","wrong_answer":"Dark","right_answer_explanation":"Light drives it."}]}`}}
	gen := newService(t, client, nil).ForArticle(uuid.Nil, "text")

	got, err := gen.Lessons(context.Background(), "Photosynthesis")
	if err != nil {
		t.Fatalf("Lessons: %v", err)
	}
	if len(got) != 2 || got[0].Lesson != "Plants make food." || got[1].RightAnswer != "Light" {
		t.Fatalf("unexpected lessons %+v", got)
	}
	if !strings.Contains(client.reqs[0].User, "Photosynthesis") {
		t.Fatalf("topic not rendered into prompt")
	}
}

func TestTransportErrorIsNotInvalidReply(t *testing.T) {
	boom := errors.New("upstream 503")
	gen := newService(t, &fakeLLM{err: boom}, nil).ForArticle(uuid.Nil, "text")
	_, err := gen.Topics(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if errors.Is(err, ErrInvalidReply) {
		t.Fatalf("transport error must not be classified as invalid reply")
	}
}

func TestGenerationIsAudited(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	article := testutil.SeedArticle(t, ctx, db, "a.pdf", "text")
	audit := repos.NewGenerationLogRepo(db, testutil.Logger(t))

	client := &fakeLLM{replies: []string{
		`{"topics":[{"topic":"A","relevance_to_subject":"high"}]}`,
		`not json`,
	}}
	gen := newService(t, client, audit).ForArticle(article.ID, "text")
	if _, err := gen.Topics(ctx); err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if _, err := gen.Lessons(ctx, "A"); !errors.Is(err, ErrInvalidReply) {
		t.Fatalf("expected invalid reply, got %v", err)
	}

	rows, err := audit.ListByArticle(dbctx.Context{Ctx: ctx}, article.ID)
	if err != nil {
		t.Fatalf("ListByArticle: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(rows))
	}
	reg, err := prompts.Load()
	if err != nil {
		t.Fatalf("prompts.Load: %v", err)
	}
	want := map[string]string{}
	for _, name := range []prompts.PromptName{prompts.PromptTopics, prompts.PromptLessons} {
		topic := ""
		if name == prompts.PromptLessons {
			topic = "A"
		}
		p, err := reg.Build("gpt-3.5-turbo-16k", name, prompts.Input{Article: "text", Topic: topic})
		if err != nil {
			t.Fatalf("Build %s: %v", name, err)
		}
		want[string(name)] = p.Fingerprint()
	}
	byType := map[string]bool{}
	for _, r := range rows {
		byType[r.CallType] = r.Success
		if r.PromptHash == "" || r.PromptHash != want[r.CallType] {
			t.Fatalf("%s prompt hash = %q, want %q", r.CallType, r.PromptHash, want[r.CallType])
		}
	}
	if !byType["topics"] {
		t.Fatalf("topics call should be recorded as success")
	}
	if ok, seen := byType["lessons"]; !seen || ok {
		t.Fatalf("lessons call should be recorded as failure")
	}
}

func TestNewServiceValidates(t *testing.T) {
	reg, err := prompts.Load()
	if err != nil {
		t.Fatalf("prompts.Load: %v", err)
	}
	log := testutil.Logger(t)
	if _, err := NewService(log, nil, reg, nil, Config{Model: "m"}); err == nil {
		t.Fatalf("expected error without client")
	}
	if _, err := NewService(log, &fakeLLM{}, nil, nil, Config{Model: "m"}); err == nil {
		t.Fatalf("expected error without prompts")
	}
	if _, err := NewService(log, &fakeLLM{}, reg, nil, Config{}); err == nil {
		t.Fatalf("expected error without model")
	}
	hot := float32(2.5)
	if _, err := NewService(log, &fakeLLM{}, reg, nil, Config{Model: "m", Temperature: &hot}); err == nil {
		t.Fatalf("expected error for temperature above the maximum")
	}
}

func TestZeroTemperatureIsKept(t *testing.T) {
	reg, err := prompts.Load()
	if err != nil {
		t.Fatalf("prompts.Load: %v", err)
	}
	client := &fakeLLM{replies: []string{`{"topics":[{"topic":"A","relevance_to_subject":"high"}]}`}}
	zero := float32(0)
	svc, err := NewService(testutil.Logger(t), client, reg, nil, Config{Model: "gpt-3.5-turbo-16k", Temperature: &zero})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.ForArticle(uuid.Nil, "article body").Topics(context.Background()); err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if got := client.reqs[0].Temperature; got != 0 {
		t.Fatalf("temperature: want=0 got=%v", got)
	}
}

package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/edutainment-backend/internal/data/repos"
	types "github.com/yungbote/edutainment-backend/internal/domain"
	"github.com/yungbote/edutainment-backend/internal/learning/prompts"
	"github.com/yungbote/edutainment-backend/internal/platform/dbctx"
	"github.com/yungbote/edutainment-backend/internal/platform/llm"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

const DefaultTemperature float32 = 0.6

// MaxTemperature is the upper bound both providers accept.
const MaxTemperature float32 = 2

type Config struct {
	Model string
	// Temperature nil means DefaultTemperature; 0 is a valid setting.
	Temperature *float32
}

// Service builds article-bound generators that share one LLM client.
type Service struct {
	log         *logger.Logger
	client      llm.Client
	prompts     *prompts.Registry
	audit       repos.GenerationLogRepo
	model       string
	temperature float32
}

// NewService wires a content service. audit may be nil.
func NewService(log *logger.Logger, client llm.Client, reg *prompts.Registry, audit repos.GenerationLogRepo, cfg Config) (*Service, error) {
	if client == nil {
		return nil, errors.New("content: llm client required")
	}
	if reg == nil {
		return nil, errors.New("content: prompt registry required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("content: model required")
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	if temperature < 0 || temperature > MaxTemperature {
		return nil, fmt.Errorf("content: temperature %v outside [0, %v]", temperature, MaxTemperature)
	}
	return &Service{
		log:         log.With("service", "ContentGenerator", "provider", client.Provider(), "model", cfg.Model),
		client:      client,
		prompts:     reg,
		audit:       audit,
		model:       cfg.Model,
		temperature: temperature,
	}, nil
}

// ForArticle binds a generator to one article's text.
func (s *Service) ForArticle(articleID uuid.UUID, text string) *Generator {
	return &Generator{svc: s, articleID: articleID, text: text}
}

// Generator produces topics and lessons for a single article.
type Generator struct {
	svc       *Service
	articleID uuid.UUID
	text      string
}

// Topics asks the model for the article's topics and keeps those rated
// medium or high, in model order.
func (g *Generator) Topics(ctx context.Context) ([]string, error) {
	raw, entry, err := g.complete(ctx, prompts.PromptTopics, "")
	if err != nil {
		return nil, err
	}
	topics, perr := parseTopics(raw)
	if perr != nil {
		return nil, g.invalid(ctx, entry, "generate topics", raw, perr)
	}
	g.record(ctx, entry)
	return topics, nil
}

// Lessons asks the model for the lesson sequence teaching topic.
func (g *Generator) Lessons(ctx context.Context, topic string) ([]Lesson, error) {
	raw, entry, err := g.complete(ctx, prompts.PromptLessons, topic)
	if err != nil {
		return nil, err
	}
	lessons, perr := parseLessons(raw)
	if perr != nil {
		return nil, g.invalid(ctx, entry, "generate lessons", raw, perr)
	}
	g.record(ctx, entry)
	return lessons, nil
}

// complete sends one prompt. Transport failures are audited here; the caller
// audits the returned entry once it has parsed the reply.
func (g *Generator) complete(ctx context.Context, name prompts.PromptName, topic string) (string, *types.GenerationLog, error) {
	s := g.svc
	op := "generate " + string(name)
	p, err := s.prompts.Build(s.model, name, prompts.Input{Article: g.text, Topic: topic})
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	resp, err := s.client.Complete(ctx, llm.Request{
		Model:       s.model,
		System:      p.System,
		User:        p.User,
		Temperature: s.temperature,
	})
	entry := &types.GenerationLog{
		TopicName:  topic,
		CallType:   callType(name),
		Provider:   s.client.Provider(),
		Model:      s.model,
		PromptName: fmt.Sprintf("%s@%s/v%d", p.Name, p.Set, p.Version),
		PromptHash: p.Fingerprint(),
		Prompt:     p.User,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if g.articleID != uuid.Nil {
		id := g.articleID
		entry.ArticleID = &id
	}
	if err != nil {
		entry.Error = err.Error()
		g.record(ctx, entry)
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	entry.Response = resp.Text
	entry.Success = true
	if resp.Model != "" {
		entry.Model = resp.Model
	}
	if b, merr := json.Marshal(resp.Usage); merr == nil {
		entry.Usage = datatypes.JSON(b)
	}
	return resp.Text, entry, nil
}

func (g *Generator) invalid(ctx context.Context, entry *types.GenerationLog, op, raw string, cause error) error {
	g.svc.log.Error("model reply rejected", "op", op, "error", cause, "raw_response", raw)
	entry.Success = false
	entry.Error = cause.Error()
	g.record(ctx, entry)
	return &ReplyError{Op: op, Raw: raw, Err: cause}
}

// record persists an audit row outside any caller transaction. Failures are
// logged and otherwise ignored.
func (g *Generator) record(ctx context.Context, entry *types.GenerationLog) {
	if g.svc.audit == nil {
		return
	}
	if _, err := g.svc.audit.Create(dbctx.Context{Ctx: ctx}, []*types.GenerationLog{entry}); err != nil {
		g.svc.log.Warn("generation log write failed", "call_type", entry.CallType, "error", err)
	}
}

func callType(name prompts.PromptName) string {
	if name == prompts.PromptLessons {
		return types.CallTypeLessons
	}
	return types.CallTypeTopics
}

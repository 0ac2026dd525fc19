package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CallTypeTopics  = "topics"
	CallTypeLessons = "lessons"
)

// GenerationLog records one LLM call made while building a course.
type GenerationLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID  *uuid.UUID     `gorm:"type:uuid;index" json:"article_id,omitempty"`
	TopicName  string         `gorm:"column:topic_name" json:"topic_name,omitempty"`
	CallType   string         `gorm:"column:call_type;not null;index" json:"call_type"`
	Provider   string         `gorm:"column:provider;not null" json:"provider"`
	Model      string         `gorm:"column:model;not null" json:"model"`
	PromptName string         `gorm:"column:prompt_name" json:"prompt_name"`
	PromptHash string         `gorm:"column:prompt_hash;index" json:"prompt_hash"`
	Prompt     string         `gorm:"column:prompt;type:text" json:"prompt"`
	Response   string         `gorm:"column:response;type:text" json:"response"`
	Success    bool           `gorm:"column:success;not null" json:"success"`
	Error      string         `gorm:"column:error;type:text" json:"error,omitempty"`
	Usage      datatypes.JSON `gorm:"column:usage" json:"usage,omitempty"`
	DurationMS int64          `gorm:"column:duration_ms" json:"duration_ms"`
	CreatedAt  time.Time      `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

func (GenerationLog) TableName() string { return "generation_logs" }

func (g *GenerationLog) BeforeCreate(*gorm.DB) error { ensureID(&g.ID); return nil }

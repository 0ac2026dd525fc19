package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"customer_id"`
	YearOfBirth *int      `gorm:"column:year_of_birth" json:"year_of_birth,omitempty"`
	Debug       bool      `gorm:"column:debug;not null;default:false" json:"debug"`
	CreatedAt   time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }

// Birth year is maintained by LessonPlan, not part of identity.
func (Customer) InsertOnly() []string { return []string{"year_of_birth"} }

type CustomerSession struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"customer_session_id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Debug      bool      `gorm:"column:debug;not null;default:false" json:"debug"`
	CreatedAt  time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

func (CustomerSession) TableName() string { return "customer_sessions" }

func (s *CustomerSession) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }

func (CustomerSession) KeyPins() []string { return []string{"customer_id"} }

// Article is keyed by (filename, content_hash); Content itself is too large to
// compare in a lookup.
type Article struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"article_id"`
	Filename    string    `gorm:"column:filename;not null;index:idx_article_natural,unique,priority:1" json:"filename"`
	ContentHash string    `gorm:"column:content_hash;size:64;not null;index:idx_article_natural,unique,priority:2" json:"content_hash"`
	Content     string    `gorm:"column:content;type:text;not null" json:"content"`
	Debug       bool      `gorm:"column:debug;not null;default:false;index:idx_article_natural,unique,priority:3" json:"debug"`
	CreatedAt   time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

func (Article) TableName() string { return "articles" }

func (a *Article) BeforeCreate(*gorm.DB) error { ensureID(&a.ID); return nil }

func (Article) InsertOnly() []string { return []string{"content"} }

// HashContent is the hex sha256 stored in Article.ContentHash.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// NewArticle builds an Article candidate with its content hash filled in.
func NewArticle(filename, content string, debug bool) *Article {
	return &Article{
		Filename:    filename,
		ContentHash: HashContent(content),
		Content:     content,
		Debug:       debug,
	}
}

type ArticleTopic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"article_topic_id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;index:idx_article_topic_natural,unique,priority:1" json:"article_id"`
	TopicName string    `gorm:"column:topic_name;not null;index:idx_article_topic_natural,unique,priority:2" json:"topic_name"`
	Debug     bool      `gorm:"column:debug;not null;default:false;index:idx_article_topic_natural,unique,priority:3" json:"debug"`
	CreatedAt time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

func (ArticleTopic) TableName() string { return "article_topics" }

func (t *ArticleTopic) BeforeCreate(*gorm.DB) error { ensureID(&t.ID); return nil }

func (ArticleTopic) KeyPins() []string { return []string{"article_id"} }

const (
	ExpertiseBeginner     = "beginner"
	ExpertiseIntermediate = "intermediate"
	ExpertiseAdvanced     = "advanced"
)

// NormalizeExpertise lowercases known levels and maps anything else to
// intermediate.
func NormalizeExpertise(s string) string {
	switch v := normalize(s); v {
	case ExpertiseBeginner, ExpertiseIntermediate, ExpertiseAdvanced:
		return v
	default:
		return ExpertiseIntermediate
	}
}

type CustomerArticleTopic struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"customer_article_topic_id"`
	ArticleTopicID uuid.UUID `gorm:"type:uuid;not null;index:idx_customer_article_topic_natural,unique,priority:1" json:"article_topic_id"`
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_customer_article_topic_natural,unique,priority:2" json:"customer_id"`
	TopicExpertise string    `gorm:"column:topic_expertise;not null;default:'intermediate';index:idx_customer_article_topic_natural,unique,priority:3" json:"topic_expertise"`
	Debug          bool      `gorm:"column:debug;not null;default:false;index:idx_customer_article_topic_natural,unique,priority:4" json:"debug"`
	CreatedAt      time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

func (CustomerArticleTopic) TableName() string { return "customer_article_topics" }

func (c *CustomerArticleTopic) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }

func (CustomerArticleTopic) KeyPins() []string { return []string{"article_topic_id", "customer_id"} }

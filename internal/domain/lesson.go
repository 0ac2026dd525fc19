package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey" json:"lesson_id"`
	ArticleTopicID         uuid.UUID `gorm:"type:uuid;not null;index:idx_lesson_order,unique,priority:1" json:"article_topic_id"`
	LessonContent          string    `gorm:"column:lesson_content;type:text;not null" json:"lesson_content"`
	Question               string    `gorm:"column:question;type:text;not null" json:"question"`
	RightAnswer            string    `gorm:"column:right_answer;type:text;not null" json:"right_answer"`
	WrongAnswer            string    `gorm:"column:wrong_answer;type:text;not null" json:"wrong_answer"`
	RightAnswerExplanation string    `gorm:"column:right_answer_explanation;type:text;not null" json:"right_answer_explanation"`
	OrderNum               int       `gorm:"column:order_num;not null;index:idx_lesson_order,unique,priority:2" json:"order_num"`
	NarrationFile          *string   `gorm:"column:narration_file" json:"narration_file"`
	VideoFile              *string   `gorm:"column:video_file" json:"video_file"`
	Debug                  bool      `gorm:"column:debug;not null;default:false;index:idx_lesson_order,unique,priority:3" json:"debug"`
	CreatedAt              time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

func (Lesson) TableName() string { return "lessons" }

func (l *Lesson) BeforeCreate(*gorm.DB) error { ensureID(&l.ID); return nil }

func (Lesson) KeyPins() []string { return []string{"article_topic_id"} }

// Media paths depend on provider success, so they never take part in lookup.
func (Lesson) InsertOnly() []string { return []string{"narration_file", "video_file"} }

type LessonCompletion struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"lesson_completion_id"`
	CustomerSessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_lesson_completion_natural,unique,priority:1" json:"customer_session_id"`
	LessonID          uuid.UUID `gorm:"type:uuid;not null;index:idx_lesson_completion_natural,unique,priority:2" json:"lesson_id"`
	LessonComplete    bool      `gorm:"column:lesson_complete;not null;default:false" json:"lesson_complete"`
	AnswerCorrect     bool      `gorm:"column:answer_correct;not null;default:false" json:"answer_correct"`
	Debug             bool      `gorm:"column:debug;not null;default:false;index:idx_lesson_completion_natural,unique,priority:3" json:"debug"`
	CreatedAt         time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`
}

func (LessonCompletion) TableName() string { return "lesson_completions" }

func (c *LessonCompletion) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }

func (LessonCompletion) KeyPins() []string { return []string{"lesson_id", "customer_session_id"} }

func (LessonCompletion) InsertOnly() []string { return []string{"lesson_complete", "answer_correct"} }

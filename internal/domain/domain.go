// Package domain holds the persisted course entities.
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// All returns every model, in migration order.
func All() []any {
	return []any{
		&Customer{},
		&CustomerSession{},
		&Article{},
		&ArticleTopic{},
		&CustomerArticleTopic{},
		&Lesson{},
		&LessonCompletion{},
		&GenerationLog{},
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

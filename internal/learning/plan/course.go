package plan

import (
	"context"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/edutainment-backend/internal/domain"
)

// CourseRequest is one /generate-course upload.
type CourseRequest struct {
	SessionID uuid.UUID
	Filename  string
	Text      string
	Age       *int
	Expertise string
	// ChangeTopic, when set, limits the course to that single topic.
	ChangeTopic string
}

// Course maps each topic name to its ordered lessons.
type Course map[string][]*types.Lesson

// GenerateCourse builds a plan for the upload and returns lessons for every
// topic, or only for ChangeTopic when one is given.
func (s *Service) GenerateCourse(ctx context.Context, req CourseRequest) (Course, error) {
	ctx, span := tracer.Start(ctx, "LessonPlan.GenerateCourse")
	defer span.End()

	p, err := s.New(ctx, Request{
		SessionID: req.SessionID,
		Filename:  req.Filename,
		Text:      req.Text,
		Age:       req.Age,
	})
	if err != nil {
		fail(span, err)
		return nil, err
	}

	var topics []string
	if t := strings.TrimSpace(req.ChangeTopic); t != "" {
		topics = []string{t}
	} else {
		topics, err = p.GetTopics(ctx)
		if err != nil {
			fail(span, err)
			return nil, err
		}
	}

	course := make(Course, len(topics))
	for _, t := range topics {
		lessons, err := p.GetLessons(ctx, t, req.Expertise)
		if err != nil {
			fail(span, err)
			return nil, err
		}
		course[t] = lessons
	}
	return course, nil
}

package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidReply marks model output that is not the JSON object asked for.
var ErrInvalidReply = errors.New("invalid model reply")

// ReplyError carries the raw reply that failed to parse.
type ReplyError struct {
	Op  string
	Raw string
	Err error
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrInvalidReply.Error(), e.Err)
}

func (e *ReplyError) Unwrap() error { return e.Err }

func (e *ReplyError) Is(target error) bool { return target == ErrInvalidReply }

// Lesson is one generated lesson with its quiz question.
type Lesson struct {
	Lesson                 string `json:"lesson"`
	Question               string `json:"question"`
	RightAnswer            string `json:"right_answer"`
	WrongAnswer            string `json:"wrong_answer"`
	RightAnswerExplanation string `json:"right_answer_explanation"`
}

type topicItem struct {
	Topic     *string `json:"topic"`
	Relevance *string `json:"relevance_to_subject"`
}

type lessonItem struct {
	Lesson                 *string `json:"lesson"`
	Question               *string `json:"question"`
	RightAnswer            *string `json:"right_answer"`
	WrongAnswer            *string `json:"wrong_answer"`
	RightAnswerExplanation *string `json:"right_answer_explanation"`
}

// parseTopics keeps medium and high relevance topics in model order.
func parseTopics(raw string) ([]string, error) {
	var items []topicItem
	if err := decodeKey(raw, "topics", &items); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	seen := map[string]bool{}
	for i, it := range items {
		if it.Topic == nil || it.Relevance == nil {
			return nil, fmt.Errorf("topics[%d]: missing topic or relevance_to_subject", i)
		}
		switch strings.ToLower(strings.TrimSpace(*it.Relevance)) {
		case "medium", "high":
		default:
			continue
		}
		name := strings.TrimSpace(*it.Topic)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

func parseLessons(raw string) ([]Lesson, error) {
	var items []lessonItem
	if err := decodeKey(raw, "instruction", &items); err != nil {
		return nil, err
	}
	out := make([]Lesson, 0, len(items))
	for i, it := range items {
		if it.Lesson == nil || it.Question == nil || it.RightAnswer == nil ||
			it.WrongAnswer == nil || it.RightAnswerExplanation == nil {
			return nil, fmt.Errorf("instruction[%d]: missing lesson field", i)
		}
		out = append(out, Lesson{
			Lesson:                 strings.TrimSpace(*it.Lesson),
			Question:               strings.TrimSpace(*it.Question),
			RightAnswer:            strings.TrimSpace(*it.RightAnswer),
			WrongAnswer:            strings.TrimSpace(*it.WrongAnswer),
			RightAnswerExplanation: strings.TrimSpace(*it.RightAnswerExplanation),
		})
	}
	return out, nil
}

func decodeKey(raw, key string, dst any) error {
	body, err := jsonObject(raw)
	if err != nil {
		return err
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return fmt.Errorf("reply is not a JSON object: %w", err)
	}
	val, ok := top[key]
	if !ok {
		return fmt.Errorf("reply has no %q key", key)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return fmt.Errorf("%q is not a list of objects: %w", key, err)
	}
	return nil
}

// jsonObject trims code fences and surrounding prose down to the outermost
// {...} span of the reply.
func jsonObject(raw string) ([]byte, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return nil, errors.New("reply contains no JSON object")
	}
	body := []byte(s[start : end+1])
	if !json.Valid(body) {
		return nil, errors.New("reply is not valid JSON")
	}
	return bytes.TrimSpace(body), nil
}

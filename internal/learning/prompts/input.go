package prompts

import (
	"fmt"
	"strings"
)

// Input carries the values prompt templates render.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	Article string
	Topic   string
}

type Validator func(Input) error

func requireArticle(in Input) error {
	if strings.TrimSpace(in.Article) == "" {
		return fmt.Errorf("article text required")
	}
	return nil
}

func requireTopic(in Input) error {
	if strings.TrimSpace(in.Topic) == "" {
		return fmt.Errorf("topic required")
	}
	return nil
}

package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Spec is one prompt set as declared in prompts.yaml.
type Spec struct {
	Version       int    `yaml:"version"`
	SystemPrompt  string `yaml:"system_prompt"`
	TopicsPrompt  string `yaml:"topics_prompt"`
	LessonsPrompt string `yaml:"lessons_prompt"`
}

// Template is a compiled prompt: renderers plus the validators its input must pass.
type Template struct {
	Name       PromptName
	Version    int
	System     func(Input) (string, error)
	User       func(Input) (string, error)
	Validators []Validator
}

// MakeTemplates compiles a Spec into the topics and lessons templates.
func MakeTemplates(set string, s Spec) (map[PromptName]Template, error) {
	if s.Version <= 0 {
		return nil, fmt.Errorf("invalid version for prompt set %s", set)
	}
	if strings.TrimSpace(s.SystemPrompt) == "" {
		return nil, fmt.Errorf("prompt set %s: missing system_prompt", set)
	}
	sys, err := parse(set, "system_prompt", s.SystemPrompt)
	if err != nil {
		return nil, err
	}
	topics, err := parse(set, "topics_prompt", s.TopicsPrompt)
	if err != nil {
		return nil, err
	}
	lessons, err := parse(set, "lessons_prompt", s.LessonsPrompt)
	if err != nil {
		return nil, err
	}
	return map[PromptName]Template{
		PromptTopics: {
			Name:       PromptTopics,
			Version:    s.Version,
			System:     render(sys),
			User:       render(topics),
			Validators: []Validator{requireArticle},
		},
		PromptLessons: {
			Name:       PromptLessons,
			Version:    s.Version,
			System:     render(sys),
			User:       render(lessons),
			Validators: []Validator{requireArticle, requireTopic},
		},
	}, nil
}

func parse(set, field, text string) (*template.Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("prompt set %s: missing %s", set, field)
	}
	t, err := template.New(field).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("prompt set %s %s parse: %w", set, field, err)
	}
	return t, nil
}

func render(t *template.Template) func(Input) (string, error) {
	return func(in Input) (string, error) {
		var b bytes.Buffer
		if err := t.Execute(&b, in); err != nil {
			return "", err
		}
		return strings.TrimSpace(b.String()), nil
	}
}

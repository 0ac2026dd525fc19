package prompts

type PromptName string

const (
	PromptTopics  PromptName = "topics"
	PromptLessons PromptName = "lessons"
)

// DefaultSet is used for models without their own prompt set.
const DefaultSet = "default"

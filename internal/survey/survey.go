// ABOUTME: Ordered questionnaires and answer collection
// ABOUTME: The caller's console asks each question in turn; answers keep question order
package survey

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoQuestions is returned for a questionnaire without questions
var ErrNoQuestions = errors.New("questionnaire has no questions")

// Question is one prompt shown to the user. Label is what the model sees.
type Question struct {
	Key    string `json:"key" yaml:"key"`
	Label  string `json:"label" yaml:"label"`
	Prompt string `json:"prompt" yaml:"prompt"`
}

// Answer pairs a question with what the user typed
type Answer struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Question string `json:"question"`
	Text     string `json:"answer"`
}

// Questionnaire is a fixed set of questions plus the instructions sent with the answers
type Questionnaire struct {
	Name         string     `json:"name" yaml:"name"`
	Locale       string     `json:"locale" yaml:"locale"`
	SystemPrompt string     `json:"system_prompt" yaml:"system_prompt"`
	Instruction  string     `json:"instruction" yaml:"instruction"`
	Questions    []Question `json:"questions" yaml:"questions"`
	MaxTokens    int        `json:"max_tokens,omitempty" yaml:"max_tokens"`
}

// Validate checks that every question has a unique key and a prompt
func (q *Questionnaire) Validate() error {
	if len(q.Questions) == 0 {
		return ErrNoQuestions
	}
	seen := make(map[string]bool, len(q.Questions))
	for i, question := range q.Questions {
		if strings.TrimSpace(question.Key) == "" {
			return fmt.Errorf("question %d has no key", i)
		}
		if strings.TrimSpace(question.Prompt) == "" {
			return fmt.Errorf("question %q has no prompt", question.Key)
		}
		if seen[question.Key] {
			return fmt.Errorf("duplicate question key %q", question.Key)
		}
		seen[question.Key] = true
	}
	return nil
}

// Asker shows a prompt to the user and returns the reply
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Collect asks every question in order. Blank replies are kept as empty answers.
func Collect(ctx context.Context, asker Asker, q *Questionnaire) ([]Answer, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	answers := make([]Answer, 0, len(q.Questions))
	for _, question := range q.Questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := asker.Ask(ctx, question.Prompt)
		if err != nil {
			return nil, fmt.Errorf("asking %q: %w", question.Key, err)
		}
		answers = append(answers, newAnswer(question, text))
	}
	return answers, nil
}

// AnswersFromMap builds ordered answers from key/value input such as MCP tool arguments.
// Missing keys become empty answers; unknown keys are rejected.
func AnswersFromMap(q *Questionnaire, values map[string]string) ([]Answer, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(q.Questions))
	answers := make([]Answer, 0, len(q.Questions))
	for _, question := range q.Questions {
		known[question.Key] = true
		answers = append(answers, newAnswer(question, values[question.Key]))
	}
	for key := range values {
		if !known[key] {
			return nil, fmt.Errorf("unknown answer key %q for questionnaire %q", key, q.Name)
		}
	}
	return answers, nil
}

func newAnswer(q Question, text string) Answer {
	label := q.Label
	if label == "" {
		label = q.Key
	}
	return Answer{
		Key:      q.Key,
		Label:    label,
		Question: q.Prompt,
		Text:     strings.TrimSpace(text),
	}
}

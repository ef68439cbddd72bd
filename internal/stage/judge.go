// ABOUTME: Judge collaborator that rules on stage continuation
// ABOUTME: LLMJudge turns a text generator into a yes/no judge using locale prompts
package stage

import (
	"context"

	"github.com/harper/stagewise/internal/llm"
)

// Judge returns a free-text opinion on whether the dialogue may leave current
type Judge interface {
	Judge(ctx context.Context, current, dialogue string) (string, error)
}

// JudgeFunc adapts a function to Judge
type JudgeFunc func(ctx context.Context, current, dialogue string) (string, error)

func (f JudgeFunc) Judge(ctx context.Context, current, dialogue string) (string, error) {
	return f(ctx, current, dialogue)
}

// LLMJudge asks a text-generation model
type LLMJudge struct {
	gen    llm.Generator
	locale Locale
}

// NewLLMJudge creates a judge speaking the locale's language
func NewLLMJudge(gen llm.Generator, locale Locale) *LLMJudge {
	return &LLMJudge{gen: gen, locale: locale}
}

func (j *LLMJudge) Judge(ctx context.Context, current, dialogue string) (string, error) {
	return j.gen.Generate(ctx, j.locale.SystemPrompt, j.locale.Question(current, dialogue))
}

// NewLLMEvaluator wires an LLMJudge and an Evaluator for the same locale
func NewLLMEvaluator(gen llm.Generator, locale Locale, extraMarkers ...string) *Evaluator {
	return NewEvaluator(NewLLMJudge(gen, locale), WithLocale(locale), WithMarkers(extraMarkers...))
}

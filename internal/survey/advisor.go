// ABOUTME: Turns collected answers into a model recommendation
// ABOUTME: Formats "Label: answer" lines plus the instruction and calls the generator
package survey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/stagewise/internal/llm"
)

// ErrRecommendationFailed wraps generator failures
var ErrRecommendationFailed = errors.New("recommendation failed")

// Result is what the advise command prints and the journal stores
type Result struct {
	Questionnaire  string    `json:"questionnaire"`
	Answers        []Answer  `json:"answers"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"created_at"`
}

// JSON renders the result indented by four spaces without escaping non-ASCII or HTML
func (r *Result) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Advisor asks the model for a recommendation
type Advisor struct {
	gen llm.Generator
	now func() time.Time
}

// NewAdvisor creates an advisor backed by gen
func NewAdvisor(gen llm.Generator) *Advisor {
	return &Advisor{gen: gen, now: time.Now}
}

// BuildPrompt renders the user prompt for a set of answers
func BuildPrompt(q *Questionnaire, answers []Answer) string {
	var b strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&b, "%s: %s\n", a.Label, a.Text)
	}
	b.WriteString(q.Instruction)
	return b.String()
}

// Recommend sends the answers to the model and returns the trimmed reply
func (a *Advisor) Recommend(ctx context.Context, q *Questionnaire, answers []Answer) (*Result, error) {
	gen := llm.LimitTokens(a.gen, q.MaxTokens)

	reply, err := gen.Generate(ctx, q.SystemPrompt, BuildPrompt(q, answers))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecommendationFailed, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, fmt.Errorf("%w: %v", ErrRecommendationFailed, llm.ErrEmptyResponse)
	}

	return &Result{
		Questionnaire:  q.Name,
		Answers:        answers,
		Recommendation: reply,
		CreatedAt:      a.now().UTC(),
	}, nil
}

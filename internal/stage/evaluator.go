// ABOUTME: Stage progression evaluator
// ABOUTME: Asks a judge whether the dialogue may move on and returns the resulting stage
package stage

import (
	"context"
	"strings"
	"unicode"
)

// Outcome is the full result of one evaluation
type Outcome struct {
	Current  string `json:"current"`
	Next     string `json:"next_stage"`
	Advanced bool   `json:"advanced"`
	Terminal bool   `json:"terminal"`
	Reply    string `json:"reply,omitempty"`
}

// Evaluator decides stage transitions. It holds no per-call state and
// is safe for concurrent use as long as its Judge is.
type Evaluator struct {
	judge   Judge
	locale  Locale
	markers map[string]struct{}
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithLocale sets the terminal sentinel and the default affirmative markers
func WithLocale(loc Locale) Option {
	return func(e *Evaluator) {
		e.locale = loc
	}
}

// WithMarkers adds affirmative markers on top of the locale's own
func WithMarkers(markers ...string) Option {
	return func(e *Evaluator) {
		for _, m := range markers {
			e.addMarker(m)
		}
	}
}

// NewEvaluator creates an evaluator backed by judge
func NewEvaluator(judge Judge, opts ...Option) *Evaluator {
	e := &Evaluator{
		judge:   judge,
		locale:  locales[DefaultLocale],
		markers: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, m := range e.locale.Markers {
		e.addMarker(m)
	}
	return e
}

func (e *Evaluator) addMarker(m string) {
	m = strings.ToLower(strings.TrimSpace(m))
	if m != "" {
		e.markers[m] = struct{}{}
	}
}

// Terminal returns the sentinel returned when no further stage exists
func (e *Evaluator) Terminal() string {
	return e.locale.Terminal
}

// IsTerminal reports whether result is the terminal sentinel
func (e *Evaluator) IsTerminal(result string) bool {
	return result == e.locale.Terminal
}

// Advance returns the next stage when the judge agrees, current otherwise,
// or the terminal sentinel when current is already the last stage.
func (e *Evaluator) Advance(ctx context.Context, stages []string, current, dialogue string) (string, error) {
	out, err := e.Evaluate(ctx, stages, current, dialogue)
	if err != nil {
		return "", err
	}
	return out.Next, nil
}

// Evaluate is Advance with the judge's reply and flags attached
func (e *Evaluator) Evaluate(ctx context.Context, stages []string, current, dialogue string) (*Outcome, error) {
	seq := Sequence(stages)
	idx := seq.Index(current)
	if idx < 0 {
		return nil, &InvalidStageError{Stage: current}
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}

	if idx == len(seq)-1 {
		return &Outcome{Current: current, Next: e.locale.Terminal, Terminal: true}, nil
	}

	reply, err := e.judge.Judge(ctx, current, dialogue)
	if err != nil {
		return nil, &ServiceUnavailableError{Stage: current, Err: err}
	}

	out := &Outcome{Current: current, Next: current, Reply: reply}
	if e.IsAffirmative(reply) {
		out.Next = seq[idx+1]
		out.Advanced = true
	}
	return out, nil
}

// IsAffirmative reports whether reply contains one of the markers as a whole word
func (e *Evaluator) IsAffirmative(reply string) bool {
	words := strings.FieldsFunc(strings.ToLower(reply), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		if _, ok := e.markers[w]; ok {
			return true
		}
	}
	return false
}

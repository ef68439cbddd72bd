// ABOUTME: Tests for the stage progression evaluator
// ABOUTME: Uses a recording stub judge to verify calls, decisions and error taxonomy

package stage

import (
	"context"
	"errors"
	"testing"
)

type stubJudge struct {
	reply string
	err   error
	calls int
	last  [2]string
}

func (s *stubJudge) Judge(ctx context.Context, current, dialogue string) (string, error) {
	s.calls++
	s.last = [2]string{current, dialogue}
	return s.reply, s.err
}

func TestAdvance_AffirmativeMovesForward(t *testing.T) {
	judge := &stubJudge{reply: "yes, looks good"}
	e := NewEvaluator(judge)

	got, err := e.Advance(context.Background(), []string{"A", "B", "C"}, "B", "dialogue")
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if got != "C" {
		t.Errorf("Advance() = %q, want %q", got, "C")
	}
	if judge.calls != 1 {
		t.Errorf("judge calls = %d, want 1", judge.calls)
	}
	if judge.last != [2]string{"B", "dialogue"} {
		t.Errorf("judge called with %v", judge.last)
	}
}

func TestAdvance_NonAffirmativeStays(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain no", "No, the client is still hesitant."},
		{"empty", ""},
		{"marker inside word", "We spoke yesterday, not ready."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(&stubJudge{reply: tt.reply})
			got, err := e.Advance(context.Background(), []string{"A", "B", "C"}, "A", "d")
			if err != nil {
				t.Fatalf("Advance() error = %v", err)
			}
			if got != "A" {
				t.Errorf("Advance() = %q, want %q", got, "A")
			}
		})
	}
}

func TestAdvance_CaseInsensitiveMarker(t *testing.T) {
	e := NewEvaluator(&stubJudge{reply: "YES. The needs are clear."})
	got, err := e.Advance(context.Background(), []string{"A", "B"}, "A", "d")
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if got != "B" {
		t.Errorf("Advance() = %q, want %q", got, "B")
	}
}

func TestAdvance_LastStageReturnsTerminal(t *testing.T) {
	judge := &stubJudge{reply: "yes"}
	e := NewEvaluator(judge)

	got, err := e.Advance(context.Background(), []string{"A", "B", "C"}, "C", "d")
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if got != e.Terminal() {
		t.Errorf("Advance() = %q, want terminal sentinel %q", got, e.Terminal())
	}
	if !e.IsTerminal(got) {
		t.Error("IsTerminal() = false for sentinel")
	}
	if judge.calls != 0 {
		t.Errorf("judge calls = %d, want 0", judge.calls)
	}
}

func TestAdvance_SingleStageIsTerminal(t *testing.T) {
	judge := &stubJudge{}
	e := NewEvaluator(judge)

	out, err := e.Evaluate(context.Background(), []string{"Only"}, "Only", "")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !out.Terminal || out.Advanced {
		t.Errorf("Outcome = %+v, want terminal and not advanced", out)
	}
	if judge.calls != 0 {
		t.Errorf("judge calls = %d, want 0", judge.calls)
	}
}

func TestAdvance_UnknownStage(t *testing.T) {
	judge := &stubJudge{reply: "yes"}
	e := NewEvaluator(judge)

	_, err := e.Advance(context.Background(), []string{"A", "B"}, "Z", "d")
	if !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("error = %v, want ErrInvalidStage", err)
	}
	var ise *InvalidStageError
	if !errors.As(err, &ise) {
		t.Fatalf("error type = %T, want *InvalidStageError", err)
	}
	if ise.Stage != "Z" {
		t.Errorf("InvalidStageError.Stage = %q, want %q", ise.Stage, "Z")
	}
	if judge.calls != 0 {
		t.Errorf("judge calls = %d, want 0", judge.calls)
	}
}

func TestAdvance_EmptyAndDuplicateSequences(t *testing.T) {
	tests := []struct {
		name    string
		stages  []string
		current string
	}{
		{"empty", nil, "A"},
		{"duplicate", []string{"A", "B", "A"}, "B"},
		{"blank name", []string{"A", " ", "C"}, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(&stubJudge{reply: "yes"})
			_, err := e.Advance(context.Background(), tt.stages, tt.current, "d")
			if !errors.Is(err, ErrInvalidStage) {
				t.Errorf("error = %v, want ErrInvalidStage", err)
			}
		})
	}
}

func TestAdvance_JudgeFailure(t *testing.T) {
	cause := errors.New("connection refused")
	e := NewEvaluator(&stubJudge{err: cause})

	_, err := e.Advance(context.Background(), []string{"A", "B"}, "A", "d")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("error = %v, want ErrServiceUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Error("error should wrap the judge failure")
	}
	if errors.Is(err, ErrInvalidStage) {
		t.Error("judge failure must not match ErrInvalidStage")
	}
}

func TestAdvance_JudgeCalledOncePerInvocation(t *testing.T) {
	judge := &stubJudge{err: errors.New("timeout")}
	e := NewEvaluator(judge)

	_, _ = e.Advance(context.Background(), []string{"A", "B"}, "A", "d")
	if judge.calls != 1 {
		t.Errorf("judge calls = %d, want 1 (no retries)", judge.calls)
	}
}

func TestEvaluate_OutcomeCarriesReply(t *testing.T) {
	e := NewEvaluator(&stubJudge{reply: "Yes - budget confirmed"})

	out, err := e.Evaluate(context.Background(), []string{"A", "B"}, "A", "d")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	want := Outcome{Current: "A", Next: "B", Advanced: true, Reply: "Yes - budget confirmed"}
	if *out != want {
		t.Errorf("Outcome = %+v, want %+v", *out, want)
	}
}

func TestRussianLocale(t *testing.T) {
	ru, err := LookupLocale("ru")
	if err != nil {
		t.Fatalf("LookupLocale() error = %v", err)
	}

	tests := []struct {
		reply string
		want  string
	}{
		{"Да, клиент готов к презентации.", "B"},
		{"Нет, нужно больше информации.", "A"},
		{"Когда клиент ответит, продолжим.", "A"},
		{"Yes, we can proceed.", "B"},
	}

	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			e := NewEvaluator(&stubJudge{reply: tt.reply}, WithLocale(ru))
			got, err := e.Advance(context.Background(), []string{"A", "B"}, "A", "d")
			if err != nil {
				t.Fatalf("Advance() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Advance() = %q, want %q", got, tt.want)
			}
		})
	}

	e := NewEvaluator(&stubJudge{}, WithLocale(ru))
	got, _ := e.Advance(context.Background(), []string{"A", "B"}, "B", "d")
	if got != "Текущий этап продаж является последним в списке." {
		t.Errorf("terminal sentinel = %q", got)
	}
}

func TestWithMarkers(t *testing.T) {
	e := NewEvaluator(&stubJudge{reply: "Absolutely, go ahead"}, WithMarkers(" Absolutely ", ""))
	got, err := e.Advance(context.Background(), []string{"A", "B"}, "A", "d")
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if got != "B" {
		t.Errorf("Advance() = %q, want %q", got, "B")
	}
	if !e.IsAffirmative("yes") {
		t.Error("locale markers should remain when extra markers are added")
	}
}

func TestLookupLocale(t *testing.T) {
	loc, err := LookupLocale("")
	if err != nil || loc.Code != DefaultLocale {
		t.Errorf("LookupLocale(\"\") = %v, %v; want default", loc.Code, err)
	}
	if _, err := LookupLocale("RU"); err != nil {
		t.Errorf("LookupLocale(RU) error = %v", err)
	}
	if _, err := LookupLocale("xx"); err == nil {
		t.Error("LookupLocale(xx) should fail")
	}
}

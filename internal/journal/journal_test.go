// ABOUTME: Tests for the evaluation journal
// ABOUTME: Backed by an in-memory KV instead of Charm cloud storage

package journal

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harper/stagewise/internal/stage"
	"github.com/harper/stagewise/internal/survey"
)

type memKV struct {
	data   map[string][]byte
	err    error
	getErr error
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Set(key string, value []byte) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Get(key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func (m *memKV) Keys(prefix string) ([]string, error) {
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func clock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestRecordAndGet(t *testing.T) {
	kv := newMemKV()
	j := New(kv)

	out := &stage.Outcome{Current: "A", Next: "B", Advanced: true, Reply: "yes"}
	e, err := j.RecordEvaluation([]string{"A", "B"}, "en", out)
	if err != nil {
		t.Fatalf("RecordEvaluation() error = %v", err)
	}
	if e.ID == "" || e.Kind != KindEvaluation {
		t.Errorf("entry = %+v", e)
	}
	if _, ok := kv.data[Key(KindEvaluation, e.ID)]; !ok {
		t.Error("entry not stored under evaluation key")
	}

	got, err := j.Get(e.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Evaluation == nil || *got.Evaluation.Outcome != *out {
		t.Errorf("Get() = %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := New(newMemKV()).Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestRecord_StorageError(t *testing.T) {
	kv := newMemKV()
	kv.err = errors.New("disk full")

	if _, err := New(kv).RecordRecommendation(&survey.Result{}); err == nil {
		t.Error("RecordRecommendation() should fail when storage fails")
	}
}

func TestReadErrorsAreNotNotFound(t *testing.T) {
	kv := newMemKV()
	j := New(kv)
	e, err := j.RecordEvaluation([]string{"A", "B"}, "en", &stage.Outcome{Current: "A", Next: "B"})
	if err != nil {
		t.Fatalf("RecordEvaluation() error = %v", err)
	}

	ioErr := errors.New("value log truncated")
	kv.getErr = ioErr

	_, err = j.Get(e.ID)
	if !errors.Is(err, ioErr) {
		t.Errorf("Get() error = %v, want storage error", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Get() must not report a storage failure as ErrNotFound")
	}

	if _, err := j.List("", 0); !errors.Is(err, ioErr) {
		t.Errorf("List() error = %v, want storage error", err)
	}
}

func TestList_SkipsUndecodableEntries(t *testing.T) {
	kv := newMemKV()
	j := New(kv)
	good, _ := j.RecordEvaluation([]string{"A", "B"}, "en", &stage.Outcome{Current: "A", Next: "B"})
	kv.data[Key(KindEvaluation, "broken")] = []byte("{not json")

	entries, err := j.List("", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].ID != good.ID {
		t.Errorf("List() = %v, want only the valid entry", ids(entries))
	}
}

func TestList_NewestFirstAndFiltered(t *testing.T) {
	j := New(newMemKV())
	j.now = clock(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))

	first, _ := j.RecordEvaluation([]string{"A", "B"}, "en", &stage.Outcome{Current: "A", Next: "A"})
	second, _ := j.RecordRecommendation(&survey.Result{Questionnaire: "snowboard", Recommendation: "Freestyle board"})
	third, _ := j.RecordEvaluation([]string{"A", "B"}, "en", &stage.Outcome{Current: "B", Next: "x", Terminal: true})

	all, err := j.List("", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 || all[0].ID != third.ID || all[1].ID != second.ID || all[2].ID != first.ID {
		t.Errorf("List() order wrong: %v", ids(all))
	}

	evals, _ := j.List(KindEvaluation, 0)
	if len(evals) != 2 {
		t.Errorf("List(evaluation) = %d entries, want 2", len(evals))
	}

	limited, _ := j.List("", 1)
	if len(limited) != 1 || limited[0].ID != third.ID {
		t.Errorf("List(limit 1) = %v", ids(limited))
	}
}

func TestDelete(t *testing.T) {
	j := New(newMemKV())
	e, _ := j.RecordRecommendation(&survey.Result{Questionnaire: "snowboard"})

	if err := j.Delete(e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := j.Get(e.ID); !errors.Is(err, ErrNotFound) {
		t.Error("entry should be gone after Delete()")
	}
	if err := j.Delete(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice = %v, want ErrNotFound", err)
	}
}

func TestEntry_Summary(t *testing.T) {
	tests := []struct {
		entry Entry
		want  string
	}{
		{Entry{Evaluation: &Evaluation{Outcome: &stage.Outcome{Current: "A", Next: "B", Advanced: true}}}, "A -> B"},
		{Entry{Evaluation: &Evaluation{Outcome: &stage.Outcome{Current: "A", Next: "A"}}}, "A (stayed)"},
		{Entry{Evaluation: &Evaluation{Outcome: &stage.Outcome{Current: "C", Terminal: true}}}, "C (last stage)"},
		{Entry{Recommendation: &survey.Result{Questionnaire: "snowboard", Recommendation: "Park board"}}, "snowboard: Park board"},
		{Entry{Kind: KindEvaluation}, "evaluation"},
	}

	for _, tt := range tests {
		if got := tt.entry.Summary(); got != tt.want {
			t.Errorf("Summary() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": "", "all": "", "Evaluation": KindEvaluation, "recommendation": KindRecommendation} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("memory"); err == nil {
		t.Error("ParseKind(memory) should fail")
	}
}

func ids(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

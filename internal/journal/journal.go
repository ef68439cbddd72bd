// ABOUTME: Optional history of stage evaluations and recommendations
// ABOUTME: Entries are JSON documents in a key/value store under kind-prefixed keys
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harper/stagewise/internal/stage"
	"github.com/harper/stagewise/internal/survey"
)

// ErrNotFound is returned by Get for an unknown entry ID
var ErrNotFound = errors.New("journal entry not found")

// KV is the storage the journal needs; *charm.Client satisfies it.
// Get returns nil, nil for a missing key; any error is a storage failure.
type KV interface {
	Set(key string, value []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}

// Kind distinguishes entry types
type Kind string

const (
	KindEvaluation     Kind = "evaluation"
	KindRecommendation Kind = "recommendation"
)

// Kinds lists every entry kind
var Kinds = []Kind{KindEvaluation, KindRecommendation}

// Evaluation is the recorded input and outcome of one stage evaluation
type Evaluation struct {
	Stages  []string       `json:"stages"`
	Locale  string         `json:"locale"`
	Outcome *stage.Outcome `json:"outcome"`
}

// Entry is one journal record
type Entry struct {
	ID             string         `json:"id"`
	Kind           Kind           `json:"kind"`
	CreatedAt      time.Time      `json:"created_at"`
	Evaluation     *Evaluation    `json:"evaluation,omitempty"`
	Recommendation *survey.Result `json:"recommendation,omitempty"`
}

// Summary is a one-line description for listings
func (e *Entry) Summary() string {
	switch {
	case e.Evaluation != nil && e.Evaluation.Outcome != nil:
		o := e.Evaluation.Outcome
		switch {
		case o.Terminal:
			return fmt.Sprintf("%s (last stage)", o.Current)
		case o.Advanced:
			return fmt.Sprintf("%s -> %s", o.Current, o.Next)
		default:
			return fmt.Sprintf("%s (stayed)", o.Current)
		}
	case e.Recommendation != nil:
		return fmt.Sprintf("%s: %s", e.Recommendation.Questionnaire, e.Recommendation.Recommendation)
	}
	return string(e.Kind)
}

// Journal records entries into a KV store
type Journal struct {
	kv  KV
	now func() time.Time
}

// New creates a journal over kv
func New(kv KV) *Journal {
	return &Journal{kv: kv, now: time.Now}
}

// Key returns the storage key for an entry
func Key(kind Kind, id string) string {
	return string(kind) + ":" + id
}

// RecordEvaluation stores a finished stage evaluation
func (j *Journal) RecordEvaluation(stages []string, locale string, out *stage.Outcome) (*Entry, error) {
	return j.save(&Entry{
		Kind:       KindEvaluation,
		Evaluation: &Evaluation{Stages: stages, Locale: locale, Outcome: out},
	})
}

// RecordRecommendation stores a finished questionnaire result
func (j *Journal) RecordRecommendation(res *survey.Result) (*Entry, error) {
	return j.save(&Entry{Kind: KindRecommendation, Recommendation: res})
}

func (j *Journal) save(e *Entry) (*Entry, error) {
	e.ID = uuid.New().String()
	e.CreatedAt = j.now().UTC()

	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding journal entry: %w", err)
	}
	if err := j.kv.Set(Key(e.Kind, e.ID), data); err != nil {
		return nil, fmt.Errorf("saving journal entry: %w", err)
	}
	return e, nil
}

// Get finds an entry by ID across all kinds
func (j *Journal) Get(id string) (*Entry, error) {
	for _, kind := range Kinds {
		data, err := j.kv.Get(Key(kind, id))
		if err != nil {
			return nil, fmt.Errorf("reading journal entry %s: %w", id, err)
		}
		if data == nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("decoding journal entry %s: %w", id, err)
		}
		return &e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List returns entries newest first. An empty kind lists every kind; limit <= 0 means no limit.
func (j *Journal) List(kind Kind, limit int) ([]*Entry, error) {
	kinds := Kinds
	if kind != "" {
		kinds = []Kind{kind}
	}

	var entries []*Entry
	for _, k := range kinds {
		keys, err := j.kv.Keys(string(k) + ":")
		if err != nil {
			return nil, fmt.Errorf("listing journal: %w", err)
		}
		for _, key := range keys {
			data, err := j.kv.Get(key)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", key, err)
			}
			if data == nil {
				// removed since Keys
				continue
			}
			var e Entry
			if err := json.Unmarshal(data, &e); err != nil {
				continue
			}
			entries = append(entries, &e)
		}
	}

	sort.Slice(entries, func(a, b int) bool {
		return entries[a].CreatedAt.After(entries[b].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Delete removes an entry by ID
func (j *Journal) Delete(id string) error {
	e, err := j.Get(id)
	if err != nil {
		return err
	}
	return j.kv.Delete(Key(e.Kind, e.ID))
}

// ParseKind validates a kind name; empty means all kinds
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return "", nil
	}
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown entry kind %q", s)
}

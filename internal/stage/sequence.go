// ABOUTME: Ordered stage sequences and their invariants
// ABOUTME: A sequence is non-empty, has no blank names and no duplicates
package stage

import (
	"fmt"
	"strings"
)

// Sequence is an ordered list of stage names; position defines progression order
type Sequence []string

// Validate checks the sequence invariants
func (s Sequence) Validate() error {
	if len(s) == 0 {
		return &InvalidStageError{Reason: "sequence is empty"}
	}
	seen := make(map[string]int, len(s))
	for i, name := range s {
		if strings.TrimSpace(name) == "" {
			return &InvalidStageError{Reason: fmt.Sprintf("stage %d has a blank name", i)}
		}
		if j, dup := seen[name]; dup {
			return &InvalidStageError{Stage: name, Reason: fmt.Sprintf("stage %q appears at positions %d and %d", name, j, i)}
		}
		seen[name] = i
	}
	return nil
}

// Index returns the position of name, or -1
func (s Sequence) Index(name string) int {
	for i, stage := range s {
		if stage == name {
			return i
		}
	}
	return -1
}

// IsLast reports whether name is the final stage
func (s Sequence) IsLast(name string) bool {
	return len(s) > 0 && s[len(s)-1] == name
}

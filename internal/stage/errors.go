// ABOUTME: Error taxonomy for stage progression
// ABOUTME: InvalidStageError for bad input, ServiceUnavailableError for judge failures
package stage

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStage matches any *InvalidStageError via errors.Is
	ErrInvalidStage = errors.New("invalid stage")
	// ErrServiceUnavailable matches any *ServiceUnavailableError via errors.Is
	ErrServiceUnavailable = errors.New("judgment service unavailable")
)

// InvalidStageError reports a current stage missing from the sequence,
// or a sequence that breaks its own invariants.
type InvalidStageError struct {
	Stage  string
	Reason string
}

func (e *InvalidStageError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("stage %q not found in sequence", e.Stage)
	}
	return fmt.Sprintf("invalid stage sequence: %s", e.Reason)
}

func (e *InvalidStageError) Is(target error) bool {
	return target == ErrInvalidStage
}

// ServiceUnavailableError wraps a failed call to the judgment collaborator
type ServiceUnavailableError struct {
	Stage string
	Err   error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("judging stage %q: %v", e.Stage, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

func (e *ServiceUnavailableError) Is(target error) bool {
	return target == ErrServiceUnavailable
}

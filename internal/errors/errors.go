package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected failure modes
var (
	ErrEmptyInput     = errors.New("no words to compose from")
	ErrNoComposition  = errors.New("no composition loaded")
	ErrAlreadyRunning = errors.New("engine already running")
)

// EmptyInputError reports that a stage received text with no words in it.
// errors.Is(err, ErrEmptyInput) holds for it.
type EmptyInputError struct {
	Stage string // "compose", "drift"
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, ErrEmptyInput)
}

func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// NewEmptyInputError creates an EmptyInputError
func NewEmptyInputError(stage string) *EmptyInputError {
	return &EmptyInputError{Stage: stage}
}

// StageError wraps a failure inside one pipeline stage
type StageError struct {
	Stage string // "lexicon", "audio", "render"
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// Wrap returns nil for a nil cause, otherwise a StageError
func Wrap(stage string, cause error) error {
	if cause == nil {
		return nil
	}
	return &StageError{Stage: stage, Cause: cause}
}

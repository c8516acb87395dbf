package dispatch

import (
	"errors"
	"fmt"

	"github.com/alem-hub/roster-hub/internal/domain/shared"
)

// Code classifies a failed invocation for the caller.
type Code string

// Failure codes.
const (
	CodeFriendNotFound Code = "friend_not_found"
	CodeFriendExists   Code = "friend_exists"
	CodeInvalidInput   Code = "invalid_input"
	CodeUnknownCommand Code = "unknown_command"
	CodeInternal       Code = "internal"
)

// CommandError is the failure value returned by every dispatcher operation.
type CommandError struct {
	Command string `json:"command"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Command, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error { return e.Err }

// AsCommandError extracts a CommandError from err.
func AsCommandError(err error) (*CommandError, bool) {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// newCommandError converts a handler error into a CommandError.
func newCommandError(command string, err error) *CommandError {
	if ce, ok := AsCommandError(err); ok {
		return ce
	}

	ce := &CommandError{Command: command, Err: err, Message: err.Error()}
	switch {
	case shared.IsNotFound(err):
		ce.Code = CodeFriendNotFound
	case shared.IsAlreadyExists(err):
		ce.Code = CodeFriendExists
	case shared.IsValidation(err):
		ce.Code = CodeInvalidInput
	default:
		ce.Code = CodeInternal
	}

	var de *shared.DomainError
	if errors.As(err, &de) && de.Message != "" {
		ce.Message = de.Message
	}
	return ce
}

func invalidInput(command, message string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Code:    CodeInvalidInput,
		Message: message,
		Err:     shared.WrapError("dispatch", command, shared.ErrInvalidInput, message, err),
	}
}

package game

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes protocol-level failures
type ErrorCode string

const (
	// ErrCodeNotFound indicates the team ID is unknown.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidState indicates the operation is not allowed in the team's current phase.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"

	// ErrCodePreconditionFailed indicates the caller is not eligible for the operation yet.
	ErrCodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
)

// Error is a protocol-level failure. Puzzle rejections (wrong item, wrong
// code, unsynchronized escape) are never reported through Error; they come
// back as results with Success set to false.
type Error struct {
	Code    ErrorCode
	Message string
	TeamID  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.TeamID != "" {
		return fmt.Sprintf("%s: %s (team=%s)", e.Code, e.Message, e.TeamID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// IsNotFound reports whether err is an unknown-team error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsInvalidState reports whether err is a wrong-phase error.
func IsInvalidState(err error) bool {
	return hasCode(err, ErrCodeInvalidState)
}

// IsPreconditionFailed reports whether err is a not-eligible error.
func IsPreconditionFailed(err error) bool {
	return hasCode(err, ErrCodePreconditionFailed)
}

func newNotFound(teamID string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: "Team not found", TeamID: teamID}
}

func newInvalidState(teamID, msg string) *Error {
	return &Error{Code: ErrCodeInvalidState, Message: msg, TeamID: teamID}
}

func newPreconditionFailed(teamID, msg string) *Error {
	return &Error{Code: ErrCodePreconditionFailed, Message: msg, TeamID: teamID}
}

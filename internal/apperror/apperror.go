package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an expected, typed failure. Every rejected precondition in
// the workflow layer surfaces as one of these; anything else is Internal.
type Kind int

const (
	Internal Kind = iota
	NotFound
	Unauthenticated
	SessionExpired
	SessionInactive
	TokenOwnershipViolation
	AccountDeactivated
	InvalidCredentials
	Forbidden
	InvalidPhaseTransition
	InvalidStatusTransition
	ValidationFailed
	Conflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf unwraps err down to an *Error and reports its kind.
// Non-apperror errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Internal
}

// HTTPStatus maps a failure kind to the status code the API layer renders.
func HTTPStatus(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case Unauthenticated, SessionExpired, SessionInactive, InvalidCredentials:
		return http.StatusUnauthorized
	case TokenOwnershipViolation, AccountDeactivated, Forbidden,
		InvalidPhaseTransition, InvalidStatusTransition:
		return http.StatusForbidden
	case ValidationFailed:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

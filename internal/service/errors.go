package service

import (
	"fmt"
	"net/http"
)

// Kind classifies a failure detected by the service layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

// Messages returned to API callers. Clients match on these strings.
const (
	MsgPriorityRange   = "error: priority must be between 1 and 10 included"
	MsgBadCredentials  = "error: User does not exist or user name and password do not match."
	MsgNotLoggedIn     = "error: You must be logged in before trying to update a task"
	MsgNotOwner        = "error: A user can only update or delete it own tasks."
	MsgNotFound        = "error: Element does not exist"
	MsgMissingParam    = "Missing required parameter in the JSON body or the post body or the query string"
	MsgTaskName        = "A task need a task name."
	MsgDateFormat      = "Use this format: DD/MM/YYYY"
	MsgUserExists      = "error: That user name and/or email already exist."
	MsgPasswordsDiffer = "Passwords must match"
)

// Error is a classified failure carrying the message shown to the caller.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// HTTPStatus maps the error kind onto a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func validationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// MissingMessage is the text for a required field that was not sent, led
// by the field's own hint.
func MissingMessage(hint string) string {
	return "(" + hint + ") " + MsgMissingParam
}

func missingParam(field, hint string) *Error {
	return validationError(field, MissingMessage(hint))
}

func ErrBadCredentials() *Error {
	return &Error{Kind: KindUnauthenticated, Message: MsgBadCredentials}
}

func ErrNotLoggedIn() *Error {
	return &Error{Kind: KindUnauthenticated, Message: MsgNotLoggedIn}
}

func ErrNotOwner() *Error {
	return &Error{Kind: KindForbidden, Message: MsgNotOwner}
}

func ErrTaskNotFound() *Error {
	return &Error{Kind: KindNotFound, Message: MsgNotFound}
}

func ErrPriorityRange() *Error {
	return validationError("priority", MsgPriorityRange)
}

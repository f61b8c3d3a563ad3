// Package services defines the business logic for conversations, feedback, and
// analytics. This file centralizes the service-level error taxonomy so that it
// can be consistently returned by service methods and checked by callers.
//
// Errors come in four classes (ErrValidation, ErrNotFound, ErrPermission,
// ErrConflict); the specific sentinels below wrap their class, so handlers can
// branch with errors.Is on either the specific error or the class. Translation
// into user-facing messages or HTTP status codes is performed at the
// handler/controller layer.
package services

import (
	"errors"
	"fmt"
)

// Error classes. Every error a service returns for a predictable failure wraps
// exactly one of these.
var (
	// ErrValidation indicates a value outside an enumerated domain or a
	// required field that is missing/empty.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a reference to a nonexistent conversation or
	// feedback row.
	ErrNotFound = errors.New("not found")

	// ErrPermission indicates the caller's role is not granted the attempted
	// operation.
	ErrPermission = errors.New("permission denied")

	// ErrConflict indicates a constraint violation not otherwise classified,
	// e.g. a duplicate identifier supplied by the caller.
	ErrConflict = errors.New("conflict")
)

// Specific sentinels.
var (
	// ErrEmptySessionID is returned when an operation that scopes rows by
	// session receives a blank session id.
	ErrEmptySessionID = fmt.Errorf("%w: session id is empty", ErrValidation)

	// ErrEmptyQuestion is returned when a conversation is recorded with an
	// empty user question.
	ErrEmptyQuestion = fmt.Errorf("%w: user question is empty", ErrValidation)

	// ErrEmptyResponse is returned when a conversation is recorded with an
	// empty tutor response.
	ErrEmptyResponse = fmt.Errorf("%w: ta response is empty", ErrValidation)

	// ErrInvalidLabel is returned when a feedback label is outside the allowed
	// set (helpful, not_helpful, partially_helpful).
	ErrInvalidLabel = fmt.Errorf("%w: feedback label must be one of helpful, not_helpful, partially_helpful", ErrValidation)

	// ErrNegativeResponseTime is returned when a response time below zero is
	// submitted.
	ErrNegativeResponseTime = fmt.Errorf("%w: response time must be non-negative", ErrValidation)

	// ErrNegativeMessageIndex is returned when feedback references a message
	// position below zero.
	ErrNegativeMessageIndex = fmt.Errorf("%w: message index must be non-negative", ErrValidation)

	// ErrInvalidSince is returned when a daily-analytics cutoff is not a
	// YYYY-MM-DD calendar date.
	ErrInvalidSince = fmt.Errorf("%w: since must be a YYYY-MM-DD date", ErrValidation)

	// ErrConversationNotFound indicates that the requested conversation does
	// not exist.
	ErrConversationNotFound = fmt.Errorf("%w: conversation", ErrNotFound)

	// ErrFeedbackNotFound indicates that the requested feedback row does not
	// exist.
	ErrFeedbackNotFound = fmt.Errorf("%w: feedback", ErrNotFound)
)

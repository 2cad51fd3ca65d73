package services

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorInvalid         ErrorCode = "invalid"
	ErrorForbidden       ErrorCode = "forbidden"
	ErrorNotFound        ErrorCode = "not_found"
	ErrorUnauthorized    ErrorCode = "unauthorized"
	ErrorTooManyRequests ErrorCode = "too_many_requests"
	ErrorUnavailable     ErrorCode = "unavailable"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error {
	return &ServiceError{Code: ErrorInvalid, Message: msg}
}

func NewForbiddenError(msg string) error {
	return &ServiceError{Code: ErrorForbidden, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &ServiceError{Code: ErrorNotFound, Message: msg}
}

func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewTooManyRequestsError(msg string) error {
	return &ServiceError{Code: ErrorTooManyRequests, Message: msg}
}

func NewUnavailableError(msg string) error {
	return &ServiceError{Code: ErrorUnavailable, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	// ErrInvalidAnswer is matched by every *InvalidAnswerError via errors.Is.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrMissingCatalogEntry is matched by every *MissingCatalogEntryError via errors.Is.
	ErrMissingCatalogEntry = errors.New("question not in catalog")
	// ErrSessionCompleted is returned when a completed session is asked to change.
	ErrSessionCompleted = errors.New("quick scan session already completed")
)

// InvalidAnswerError reports an answer value that cannot be scored for its question.
type InvalidAnswerError struct {
	QuestionID int
	Reason     string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for question %d: %s", e.QuestionID, e.Reason)
}

func (e *InvalidAnswerError) Is(target error) bool { return target == ErrInvalidAnswer }

// MissingCatalogEntryError reports an answer for a question id the catalog does not define.
type MissingCatalogEntryError struct {
	QuestionID int
}

func (e *MissingCatalogEntryError) Error() string {
	return fmt.Sprintf("question %d not in catalog", e.QuestionID)
}

func (e *MissingCatalogEntryError) Is(target error) bool {
	return target == ErrMissingCatalogEntry
}

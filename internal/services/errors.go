package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid    ErrorCode = "invalid"
	ErrorNotFound   ErrorCode = "not_found"
	ErrorConflict   ErrorCode = "conflict"
	ErrorBadGateway ErrorCode = "bad_gateway"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error    { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error   { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewBadGatewayError(msg string) error { return &ServiceError{Code: ErrorBadGateway, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	// ErrInvalidConfiguration marks a guide whose bank or level table cannot produce a score.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidTransition is returned when an action is not allowed in the current flow state.
	ErrInvalidTransition = &ServiceError{Code: ErrorConflict, Message: "action not allowed in current state"}
	// ErrIncompleteAnswers blocks Finish until every question has an answer.
	ErrIncompleteAnswers = &ServiceError{Code: ErrorConflict, Message: "all questions must be answered"}
)

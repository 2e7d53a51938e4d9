package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

func NewFieldValidationError(field, msg string) error {
	return &ValidationError{Msg: fmt.Sprintf("%s %s", field, msg)}
}

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Error()
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(ve.Messages(), "; "))
}

// Unwrap exposes the individual errors, so IsValidationError matches a
// ValidationErrors too.
func (ve *ValidationErrors) Unwrap() []error {
	return ve.Errors
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

// Messages returns the individual messages, for use as a response "errors" list.
func (ve *ValidationErrors) Messages() []string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Error()
	}
	return messages
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}

// Kind classifies a storage failure. The repository reports one of these
// together with a fixed message; the driver error is only kept for logging.
type Kind int

const (
	KindResourceNotFound Kind = iota + 1
	KindBadRequest
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindResourceNotFound:
		return "resource_not_found"
	case KindBadRequest:
		return "bad_request"
	case KindStorageUnavailable:
		return "storage_unavailable"
	default:
		return "unknown"
	}
}

type RepositoryError struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error returns only the fixed message so the driver error never reaches a client.
func (e *RepositoryError) Error() string {
	return e.Msg
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Cause describes the underlying error for log lines.
func (e *RepositoryError) Cause() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func NewResourceNotFoundError(msg string, cause error) error {
	return &RepositoryError{Kind: KindResourceNotFound, Msg: msg, Err: cause}
}

func NewBadRequestError(msg string, cause error) error {
	return &RepositoryError{Kind: KindBadRequest, Msg: msg, Err: cause}
}

func NewStorageUnavailableError(msg string, cause error) error {
	return &RepositoryError{Kind: KindStorageUnavailable, Msg: msg, Err: cause}
}

// KindOf reports the Kind of the first RepositoryError in err's chain, or 0.
func KindOf(err error) Kind {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.Kind
	}
	return 0
}

func IsResourceNotFound(err error) bool {
	return KindOf(err) == KindResourceNotFound
}

func IsBadRequest(err error) bool {
	return KindOf(err) == KindBadRequest
}

func IsStorageUnavailable(err error) bool {
	return KindOf(err) == KindStorageUnavailable
}

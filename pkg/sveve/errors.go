package sveve

import (
	"errors"
	"fmt"
)

const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeSendRejected       = "SEND_REJECTED"
	ErrCodeCommandRejected    = "COMMAND_REJECTED"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeNotSent            = "NOT_SENT"
	ErrCodeGroupMessageIDs    = "GROUP_MESSAGE_IDS_UNAVAILABLE"
)

var (
	// ErrInvalidCredentials is returned whenever the API rejects the
	// configured username/password combination. It is never retried.
	ErrInvalidCredentials = errors.New(ErrCodeInvalidCredentials)

	// ErrRateLimited is returned on HTTP 429. The caller may retry later.
	ErrRateLimited = errors.New(ErrCodeRateLimited)

	// ErrGroupMessageIDs is returned when message IDs are requested for a
	// request that included group recipients. Group membership is not
	// expanded in the response, so per-recipient IDs cannot be resolved.
	ErrGroupMessageIDs = errors.New(ErrCodeGroupMessageIDs)
)

type Error struct {
	Code  string
	Cause error
}

func NewError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

func newValidationError(format string, args ...any) error {
	return Error{Code: ErrCodeValidation, Cause: fmt.Errorf(format, args...)}
}

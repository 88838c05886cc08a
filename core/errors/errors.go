package errors

import "fmt"

type ErrorCode string

const (
	ErrInvalidInput         ErrorCode = "invalid_input"
	ErrInvalidRequestData   ErrorCode = "invalid_request_data"
	ErrNotFound             ErrorCode = "not_found"
	ErrNoCapacity           ErrorCode = "no_capacity"
	ErrTableLocked          ErrorCode = "table_locked"
	ErrOutsideServiceWindow ErrorCode = "outside_service_window"
	ErrAlreadyExists        ErrorCode = "already_exists"
	ErrUnauthorized         ErrorCode = "unauthorized"
	ErrForbidden            ErrorCode = "forbidden"
	ErrCreateFailed         ErrorCode = "create_failed"
	ErrGetFailed            ErrorCode = "get_failed"
	ErrUpdateFailed         ErrorCode = "update_failed"
	ErrDeleteFailed         ErrorCode = "delete_failed"
	ErrInternalServer       ErrorCode = "internal_server_error"
)

// AppError is the error type services return to controllers
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string, details any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

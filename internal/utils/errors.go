package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced in logs and the audit ledger.
const (
	CodeNoFile           = "NoFile"
	CodeInvalidFileType  = "InvalidFileType"
	CodeFileTooLarge     = "FileTooLarge"
	CodeEmptyExtraction  = "EmptyExtraction"
	CodeExtractionFailed = "ExtractionFailed"
	CodeAIAnalysisFailed = "AiAnalysisFailed"
	CodePayloadTooLarge  = "PayloadTooLarge"
	CodeRateLimited      = "RateLimited"
	CodeNotFound         = "NotFound"
	CodeBadRequest       = "BadRequest"
	CodeInternal         = "Internal"
)

// AppError carries the HTTP status and user-facing message for a failure.
// Cause holds the underlying diagnostic, shown to clients only in development mode.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Details returns the underlying diagnostic, or "" when there is none.
func (e *AppError) Details() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

func NewAppError(status int, code, message string, cause error) *AppError {
	return &AppError{
		StatusCode: status,
		Code:       code,
		Message:    message,
		Cause:      cause,
	}
}

func NewBadRequestError(code, message string) *AppError {
	return NewAppError(http.StatusBadRequest, code, message, nil)
}

func NewInternalError(code, message string, cause error) *AppError {
	return NewAppError(http.StatusInternalServerError, code, message, cause)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, nil)
}

func NewTooLargeError(message string) *AppError {
	return NewAppError(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, message, nil)
}

func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeRateLimited, message, nil)
}

// AsAppError unwraps err into an *AppError, wrapping unknown errors as a generic 500.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(CodeInternal, "Internal server error", err)
}

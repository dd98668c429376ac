package types

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// ErrCode is the closed set of error tags surfaced by mutating operations.
type ErrCode string

const (
	CodeNotFound             = ErrCode("NotFound")
	CodeUpdateFailed         = ErrCode("UpdateFailed")
	CodeInputType            = ErrCode("InputTypeError")
	CodeForbidden            = ErrCode("Forbidden")
	CodeTranscending         = ErrCode("Transcending")
	CodeNoProviderIdentifier = ErrCode("NoProviderIdentifier")
	CodeBlobCorrupted        = ErrCode("BlobCorrupted")
	CodeDeleteFailed         = ErrCode("DeleteFailed")
	CodeUploadFailed         = ErrCode("UploadFailed")
	CodeInternal             = ErrCode("InternalServerError")
)

type AppError struct {
	Code ErrCode
	Err  error
}

func NewAppError(code ErrCode, err error) *AppError {
	return &AppError{Code: code, Err: err}
}

func NewAppErrorf(code ErrCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Err: fmt.Errorf(format, args...)}
}

// Internal wraps a database or other infrastructure failure. The raw error is
// kept for logging but never leaks to the caller verbatim.
func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Err.Error())
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInputType:
		return http.StatusBadRequest
	case CodeTranscending:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type JWTClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

package repost

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EINTERNAL = "internal"

	// EEXTRACT means no content container was found in the document.
	EEXTRACT = "extract"
	// EDECODE means image bytes could not be decoded.
	EDECODE = "decode"
	// EGENERATE means the text generation call failed, timed out or
	// returned a malformed payload.
	EGENERATE = "generate"
	// EPARSE means the model reply did not follow the requested format.
	EPARSE = "parse"
	// EFETCH means a URL could not be fetched or returned a non-2xx status.
	EFETCH = "fetch"
	// EPUBLISH means the publisher reported a failure.
	EPUBLISH = "publish"
)

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("repost error: code=%s message=%s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("repost error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code that keeps err as its cause.
func WrapError(code string, err error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// Pipeline stage names used in StageError.
const (
	StageFetch     = "fetch"
	StageExtract   = "extract"
	StageImages    = "images"
	StageTransform = "transform"
	StagePersist   = "persist"
	StagePublish   = "publish"
)

// StageError reports which pipeline stage failed for which URL.
// It unwraps to the underlying cause so ErrorCode still works.
type StageError struct {
	Stage string
	URL   string
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/maraton/maraton-api/internal/logging"
)

// genericServerMessage is what clients see for any 5xx
const genericServerMessage = "Inténtalo de nuevo más tarde"

// Error is an error carrying the HTTP status it should be reported with.
// A zero Status is treated as 500.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// NewError creates an Error without an underlying cause
func NewError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Wrap attaches a status, code and client-facing message to err
func Wrap(err error, status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the status hint, defaulting to 500
func (e *Error) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Code      string    `json:"code,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// ErrorWriter renders errors as ErrorResponse. Outside production the
// underlying error text is echoed in the "error" field.
type ErrorWriter struct {
	isProduction bool
}

func NewErrorWriter(isProduction bool) *ErrorWriter {
	return &ErrorWriter{isProduction: isProduction}
}

// Write reports err to the client. Errors that are not *Error become 500s.
func (ew *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.GetLoggerFromContext(r.Context())

	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Wrap(err, http.StatusInternalServerError, CodeInternalError, genericServerMessage)
	}
	status := appErr.StatusCode()

	resp := ErrorResponse{
		Success:   false,
		Code:      appErr.Code,
		Timestamp: time.Now().UTC(),
		Path:      r.URL.RequestURI(),
	}

	if status >= http.StatusInternalServerError {
		if ew.isProduction {
			logger.Error("unhandled error", "status", status)
		} else {
			logger.Error("unhandled error", "status", status, "error", err.Error(), "method", r.Method)
		}
		resp.Message = genericServerMessage
		if resp.Code == "" {
			resp.Code = CodeInternalError
		}
	} else {
		resp.Message = appErr.Message
		if resp.Message == "" {
			resp.Message = http.StatusText(status)
		}
	}

	if !ew.isProduction {
		resp.Error = err.Error()
	}

	RespondJSON(w, resp, status)
}

// Respond is shorthand for Write(w, r, NewError(status, code, message))
func (ew *ErrorWriter) Respond(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	ew.Write(w, r, NewError(status, code, message))
}

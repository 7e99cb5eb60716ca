package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrToolNotFound       = fmt.Errorf("tool not found")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrNoSession          = fmt.Errorf("no browser session active")
	ErrNoSnapshot         = fmt.Errorf("no snapshot available - capture the page first")
	ErrElementNotFound    = fmt.Errorf("element not found")
	ErrNavTimeout         = fmt.Errorf("navigation timed out")
	ErrCaptureFailed      = fmt.Errorf("snapshot capture failed")
	ErrBrowserUnavailable = fmt.Errorf("browser unavailable")
	ErrRateLimit          = fmt.Errorf("rate limit exceeded")
	ErrDuplicateTool      = fmt.Errorf("tool already registered")
)

// DomainError wraps a sentinel error with operation context.
type DomainError struct {
	Op     string // operation name (e.g. "browser.click")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ErrorCode is a machine-parseable error category for monitoring.
type ErrorCode string

const (
	CodeUnknown            ErrorCode = "UNKNOWN"
	CodeToolNotFound       ErrorCode = "TOOL_NOT_FOUND"
	CodeInvalidInput       ErrorCode = "INVALID_INPUT"
	CodeNoSession          ErrorCode = "NO_SESSION"
	CodeNoSnapshot         ErrorCode = "NO_SNAPSHOT"
	CodeElementNotFound    ErrorCode = "ELEMENT_NOT_FOUND"
	CodeNavTimeout         ErrorCode = "NAV_TIMEOUT"
	CodeCaptureFailed      ErrorCode = "CAPTURE_FAILED"
	CodeBrowserUnavailable ErrorCode = "BROWSER_UNAVAILABLE"
	CodeRateLimit          ErrorCode = "RATE_LIMIT"
	CodeDuplicateTool      ErrorCode = "DUPLICATE_TOOL"
)

var errorCodeMap = map[error]ErrorCode{
	ErrToolNotFound:       CodeToolNotFound,
	ErrInvalidInput:       CodeInvalidInput,
	ErrNoSession:          CodeNoSession,
	ErrNoSnapshot:         CodeNoSnapshot,
	ErrElementNotFound:    CodeElementNotFound,
	ErrNavTimeout:         CodeNavTimeout,
	ErrCaptureFailed:      CodeCaptureFailed,
	ErrBrowserUnavailable: CodeBrowserUnavailable,
	ErrRateLimit:          CodeRateLimit,
	ErrDuplicateTool:      CodeDuplicateTool,
}

// ErrorCodeOf returns the machine-parseable error code for the given error.
// It walks the error chain with errors.Is, so wrapped sentinels resolve too.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}
	if code, ok := errorCodeMap[err]; ok {
		return code
	}
	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return CodeUnknown
}

// IsRetryableError reports whether err is a transient failure that may
// succeed on retry: browser unavailability and navigation timeouts resolve
// on their own, a missing element on a settled page does not.
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrBrowserUnavailable) ||
		errors.Is(err, ErrNavTimeout) ||
		errors.Is(err, ErrRateLimit)
}

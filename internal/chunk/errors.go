package chunk

import (
	"errors"
	"fmt"
)

// Error kinds returned by the validated entry points. Compare with errors.Is;
// values carrying a different message or extra details still match.
var (
	// ErrInvalidLength is returned when a declared or expected span runs past
	// the end of the buffer, or a payload does not fit a fixed-size shape.
	ErrInvalidLength = &Error{Code: "INVALID_LENGTH", Message: "invalid length"}

	// ErrInvalidCRC is returned when a chunk's stored CRC does not match the
	// CRC computed over its type and data.
	ErrInvalidCRC = &Error{Code: "INVALID_CRC", Message: "crc mismatch"}

	// ErrInvalidData is returned for structural violations: missing IEND,
	// IHDR not first, or a buffer that is not a PNG datastream.
	ErrInvalidData = &Error{Code: "INVALID_DATA", Message: "invalid data"}
)

// Error is a structured chunk parsing error.
type Error struct {
	Code    string                 // Error code for programmatic handling
	Message string                 // Human-readable reason
	Details map[string]interface{} // Offsets, lengths and tags involved
}

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("[%s] %s (details: %v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithDetail adds a detail key-value pair to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// WithMessage overrides the error message
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		Code:    e.Code,
		Message: message,
		Details: e.Details,
	}
}

// ErrorCode extracts the code from an *Error anywhere in err's chain, or ""
// if there is none.
func ErrorCode(err error) string {
	var chunkErr *Error
	if errors.As(err, &chunkErr) {
		return chunkErr.Code
	}
	return ""
}

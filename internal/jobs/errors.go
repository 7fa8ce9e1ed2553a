package jobs

import "fmt"

const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeInternal   = "internal"
)

// Error is the structured fault surfaced through the HTTP API.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return 400
	case CodeNotFound:
		return 404
	case CodeConflict:
		return 409
	default:
		return 500
	}
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: statusForCode(code)}
}

// NewNotFoundError marks an unknown job id. Distinct from every job status;
// a job that exists but is not done is never reported as not found.
func NewNotFoundError(id string) error {
	return newError(CodeNotFound, "no job with id "+id)
}

func NewValidationError(message string) error {
	return newError(CodeValidation, message)
}

func NewConflictError(message string) error {
	return newError(CodeConflict, message)
}

func NewInternalError(message string) error {
	return newError(CodeInternal, message)
}

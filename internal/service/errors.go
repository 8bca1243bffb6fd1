package service

import "fmt"

// ValidationError reports a missing or malformed request field. It surfaces
// as HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DuplicateRequestError reports an idempotency replay: the correlation_id and
// payload were seen before. It surfaces as HTTP 409 with the original txn_id.
type DuplicateRequestError struct {
	OriginalTxnID int64
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("duplicate transaction, original txn_id %d", e.OriginalTxnID)
}

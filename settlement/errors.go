package settlement

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable error code. Clients branch on codes, so
// they never change once shipped.
type Code string

const (
	CodeValidation            Code = "VALIDATION"
	CodeNotFound              Code = "NOT_FOUND"
	CodeUnauthorized          Code = "UNAUTHORIZED"
	CodeSlippageExceeded      Code = "SLIPPAGE_EXCEEDED"
	CodeDeadlineExceeded      Code = "DEADLINE_EXCEEDED"
	CodeNoFeesToClaim         Code = "NO_FEES_TO_CLAIM"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
	CodeConflict              Code = "CONFLICT"
	CodeInvariantViolation    Code = "INVARIANT_VIOLATION"
	CodeRetriesExhausted      Code = "RETRIES_EXHAUSTED"
	CodeInternal              Code = "INTERNAL"
)

// Error carries a stable code and a human-readable message. CodeConflict is
// the only retryable code; everything else aborts the settlement attempt.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the settlement code from err, or CodeInternal for errors
// raised outside the taxonomy (storage failures and the like).
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// errDuplicateIdempotencyKey is returned by the storage layer when the
// idempotency insert inside the settlement transaction hits the key's unique
// constraint. The transaction rolls back and the caller replays the stored
// result, so this never surfaces to users.
var errDuplicateIdempotencyKey = errors.New("idempotency key already settled")

package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateInvoice is reported when the server refuses a save because the
	// invoice is already stored.
	ErrDuplicateInvoice = errors.New("invoice already exists")
	// ErrServer covers non-success responses that carry no more specific cause.
	ErrServer = errors.New("server error")
	// ErrTransport covers failures to reach the server or read its reply.
	ErrTransport = errors.New("transport error")
)

// Operation names used in failures.
const (
	OpAnalyze = "analyze"
	OpCommit  = "commit"
)

// Failure is the error returned by Analyze and Commit. Message is suitable
// for display to the operator.
type Failure struct {
	Err        error
	Op         string
	Message    string
	RequestID  string
	StatusCode int
}

func (f *Failure) Error() string {
	if f.StatusCode > 0 {
		return fmt.Sprintf("%s failed (HTTP %d): %s", f.Op, f.StatusCode, f.Message)
	}
	return fmt.Sprintf("%s failed: %s", f.Op, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// UserMessage returns the operator-facing text.
func (f *Failure) UserMessage() string {
	return f.Message
}

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("engine: session not found")

	// ErrSessionEnded is returned when a turn is submitted to an ended session.
	ErrSessionEnded = errors.New("engine: session has ended")
)

// ValidationError reports a badly formatted user-supplied field. The user is
// re-prompted locally, nothing is retried.
type ValidationError struct {
	Field   string
	Message string
	Example string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("engine: invalid %s: %s", e.Field, e.Message)
}

// ExternalServiceError wraps a failure from generation, retrieval,
// summarization or persistence. Retryable per the retry policy.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("engine: %s call failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// IsRetryable reports whether err should be retried. Validation and
// business-rule failures never are.
func IsRetryable(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return false
	}
	var ese *ExternalServiceError
	return errors.As(err, &ese)
}

// Fallback messages shown when a pipeline failure cannot be recovered.
const (
	fallbackGenericApology = "I apologize, something went wrong on my end. Could you please repeat that?"
	fallbackSessionUnknown = "I'm sorry, I can't find our conversation. Please start a new one."
	fallbackDuplicateLead  = "It looks like we already have your details on file. Our sales team will be in touch shortly."
)

package generation

import (
	"context"
	"errors"
	"strings"

	"admaker/internal/providers/genai"
)

// ErrorClass partitions generation failures into those worth retrying and
// those that will fail again no matter how many attempts remain.
type ErrorClass int

const (
	Terminal ErrorClass = iota
	Retryable
)

// Classifier decides whether an error from the image backend is transient.
type Classifier func(error) ErrorClass

// DefaultClassifier treats rate limits, upstream overload and timeouts as
// retryable. Everything else, including safety blocks and bad requests, is
// terminal.
func DefaultClassifier(err error) ErrorClass {
	if err == nil {
		return Terminal
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case 429, 500, 502, 503:
			return Retryable
		default:
			return Terminal
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Retryable
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"overloaded", "unavailable", "timeout", "deadline exceeded", "connection reset"} {
		if strings.Contains(msg, marker) {
			return Retryable
		}
	}

	return Terminal
}

package domain

import "errors"

var (
	ErrNotSignedIn         = errors.New("not signed in")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrUploadFailed        = errors.New("upload failed")
	ErrPersistenceFailed   = errors.New("persistence failed")

	// ErrGenerationFailed carries the user-facing message; vendor detail is
	// logged server-side only.
	ErrGenerationFailed = errors.New("image generation failed, please try again")
)

// ValidationError reports rejected input. No state is changed and no credits
// are charged before validation passes.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError wraps a human-readable rejection reason.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

package services

import "errors"

var (
	// ErrNotFound covers unknown short codes, campaigns and links.
	ErrNotFound = errors.New("not found")
	// ErrCodeSpaceExhausted means every candidate code collided within the
	// retry budget; the alphabet or code length is under-provisioned.
	ErrCodeSpaceExhausted = errors.New("failed to generate unique short code")
)

// ValidationError carries a message safe to surface verbatim to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is a request-validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

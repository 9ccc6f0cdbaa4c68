package usecase

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidInput        = errors.New("invalid input")
	ErrPersonaNotFound     = errors.New("persona not found or access denied")
	ErrPreferencesNotFound = errors.New("persona preferences not found")
	ErrLoadJobs            = errors.New("failed to load jobs")
)

// IsNotFound reports whether err is one of the terminal not-found outcomes.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPersonaNotFound) || errors.Is(err, ErrPreferencesNotFound)
}

package session

import "errors"

// FailureMessage is the only text shown to the user when a login fails,
// whatever the cause.
const FailureMessage = "Login Failed"

var (
	ErrValidation      = errors.New("invalid credentials input")
	ErrLoginInProgress = errors.New("login already in progress")
	ErrLoginFailed     = errors.New("login failed")
)

// ValidationError names the offending field. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

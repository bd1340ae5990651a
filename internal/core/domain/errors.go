package domain

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrForbidden          = errors.New("access forbidden")
	ErrStore              = errors.New("store failure")

	// ErrUnavailable is what a client sees when the server cannot be reached
	// or answers with a 5xx.
	ErrUnavailable = errors.New("service unavailable")
)

// StoreError wraps an infrastructure failure. It is fatal to the request
// but never to the process, and matches ErrStore under errors.Is.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// Error names travel in HTTP error bodies so clients can tell failures apart
// without parsing messages.
const (
	NameDuplicateEmail     = "DuplicateEmail"
	NameInvalidCredentials = "InvalidCredentials"
	NameInvalidInput       = "InvalidInput"
	NameUserNotFound       = "UserNotFound"
	NameTokenExpired       = "TokenExpiredError"
	NameTokenInvalid       = "TokenInvalidError"
	NameUnauthorized       = "Unauthorized"
	NameStore              = "StoreError"
)

var namedErrors = map[string]error{
	NameDuplicateEmail:     ErrDuplicateEmail,
	NameInvalidCredentials: ErrInvalidCredentials,
	NameInvalidInput:       ErrInvalidInput,
	NameUserNotFound:       ErrUserNotFound,
	NameTokenExpired:       ErrTokenExpired,
	NameTokenInvalid:       ErrTokenInvalid,
	NameUnauthorized:       ErrForbidden,
	NameStore:              ErrStore,
}

// ErrorByName maps a wire error name back to its sentinel.
func ErrorByName(name string) (error, bool) {
	err, ok := namedErrors[name]
	return err, ok
}

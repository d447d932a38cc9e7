// Package apperrors holds the error taxonomy shared by repositories, services and handlers.
// Lower layers wrap these sentinels with fmt.Errorf("...: %w") so the HTTP boundary can
// map them with errors.Is.
package apperrors

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid token")
	ErrAccountDisabled      = errors.New("account disabled")
	ErrForbidden            = errors.New("forbidden")
	ErrValidation           = errors.New("validation failed")
	ErrUnsupportedFile      = errors.New("unsupported file type")
	ErrRegistrationDisabled = errors.New("registration disabled")
)

// DetailError carries a caller-facing message alongside one of the sentinels above.
type DetailError struct {
	Err    error
	Detail string
}

func (e *DetailError) Error() string {
	return e.Detail + ": " + e.Err.Error()
}

func (e *DetailError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a message that is safe to show to API callers.
func WithDetail(err error, detail string) error {
	return &DetailError{Err: err, Detail: detail}
}

// Detail returns the caller-facing message of err, or fallback when none was attached.
func Detail(err error, fallback string) string {
	var de *DetailError
	if errors.As(err, &de) {
		return de.Detail
	}
	return fallback
}

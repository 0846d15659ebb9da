package api

import "errors"

// Error taxonomy shared by every repository and handler. Repositories
// translate lower-level store/transport failures into one of these;
// handlers map them onto HTTP statuses and never leak the raw cause.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrValidation      = errors.New("validation failed")
	ErrInternal        = errors.New("internal error")
)

// reasonError pairs a taxonomy sentinel with a client-safe message.
type reasonError struct {
	kind error
	msg  string
}

func (e *reasonError) Error() string { return e.msg }
func (e *reasonError) Unwrap() error { return e.kind }

// ValidationError returns an ErrValidation with a descriptive, client-safe reason.
func ValidationError(msg string) error { return &reasonError{kind: ErrValidation, msg: msg} }

// ConflictError returns an ErrConflict with a descriptive, client-safe reason.
func ConflictError(msg string) error { return &reasonError{kind: ErrConflict, msg: msg} }

// Reason extracts the client-safe message attached to err, if any.
func Reason(err error) (string, bool) {
	var re *reasonError
	if errors.As(err, &re) {
		return re.msg, true
	}
	return "", false
}

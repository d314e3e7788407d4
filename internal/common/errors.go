package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict") // e.g., username already exists
	ErrInternalServer     = errors.New("internal server error")
	ErrValidation         = errors.New("validation failed")
	ErrServiceUnavailable = errors.New("service unavailable") // e.g. database down
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return http.StatusServiceUnavailable
	}

	if IsUniqueViolation(err) {
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

// IsUniqueViolation reports whether err carries a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// messageError carries a client-facing message for a sentinel kind.
type messageError struct {
	kind error
	msg  string
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.kind }

// WithMessage returns an error matching kind whose client-facing text is msg.
func WithMessage(kind error, msg string) error {
	return &messageError{kind: kind, msg: msg}
}

var publicKinds = []error{
	ErrNotFound, ErrUnauthorized, ErrForbidden, ErrBadRequest,
	ErrConflict, ErrValidation, ErrServiceUnavailable,
}

// PublicMessage returns the text that may be shown to a client for err.
// Wrapping context added on the way up is dropped; unknown errors get the
// generic internal error text.
func PublicMessage(err error) string {
	var me *messageError
	if errors.As(err, &me) {
		return me.msg
	}
	for _, kind := range publicKinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	if IsUniqueViolation(err) {
		return ErrConflict.Error()
	}
	return ErrInternalServer.Error()
}

package auth

import "errors"

// Rejection reasons for token verification and credential checks. Callers
// match them with errors.Is. The HTTP layer collapses all of them into a
// single unauthenticated response so clients cannot probe which check
// failed.
var (
	ErrMalformedToken = errors.New("auth: malformed token")
	ErrBadSignature   = errors.New("auth: bad token signature")
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrTokenRevoked   = errors.New("auth: token revoked")
	ErrBadCredentials = errors.New("auth: bad credentials")
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("auth: not found")

// IsRejection reports whether err is one of the authentication rejection
// reasons, as opposed to an infrastructure failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrBadSignature) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked) ||
		errors.Is(err, ErrBadCredentials)
}

// Reason returns a stable label for metrics and diagnostics. It never
// reaches a client response.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, ErrBadCredentials):
		return "bad_credentials"
	default:
		return "error"
	}
}

package auth

import (
	"errors"
	"fmt"
	"testing"
)

func TestReasonLabels(t *testing.T) {
	cases := map[string]error{
		"ok":              nil,
		"malformed":       ErrMalformedToken,
		"bad_signature":   ErrBadSignature,
		"expired":         ErrTokenExpired,
		"revoked":         fmt.Errorf("%w: revocation lookup: boom", ErrTokenRevoked),
		"bad_credentials": ErrBadCredentials,
		"error":           errors.New("connection refused"),
	}
	for want, err := range cases {
		if got := Reason(err); got != want {
			t.Fatalf("Reason(%v)=%q, want %q", err, got, want)
		}
	}
}

func TestIsRejection(t *testing.T) {
	for _, err := range []error{
		ErrMalformedToken, ErrBadSignature, ErrTokenExpired, ErrTokenRevoked, ErrBadCredentials,
		fmt.Errorf("wrapped: %w", ErrTokenExpired),
	} {
		if !IsRejection(err) {
			t.Fatalf("expected rejection: %v", err)
		}
	}
	if IsRejection(errors.New("io error")) || IsRejection(nil) {
		t.Fatal("non-rejection classified as rejection")
	}
}

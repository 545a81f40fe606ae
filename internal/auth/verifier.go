package auth

import (
	"context"
	"fmt"
	"time"
)

// VerifiedClaims is the outcome of a successful verification: everything a
// caller may rely on without re-parsing the token.
type VerifiedClaims struct {
	Subject   string
	TokenID   string
	Scopes    []string
	ExpiresAt time.Time
}

// Verifier answers "is this token currently valid" with a precise reason
// when it is not. Checks run in a fixed order and short-circuit on the
// first failure: parse, signature, expiry, revocation. Expiry is checked
// before the revocation store so the common case (natural expiry) never
// touches shared state; a token that is both expired and revoked is
// therefore reported as expired.
type Verifier struct {
	codec       *Codec
	revocations RevocationStore
	now         func() time.Time
}

// NewVerifier composes the codec with the revocation store.
func NewVerifier(codec *Codec, revocations RevocationStore, now func() time.Time) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{codec: codec, revocations: revocations, now: now}
}

// Verify validates the presented token string. Failures are one of
// ErrMalformedToken, ErrBadSignature, ErrTokenExpired or ErrTokenRevoked.
// A revocation lookup that itself fails is treated as revoked: failing
// open on store trouble would let terminated sessions back in.
func (v *Verifier) Verify(ctx context.Context, token string) (VerifiedClaims, error) {
	claims, err := v.codec.Parse(token)
	if err != nil {
		return VerifiedClaims{}, err
	}
	if !v.codec.VerifySignature(token) {
		return VerifiedClaims{}, ErrBadSignature
	}
	// Inclusive boundary: a token expiring exactly now is already expired.
	if !claims.ExpiresAt.Time.After(v.now().UTC()) {
		return VerifiedClaims{}, ErrTokenExpired
	}
	revoked, err := v.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return VerifiedClaims{}, fmt.Errorf("%w: revocation lookup: %v", ErrTokenRevoked, err)
	}
	if revoked {
		return VerifiedClaims{}, ErrTokenRevoked
	}
	return VerifiedClaims{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		Scopes:    SplitScopes(claims.Scope),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storeauth.org/internal/obs"
)

// Service is the authentication gateway: it orchestrates credential checks
// into token issuance and logout into revocation. It holds no session
// state for valid tokens; the bearer owns the token, the service owns only
// the denylist.
type Service struct {
	store    Store
	codec    *Codec
	verifier *Verifier
	now      func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService wires the gateway from its collaborators. The codec is built
// once at startup from configuration; there is no lazy initialization on
// the request path.
func NewService(store Store, codec *Codec, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if codec == nil {
		return nil, errors.New("auth: codec is required")
	}
	svc := &Service{store: store, codec: codec, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	svc.verifier = NewVerifier(codec, storeRevocations{store}, svc.now)
	return svc, nil
}

// storeRevocations defers the Users/RevokedTokens split of Store to call
// time so the verifier sees a plain RevocationStore.
type storeRevocations struct{ store Store }

func (r storeRevocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return r.store.RevokedTokens(ctx).Revoke(ctx, tokenID, expiresAt)
}

func (r storeRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return r.store.RevokedTokens(ctx).IsRevoked(ctx, tokenID)
}

func (r storeRevocations) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.store.RevokedTokens(ctx).PurgeExpired(ctx, now)
}

// IssuedToken is the result of a successful authentication.
type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// Authenticate checks the presented credentials and issues a signed token
// carrying the user's resolved scopes. An unknown email and a wrong
// password are deliberately indistinguishable: both return
// ErrBadCredentials. Authenticate performs no writes and is safe to retry;
// each call mints a fresh token id.
func (s *Service) Authenticate(ctx context.Context, email, password string) (IssuedToken, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return IssuedToken{}, ErrBadCredentials
	}
	user, err := s.store.Users(ctx).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return IssuedToken{}, ErrBadCredentials
		}
		return IssuedToken{}, fmt.Errorf("find user: %w", err)
	}
	if user.Status != UserStatusActive {
		return IssuedToken{}, ErrBadCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return IssuedToken{}, ErrBadCredentials
	}
	token, claims, err := s.codec.Issue(user.ID, ResolveScopes(user), s.now())
	if err != nil {
		return IssuedToken{}, err
	}
	obs.TokenIssued()
	return IssuedToken{
		Token:     token,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke terminates the session behind the presented token. The token must
// still verify: revoking an already-expired or garbage token is
// meaningless and the verification rejection propagates unchanged. The
// denylist insert is idempotent, so Revoke is safe to retry; a store write
// failure propagates as a server error because a logout that appears to
// succeed without persisting would be a security regression.
func (s *Service) Revoke(ctx context.Context, token string) error {
	claims, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return err
	}
	if err := s.store.RevokedTokens(ctx).Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	obs.TokenRevoked()
	return nil
}

// AuthenticateToken is the per-request hook for the HTTP pipeline: it
// verifies the bearer token and returns the request-scoped principal. All
// rejection reasons satisfy IsRejection; the transport must collapse them
// into one generic unauthenticated response.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (Principal, error) {
	claims, err := s.verifier.Verify(ctx, token)
	if err != nil {
		obs.TokenVerified(Reason(err))
		return Principal{}, err
	}
	obs.TokenVerified(Reason(nil))
	return NewPrincipal(claims), nil
}

// PurgeRevoked discards denylist entries whose tokens have expired anyway.
func (s *Service) PurgeRevoked(ctx context.Context) (int64, error) {
	removed, err := s.store.RevokedTokens(ctx).PurgeExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		obs.RevokedTokensPurged(removed)
	}
	return removed, nil
}

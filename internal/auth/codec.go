package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the signed token payload: registered JWT claims plus the
// space-joined scope string granted at issuance time.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Codec builds and signs tokens and parses presented token strings. It is
// stateless apart from the signing secret and safe for unlimited concurrent
// use. It deliberately does not check expiry or revocation: the Verifier
// owns semantic validity so every rejection carries a precise reason.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewCodec constructs a Codec from startup configuration. A missing secret
// is a configuration error: callers treat it as fatal, there is no lazy
// retry at request time.
func NewCodec(secret []byte, issuer string, ttl time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret is not configured")
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, errors.New("auth: token issuer is required")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token ttl must be greater than zero")
	}
	return &Codec{secret: secret, issuer: issuer, ttl: ttl}, nil
}

// TTL returns the configured validity duration.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issuer returns the fixed issuer embedded in every token.
func (c *Codec) Issuer() string { return c.issuer }

// Issue signs an HS256 token for the subject with a fresh random token id.
// Expiration is now + the configured validity duration.
func (c *Codec) Issue(subject string, scopes []string, now time.Time) (string, Claims, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", Claims{}, errors.New("auth: token subject is required")
	}
	now = now.UTC()
	claims := Claims{
		Scope: JoinScopes(scopes),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse decodes the three token segments without verifying the signature,
// so callers can distinguish "cannot even parse" from "parsed but invalid".
// Structural defects, including claims a well-formed token always carries,
// map to ErrMalformedToken.
func (c *Codec) Parse(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrMalformedToken
	}
	var claims Claims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return Claims{}, ErrMalformedToken
	}
	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.ID) == "" {
		return Claims{}, ErrMalformedToken
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return Claims{}, ErrMalformedToken
	}
	return claims, nil
}

// VerifySignature recomputes the HMAC over the header and payload segments
// and compares it against the signature segment in constant time. It pins
// the HS256 method so a token cannot downgrade the algorithm. It returns
// false on any mismatch and never errors.
func (c *Codec) VerifySignature(token string) bool {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	return err == nil && parsed.Valid
}

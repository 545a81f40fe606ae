package auth

import "strings"

// Principal is the request-scoped authenticated identity derived from a
// verified token: the subject id and the scope set granted at issuance.
// It carries no credential material.
type Principal struct {
	UserID   string
	TokenID  string
	scopes   []string
	scopeSet map[string]struct{}
}

// NewPrincipal builds a principal from verified claims.
func NewPrincipal(claims VerifiedClaims) Principal {
	set := make(map[string]struct{}, len(claims.Scopes))
	for _, s := range claims.Scopes {
		set[s] = struct{}{}
	}
	return Principal{
		UserID:   claims.Subject,
		TokenID:  claims.TokenID,
		scopes:   claims.Scopes,
		scopeSet: set,
	}
}

// Scopes returns a copy of the granted scope entries.
func (p Principal) Scopes() []string {
	out := make([]string, len(p.scopes))
	copy(out, p.scopes)
	return out
}

// HasScope reports whether the scope set contains the given entry.
func (p Principal) HasScope(scope string) bool {
	_, ok := p.scopeSet[scope]
	return ok
}

// HasRole reports whether the scope set contains the role marker for name,
// e.g. HasRole("ADMIN") checks for "ROLE_ADMIN".
func (p Principal) HasRole(name string) bool {
	return p.HasScope(RolePrefix + strings.TrimSpace(name))
}

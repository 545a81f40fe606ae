package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storeauth.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// Endpoints reachable without a token. Mirrors the login/logout exemptions
// of the upstream pipeline plus the operational probes.
var publicPaths = []string{
	"/auth/login",
	"/auth/logout",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}

// withAuth is the per-request authentication hook: it extracts the bearer
// token, verifies it and attaches the resulting principal to the request
// context. Route handlers never see an unauthenticated request. Every
// verification failure produces the same 401 body; the distinct reasons
// exist only in metrics and logs.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeUnauthenticated(w, r)
			return
		}

		principal, err := a.auth.AuthenticateToken(r.Context(), token)
		if err != nil {
			if auth.IsRejection(err) {
				writeUnauthenticated(w, r)
			} else {
				writeError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) requireScope(ctx context.Context, scope string) error {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return errors.New("no principal")
	}
	if !principal.HasScope(scope) {
		return errors.New("missing scope")
	}
	return nil
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

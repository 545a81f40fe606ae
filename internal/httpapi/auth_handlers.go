package httpapi

import (
	"errors"
	"net/http"
	"time"

	"storeauth.org/internal/audit"
	"storeauth.org/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type logoutRequest struct {
	Token string `json:"token"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	issued, err := a.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			// Same shape for unknown email and wrong password.
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "authentication error")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.token.issued", map[string]any{
		"token_id":   issued.TokenID,
		"expires_at": issued.ExpiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req logoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.auth.Revoke(r.Context(), req.Token); err != nil {
		if auth.IsRejection(err) {
			writeUnauthenticated(w, r)
			return
		}
		// A logout that did not persist must not look successful.
		writeError(w, r, http.StatusInternalServerError, "logout failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.token.revoked", nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": principal.UserID,
		"scopes":  principal.Scopes(),
	})
}

func (a *API) handlePurgeRevocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if err := a.requireScope(r.Context(), auth.RolePrefix+"ADMIN"); err != nil {
		writeError(w, r, http.StatusForbidden, "forbidden")
		return
	}
	removed, err := a.auth.PurgeRevoked(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "purge failed")
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.revocations.purged", map[string]any{
		"removed": removed,
	})
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

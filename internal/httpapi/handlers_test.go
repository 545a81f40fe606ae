package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestHealthz(t *testing.T) {
	_, h := newTestAPI(t)
	rr := doJSON(t, h, http.MethodGet, "/healthz", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp["service"] != "storeauth-api" {
		t.Fatalf("unexpected service name: %v", resp["service"])
	}
}

func TestReadyWithoutDB(t *testing.T) {
	_, h := newTestAPI(t)
	rr := doJSON(t, h, http.MethodGet, "/readyz", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestLoginMethodNotAllowed(t *testing.T) {
	_, h := newTestAPI(t)
	rr := doJSON(t, h, http.MethodGet, "/auth/login", nil, "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
	if got := rr.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("expected Allow: POST, got %q", got)
	}
}

func TestRequestIDHeaderAssigned(t *testing.T) {
	_, h := newTestAPI(t)
	rr := doJSON(t, h, http.MethodGet, "/healthz", nil, "")
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected X-Request-Id header")
	}
}

func TestUnknownPathBehindAuth(t *testing.T) {
	_, h := newTestAPI(t)
	rr := doJSON(t, h, http.MethodGet, "/v1/unknown", nil, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated unknown path: expected 401, got %d", rr.Code)
	}
}

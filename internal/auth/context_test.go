package auth

import (
	"context"
	"testing"
)

func TestContextHelpers(t *testing.T) {
	principal := NewPrincipal(VerifiedClaims{
		Subject: "user-7",
		TokenID: "jti-7",
		Scopes:  []string{"ROLE_ADMIN", "product:read"},
	})

	ctx := ContextWithPrincipal(context.Background(), principal)
	ctx = ContextWithToken(ctx, "raw.token.value")

	got, ok := PrincipalFromContext(ctx)
	if !ok || got.UserID != "user-7" {
		t.Fatalf("unexpected principal: %+v, ok=%v", got, ok)
	}
	if !got.HasRole("ADMIN") || !got.HasScope("product:read") {
		t.Fatalf("scope set lost in context round-trip: %v", got.Scopes())
	}
	if got.HasRole("USER") {
		t.Fatal("unexpected role")
	}

	token, ok := TokenFromContext(ctx)
	if !ok || token != "raw.token.value" {
		t.Fatalf("unexpected token: %q, ok=%v", token, ok)
	}

	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatal("principal found in empty context")
	}
	if _, ok := TokenFromContext(context.Background()); ok {
		t.Fatal("token found in empty context")
	}
}

package auth

import (
	"slices"
	"testing"
)

func TestResolveScopesRolesAndPermissions(t *testing.T) {
	user := &User{
		ID: "u-1",
		Roles: []Role{
			{
				Name: "ADMIN",
				Permissions: []Permission{
					{Name: "product:write"},
					{Name: "product:read"},
				},
			},
			{
				Name: "USER",
				Permissions: []Permission{
					{Name: "product:read"}, // shared with ADMIN, must not repeat
				},
			},
		},
	}

	scopes := ResolveScopes(user)
	want := []string{"ROLE_ADMIN", "product:write", "product:read", "ROLE_USER"}
	if !slices.Equal(scopes, want) {
		t.Fatalf("unexpected scopes: got %v, want %v", scopes, want)
	}
}

func TestResolveScopesContainsEveryRoleMarker(t *testing.T) {
	user := &User{Roles: []Role{{Name: "ADMIN"}, {Name: "MANAGER"}, {Name: "USER"}}}
	scopes := ResolveScopes(user)
	if len(scopes) == 0 {
		t.Fatal("expected non-empty scopes for a user with roles")
	}
	for _, role := range user.Roles {
		if !slices.Contains(scopes, RolePrefix+role.Name) {
			t.Fatalf("scopes %v missing marker for role %s", scopes, role.Name)
		}
	}
}

func TestResolveScopesNoRoles(t *testing.T) {
	if got := ResolveScopes(&User{ID: "u-2"}); len(got) != 0 {
		t.Fatalf("expected empty scopes, got %v", got)
	}
	if got := ResolveScopes(nil); got != nil {
		t.Fatalf("expected nil scopes for nil user, got %v", got)
	}
}

func TestJoinSplitScopes(t *testing.T) {
	scopes := []string{"ROLE_ADMIN", "product:write"}
	joined := JoinScopes(scopes)
	if joined != "ROLE_ADMIN product:write" {
		t.Fatalf("unexpected scope claim: %q", joined)
	}
	if got := SplitScopes(joined); !slices.Equal(got, scopes) {
		t.Fatalf("round-trip mismatch: %v", got)
	}
	if got := SplitScopes(""); len(got) != 0 {
		t.Fatalf("expected no entries for empty claim, got %v", got)
	}
}

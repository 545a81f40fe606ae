package auth

import "strings"

// RolePrefix marks role-derived entries in a token's scope so they are
// distinguishable from plain permission names.
const RolePrefix = "ROLE_"

// ResolveScopes flattens a user's role/permission graph into the authority
// strings embedded in a token: "ROLE_" + role name for every role, plus the
// name of every permission reachable through those roles. The result is
// de-duplicated and keeps insertion order, but consumers must treat it as
// an unordered set. A user with zero roles yields an empty slice; whether
// that is acceptable is decided at the authentication step.
func ResolveScopes(user *User) []string {
	if user == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var scopes []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		scopes = append(scopes, s)
	}
	for _, role := range user.Roles {
		add(RolePrefix + role.Name)
		for _, perm := range role.Permissions {
			add(perm.Name)
		}
	}
	return scopes
}

// JoinScopes encodes a scope set as the space-joined claim value.
func JoinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}

// SplitScopes decodes a scope claim back into its entries.
func SplitScopes(scope string) []string {
	return strings.Fields(scope)
}

package auth

import "time"

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User represents a store account. The Roles graph is always fully
// materialized by the store; nothing in this package triggers lazy loading.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Status       string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role groups permissions under a unique name such as "ADMIN" or "USER".
type Role struct {
	ID          string
	Name        string
	DisplayName string
	Permissions []Permission
}

// Permission is a fine-grained capability identified by a unique scope
// string such as "product:write".
type Permission struct {
	ID          string
	Name        string
	DisplayName string
}

// RevokedToken is a denylist entry for a token terminated before its
// natural expiry. ExpiresAt mirrors the token's own expiration claim and
// exists only so purging can discard entries that can no longer match a
// live token.
type RevokedToken struct {
	TokenID   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

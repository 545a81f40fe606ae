package auth

import "context"

// Store describes the persistence this subsystem consumes. Users, roles
// and permissions are owned by the external entity store and only read
// here; revoked tokens are the one table this subsystem owns.
type Store interface {
	Users(ctx context.Context) UserStore
	RevokedTokens(ctx context.Context) RevocationStore
}

// UserStore looks up principals. FindByEmail returns the user with the
// role/permission graph fully materialized; callers never trigger further
// loading.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}

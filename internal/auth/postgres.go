package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL. It is the backing required
// when the service runs with more than one instance: revocations must be
// visible to every instance the moment Revoke returns.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Users(context.Context) UserStore { return &pgUserStore{db: s.db} }

func (s *PGStore) RevokedTokens(context.Context) RevocationStore {
	return &pgRevocationStore{db: s.db}
}

// User store ---------------------------------------------------------------

type pgUserStore struct{ db *sql.DB }

// FindByEmail loads the user together with the complete role/permission
// graph. The graph is materialized here, in one place, so nothing
// downstream ever issues follow-up queries.
func (s *pgUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, email, password_hash, status, created_at, updated_at from users where email=$1`, email)
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	roles, err := s.rolesForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func (s *pgUserStore) rolesForUser(ctx context.Context, userID string) ([]Role, error) {
	rows, err := s.db.QueryContext(ctx,
		`select r.id, r.name, r.display_name from roles r
		 join user_roles ur on ur.role_id=r.id where ur.user_id=$1 order by ur.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.DisplayName); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range roles {
		perms, err := s.permissionsForRole(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Permissions = perms
	}
	return roles, nil
}

func (s *pgUserStore) permissionsForRole(ctx context.Context, roleID string) ([]Permission, error) {
	rows, err := s.db.QueryContext(ctx,
		`select p.id, p.name, p.display_name from permissions p
		 join role_permissions rp on rp.permission_id=p.id where rp.role_id=$1 order by p.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.DisplayName); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// Revocation store ---------------------------------------------------------

type pgRevocationStore struct{ db *sql.DB }

func (s *pgRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`insert into revoked_tokens(token_id, expires_at) values($1,$2) on conflict (token_id) do nothing`,
		tokenID, expiresAt,
	)
	return err
}

func (s *pgRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from revoked_tokens where token_id=$1)`, tokenID,
	).Scan(&revoked)
	if err != nil {
		return false, err
	}
	return revoked, nil
}

func (s *pgRevocationStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `delete from revoked_tokens where expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

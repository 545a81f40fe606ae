package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGFindByEmailMaterializesGraph(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("select id, email, password_hash, status, created_at, updated_at from users").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "status", "created_at", "updated_at"}).
			AddRow("user-1", "a@x.com", "$2a$10$hash", UserStatusActive, now, now))
	mock.ExpectQuery("select r.id, r.name, r.display_name from roles").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name"}).
			AddRow("role-1", "ADMIN", "Administrator").
			AddRow("role-2", "USER", "User"))
	mock.ExpectQuery("select p.id, p.name, p.display_name from permissions").
		WithArgs("role-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name"}).
			AddRow("perm-1", "product:write", "Write products"))
	mock.ExpectQuery("select p.id, p.name, p.display_name from permissions").
		WithArgs("role-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name"}))

	store := NewPGStore(db)
	user, err := store.Users(context.Background()).FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user.ID != "user-1" || len(user.Roles) != 2 {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Roles[0].Name != "ADMIN" || len(user.Roles[0].Permissions) != 1 {
		t.Fatalf("admin role graph not materialized: %+v", user.Roles[0])
	}
	if user.Roles[1].Name != "USER" || len(user.Roles[1].Permissions) != 0 {
		t.Fatalf("user role graph not materialized: %+v", user.Roles[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGFindByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select id, email, password_hash, status, created_at, updated_at from users").
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "status", "created_at", "updated_at"}))

	store := NewPGStore(db)
	_, err = store.Users(context.Background()).FindByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRevokeIdempotentInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	exp := time.Now().Add(time.Hour).UTC()
	mock.ExpectExec("insert into revoked_tokens").
		WithArgs("jti-1", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The conflict clause makes the second insert a no-op success.
	mock.ExpectExec("insert into revoked_tokens").
		WithArgs("jti-1", exp).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPGStore(db).RevokedTokens(context.Background())
	if err := store.Revoke(context.Background(), "jti-1", exp); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := store.Revoke(context.Background(), "jti-1", exp); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGIsRevoked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select exists").
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("select exists").
		WithArgs("jti-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	store := NewPGStore(db).RevokedTokens(context.Background())
	revoked, err := store.IsRevoked(context.Background(), "jti-1")
	if err != nil || !revoked {
		t.Fatalf("IsRevoked jti-1: %v, %v", revoked, err)
	}
	revoked, err = store.IsRevoked(context.Background(), "jti-2")
	if err != nil || revoked {
		t.Fatalf("IsRevoked jti-2: %v, %v", revoked, err)
	}
}

func TestPGPurgeExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec("delete from revoked_tokens").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	store := NewPGStore(db).RevokedTokens(context.Background())
	removed, err := store.PurgeExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
}

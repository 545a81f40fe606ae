package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"storeauth.org/internal/auth"
	"storeauth.org/internal/ids"
	"storeauth.org/internal/migrate"
)

func main() {
	log.SetFlags(0)
	var (
		dsn            = flag.String("dsn", os.Getenv("STOREAUTH_PG_DSN"), "PostgreSQL DSN")
		migrationsPath = flag.String("migrations", "migrations", "Path to SQL migrations")
		adminEmail     = flag.String("admin-email", "", "Admin account email for seed-admin")
		adminPassword  = flag.String("admin-password", "", "Admin account password for seed-admin")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or STOREAUTH_PG_DSN")
	}
	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down|status|seed-admin]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	mgr := migrate.NewManager(db, *migrationsPath)

	switch flag.Arg(0) {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "status":
		var history []string
		history, err = mgr.Status(ctx)
		if err == nil {
			for _, item := range history {
				fmt.Println(item)
			}
		}
	case "seed-admin":
		err = seedAdmin(ctx, db, *adminEmail, *adminPassword)
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}

// seedAdmin bootstraps the ADMIN role and an initial admin account so a
// fresh deployment has someone able to log in. Inserts are idempotent;
// rerunning with the same email leaves the existing account untouched.
func seedAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("seed-admin requires -admin-email and -admin-password")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	roleID := ids.New()
	if _, err := tx.ExecContext(ctx,
		`insert into roles(id, name, display_name) values($1,'ADMIN','Administrator')
		 on conflict (name) do nothing`, roleID); err != nil {
		return err
	}
	userID := ids.New()
	if _, err := tx.ExecContext(ctx,
		`insert into users(id, email, password_hash, status) values($1,$2,$3,$4)
		 on conflict (email) do nothing`,
		userID, email, hash, auth.UserStatusActive); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`insert into user_roles(user_id, role_id)
		 select u.id, r.id from users u, roles r where u.email=$1 and r.name='ADMIN'
		 on conflict do nothing`, email); err != nil {
		return err
	}
	return tx.Commit()
}

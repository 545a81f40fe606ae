package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"storeauth.org/internal/auth"
	"storeauth.org/internal/httpapi"
	"storeauth.org/internal/obs"
)

var version = "0.3.1"

func main() {
	obs.Init()

	// The codec is built once from configuration; a missing secret is a
	// startup failure, never a per-request one.
	secret := os.Getenv("STOREAUTH_SECRET")
	codec, err := auth.NewCodec([]byte(secret), envOr("STOREAUTH_ISSUER", "storeauth"), envDuration("STOREAUTH_TOKEN_TTL", 15*time.Minute))
	if err != nil {
		log.Fatalf("configure codec: %v", err)
	}

	dsn := os.Getenv("STOREAUTH_PG_DSN")
	if dsn == "" {
		log.Fatal("STOREAUTH_PG_DSN is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	var store auth.Store = auth.NewPGStore(db)
	var revocations auth.RevocationStore = store.RevokedTokens(context.Background())
	if os.Getenv("STOREAUTH_REVOCATIONS") == "memory" {
		// Single-instance only: a per-process denylist cannot satisfy the
		// visibility guarantee across replicas.
		mem := auth.NewMemoryRevocationStore()
		store = splitStore{users: store, revocations: mem}
		revocations = mem
	}

	svc, err := auth.NewService(store, codec)
	if err != nil {
		log.Fatalf("configure auth service: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, svc, version)

	srv := &http.Server{
		Addr:              envOr("STOREAUTH_ADDR", ":8080"),
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	purgeCtx, stopPurger := context.WithCancel(context.Background())
	go auth.RunPurger(purgeCtx, revocations, envDuration("STOREAUTH_PURGE_INTERVAL", 10*time.Minute))

	log.Printf("Starting storeauth-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	stopPurger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = db.Close()
	log.Println("Stopped")
}

// splitStore keeps users in PostgreSQL while serving revocations from the
// in-memory denylist.
type splitStore struct {
	users       auth.Store
	revocations auth.RevocationStore
}

func (s splitStore) Users(ctx context.Context) auth.UserStore { return s.users.Users(ctx) }

func (s splitStore) RevokedTokens(context.Context) auth.RevocationStore { return s.revocations }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Fatalf("%s: invalid duration %q", key, v)
	}
	return d
}

package main

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"youthreg/internal/adapters/email"
	web "youthreg/internal/adapters/http"
	"youthreg/internal/adapters/storage"
	memberStore "youthreg/internal/adapters/storage/member"
	"youthreg/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	dbPath := envOrDefault("REGISTRY_DB_PATH", "registry.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	store := memberStore.NewSQLiteStore(db)
	stores := &web.Stores{MemberStore: store}

	// First-run seeding: an empty store gets a synthetic roster exactly once.
	seedDeps := orchestrators.LoadRosterDeps{
		MemberStore: store,
		Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:         time.Now,
	}
	roster, err := orchestrators.ExecuteLoadRoster(context.Background(), seedDeps)
	if err != nil {
		log.Fatalf("failed to load roster: %v", err)
	}
	log.Printf("registry ready: %d members (version %s)", len(roster), version)

	// Email: Resend when configured, logging no-op otherwise.
	from := envOrDefault("REGISTRY_EMAIL_FROM", "Youth Registry <noreply@example.org>")
	if key := os.Getenv("REGISTRY_RESEND_KEY"); key != "" {
		web.SetEmailSender(email.NewResendSender(key, from), from)
	} else {
		web.SetEmailSender(email.NewNoopSender(), from)
	}

	addr := envOrDefault("REGISTRY_ADDR", ":8080")
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, web.NewMux(stores)); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// envOrDefault returns the environment value for key, or fallback when unset.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

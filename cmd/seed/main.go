package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/yogapermana/accountd/config"
	"github.com/yogapermana/accountd/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := "demo"
	email := "demo@example.com"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	key := helpers.NewActivationKey()
	if _, err := db.Exec(`
		INSERT INTO user_accounts (username, email, display_name, password_hash, role, enabled, activation_key)
		VALUES ($1, $2, $3, $4, 'ROLE_ADMIN', TRUE, $5)
		ON CONFLICT (username) DO NOTHING
	`, username, email, "Demo User", hash, key); err != nil {
		log.Fatalf("failed to seed account: %v", err)
	}
	fmt.Printf("seeded account: username=%s email=%s password=%s\n", username, email, password)
}

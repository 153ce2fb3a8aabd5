package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/pennyflow/backend/config"
	"github.com/pennyflow/backend/internal/auth"
)

// Builtin insight classes the product ships with.
var builtinInsightClasses = []struct {
	Key  string
	Name string
}{
	{"overspend_alert", "Overspending alerts"},
	{"recurring_charges", "Recurring charge tracking"},
	{"savings_opportunity", "Savings opportunities"},
	{"category_trends", "Category spending trends"},
	{"income_vs_expense", "Income vs expense summary"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, c := range builtinInsightClasses {
		if _, err := db.Exec(`
			INSERT INTO insight_classes (key, name, is_builtin)
			VALUES ($1, $2, TRUE)
			ON CONFLICT (key) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		`, c.Key, c.Name); err != nil {
			log.Fatalf("failed to seed insight class %s: %v", c.Key, err)
		}
	}
	fmt.Printf("seeded %d builtin insight classes\n", len(builtinInsightClasses))

	// Demo account, already verified so it can log in immediately.
	email := "demo@pennyflow.dev"
	password := "password123"
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, country, preferred_currency, is_verified)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (email) DO UPDATE SET updated_at = now()
		RETURNING id
	`, email, hash, "Demo User", "United States", "USD").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)
}

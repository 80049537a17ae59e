package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Standalone database bootstrap: creates the schema without going
// through the server's AutoMigrate, for fresh deployments.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Build connection string
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	// Connect to database
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Println("Connected to database successfully")

	schemaSQL := `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			points INTEGER NOT NULL DEFAULT 1000,
			created_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS user_stats (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL UNIQUE,
			attempted INTEGER NOT NULL DEFAULT 0,
			correct INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS questions (
			id SERIAL PRIMARY KEY,
			title VARCHAR(500) NOT NULL,
			article_url VARCHAR(1000) NOT NULL,
			category VARCHAR(50) NOT NULL,
			resolving_option_name VARCHAR(255),
			created_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category);

		CREATE TABLE IF NOT EXISTS options (
			id SERIAL PRIMARY KEY,
			question_id INTEGER NOT NULL,
			name VARCHAR(255) NOT NULL,
			price INTEGER NOT NULL DEFAULT 50,
			is_correct BOOLEAN NOT NULL DEFAULT FALSE
		);
		CREATE INDEX IF NOT EXISTS idx_options_question_id ON options (question_id);

		CREATE TABLE IF NOT EXISTS price_history_entries (
			id SERIAL PRIMARY KEY,
			question_id INTEGER NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			prices JSONB
		);
		CREATE INDEX IF NOT EXISTS idx_price_history_entries_question_id ON price_history_entries (question_id);

		CREATE TABLE IF NOT EXISTS bets (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL,
			question_id INTEGER NOT NULL,
			selected_option_name VARCHAR(255) NOT NULL,
			bet_amount INTEGER NOT NULL,
			price_at_bet INTEGER NOT NULL,
			created_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_bets_user_id ON bets (user_id);
		CREATE INDEX IF NOT EXISTS idx_bets_question_id ON bets (question_id);
		CREATE INDEX IF NOT EXISTS idx_bets_created_at ON bets (created_at);
	`

	log.Println("Executing schema bootstrap...")
	if _, err := db.Exec(schemaSQL); err != nil {
		log.Fatalf("Failed to execute schema bootstrap: %v", err)
	}

	log.Println("Migration completed successfully")
}

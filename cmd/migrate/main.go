package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/logscope/backend/internal/db"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Connect to database
	db.Connect()

	// Run migrations
	log.Println("Running database migrations...")
	db.AutoMigrate()

	// Supporting indexes gorm's AutoMigrate does not manage
	if err := createIndexes(); err != nil {
		log.Fatalf("Index creation failed: %v", err)
	}

	log.Println("Database migrations completed successfully!")
}

func createIndexes() error {
	conn, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		return err
	}
	defer conn.Close()

	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_projects_created_by ON projects (created_by)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_log_group ON projects (log_group)`,
	}
	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

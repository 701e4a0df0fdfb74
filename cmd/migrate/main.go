// Command migrate applies the embedded schema to the configured database.
package main

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

func main() {
	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("open database: %w", err))
	}
	defer db.Close()

	db.SetConnMaxLifetime(time.Minute)
	if err := db.Ping(); err != nil {
		exitWithError(fmt.Errorf("ping database: %w", err))
	}

	if _, err := db.Exec(schema); err != nil {
		exitWithError(fmt.Errorf("apply schema: %w", err))
	}

	fmt.Println("schema applied")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "migrate:", err)
	os.Exit(1)
}

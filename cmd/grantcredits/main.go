// Command grantcredits credits a user account directly, for support and
// local development. Production top-ups go through billing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"admaker/internal/adapter/repo"
)

func main() {
	var (
		idFlag     string
		amountFlag int
		createFlag bool
	)

	flag.StringVar(&idFlag, "id", "", "user ID to credit (UUID)")
	flag.IntVar(&amountFlag, "amount", 10, "credits to grant")
	flag.BoolVar(&createFlag, "create", false, "create the profile row if it does not exist")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	if userID == "" {
		exitWithError(errors.New("-id is required"))
	}
	if amountFlag <= 0 {
		exitWithError(errors.New("-amount must be positive"))
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("connect database: %w", err))
	}
	defer pool.Close()

	if createFlag {
		if _, err := pool.Exec(ctx, `INSERT INTO profiles (id) VALUES ($1) ON CONFLICT (id) DO NOTHING;`, userID); err != nil {
			exitWithError(fmt.Errorf("ensure profile: %w", err))
		}
	}

	ledger := repo.NewCreditLedger(pool)
	if err := ledger.Add(ctx, userID, amountFlag); err != nil {
		exitWithError(fmt.Errorf("grant credits: %w", err))
	}

	balance, err := ledger.Balance(ctx, userID)
	if err != nil {
		exitWithError(fmt.Errorf("read balance: %w", err))
	}

	fmt.Printf("granted %d credits, new balance %d\n", amountFlag, balance)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "grantcredits:", err)
	os.Exit(1)
}

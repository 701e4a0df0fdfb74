package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"admaker/internal/domain"
)

// CreditLedgerPG implements domain.CreditLedger on the profiles table. All
// mutations are single conditional UPDATE statements so concurrent campaigns
// for the same user cannot spend past the balance.
type CreditLedgerPG struct {
	pool *pgxpool.Pool
}

// NewCreditLedger creates a new credit ledger backed by PostgreSQL.
func NewCreditLedger(pool *pgxpool.Pool) *CreditLedgerPG {
	return &CreditLedgerPG{pool: pool}
}

// Consume decrements the balance iff it covers the amount. The WHERE clause
// is the race guard: losing a concurrent decrement simply matches zero rows.
func (l *CreditLedgerPG) Consume(ctx context.Context, userID string, amount int) (int, error) {
	query := `
UPDATE profiles
SET credits = credits - $2,
    updated_at = NOW()
WHERE id = $1 AND credits >= $2
RETURNING credits;
`
	var remaining int
	if err := l.pool.QueryRow(ctx, query, userID, amount).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrInsufficientCredits
		}
		return 0, err
	}
	return remaining, nil
}

// Refund increments unconditionally.
func (l *CreditLedgerPG) Refund(ctx context.Context, userID string, amount int) error {
	return l.credit(ctx, userID, amount)
}

// Add increments. Called by billing fulfillment on confirmed payment.
func (l *CreditLedgerPG) Add(ctx context.Context, userID string, amount int) error {
	return l.credit(ctx, userID, amount)
}

func (l *CreditLedgerPG) credit(ctx context.Context, userID string, amount int) error {
	query := `
UPDATE profiles
SET credits = credits + $2,
    updated_at = NOW()
WHERE id = $1;
`
	tag, err := l.pool.Exec(ctx, query, userID, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Balance returns the user's current credit balance.
func (l *CreditLedgerPG) Balance(ctx context.Context, userID string) (int, error) {
	query := `SELECT credits FROM profiles WHERE id = $1;`
	var credits int
	if err := l.pool.QueryRow(ctx, query, userID).Scan(&credits); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return credits, nil
}

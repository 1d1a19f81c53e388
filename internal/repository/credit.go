package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreditRepository handles the per-account credit counter. The counter is the
// only shared mutable state behind the entitlement gate, so every mutation
// here is a single SQL statement, never a read-then-write pair.
type CreditRepository struct {
	db *pgxpool.Pool
}

// NewCreditRepository creates a new CreditRepository.
func NewCreditRepository(db *pgxpool.Pool) *CreditRepository {
	return &CreditRepository{db: db}
}

// EnsureBalance creates the credit row for a user if it doesn't exist yet.
func (r *CreditRepository) EnsureBalance(ctx context.Context, userID string, initial int) error {
	query := `
		INSERT INTO credits (user_id, balance, period_start)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID, initial)
	if err != nil {
		return fmt.Errorf("failed to ensure credit balance: %w", err)
	}
	return nil
}

// Balance returns the current credit balance for a user (0 if no row).
func (r *CreditRepository) Balance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := r.db.QueryRow(ctx, `SELECT balance FROM credits WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read credit balance: %w", err)
	}
	return balance, nil
}

// DecrementIfPositive atomically debits one credit. It returns the new
// balance and true when a credit was consumed, or (0, false) when the counter
// was already at zero. The conditional update is a single statement so two
// concurrent requests can never both spend the last credit.
func (r *CreditRepository) DecrementIfPositive(ctx context.Context, userID string) (int, bool, error) {
	query := `
		UPDATE credits SET balance = balance - 1
		WHERE user_id = $1 AND balance > 0
		RETURNING balance
	`
	var balance int
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, false, nil // exhausted (or no row): deny, don't error
		}
		return 0, false, fmt.Errorf("failed to decrement credit: %w", err)
	}
	return balance, true, nil
}

// Refund restores one previously debited credit and returns the new balance.
func (r *CreditRepository) Refund(ctx context.Context, userID string) (int, error) {
	query := `
		UPDATE credits SET balance = balance + 1
		WHERE user_id = $1
		RETURNING balance
	`
	var balance int
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to refund credit: %w", err)
	}
	return balance, nil
}

// ResetLapsed tops every lapsed free-period counter back up to the monthly
// allowance and starts a new period. Called by the background sweeper.
func (r *CreditRepository) ResetLapsed(ctx context.Context, allowance int, period time.Duration) (int64, error) {
	query := `
		UPDATE credits SET balance = $1, period_start = NOW()
		WHERE period_start < NOW() - $2::interval
	`
	tag, err := r.db.Exec(ctx, query, allowance, fmt.Sprintf("%d seconds", int(period.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("failed to reset lapsed credits: %w", err)
	}
	return tag.RowsAffected(), nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"coinbot/database"
	"coinbot/domain/entities"

	"github.com/jackc/pgx/v5"
)

// AccountRepository is the Postgres LedgerStore
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates an account repository bound to a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// WithTx runs fn against a repository bound to a single transaction
func WithTx(ctx context.Context, db *database.DB, fn func(repo *AccountRepository) error) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return fn(newAccountRepositoryWithTx(tx))
	})
}

// GetOrCreateAccount retrieves an account, inserting a zero record on first reference
func (r *AccountRepository) GetOrCreateAccount(ctx context.Context, id int64) (*entities.Account, bool, error) {
	insert := `
		INSERT INTO accounts (id)
		VALUES ($1)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`

	created := true
	var inserted int64
	err := r.q.QueryRow(ctx, insert, id).Scan(&inserted)
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to create account %d: %w", id, err)
	}

	query := `
		SELECT id, balance, inventory, last_hourly, last_daily, last_monthly
		FROM accounts
		WHERE id = $1
	`

	var account entities.Account
	var inventory []byte
	err = r.q.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Balance,
		&inventory,
		&account.Last.Hourly,
		&account.Last.Daily,
		&account.Last.Monthly,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get account %d: %w", id, err)
	}

	account.Inventory = []string{}
	if err := json.Unmarshal(inventory, &account.Inventory); err != nil {
		return nil, false, fmt.Errorf("failed to decode inventory for account %d: %w", id, err)
	}

	return &account, created, nil
}

// SetBalance overwrites the balance, creating the account if needed
func (r *AccountRepository) SetBalance(ctx context.Context, id int64, value int64) error {
	query := `
		INSERT INTO accounts (id, balance)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance
	`

	if _, err := r.q.Exec(ctx, query, id, value); err != nil {
		return fmt.Errorf("failed to set balance for account %d: %w", id, err)
	}
	return nil
}

// ChangeBalance atomically adds delta to the balance and returns the result
func (r *AccountRepository) ChangeBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	query := `
		INSERT INTO accounts (id, balance)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance
		RETURNING balance
	`

	var balance int64
	if err := r.q.QueryRow(ctx, query, id, delta).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to change balance for account %d: %w", id, err)
	}
	return balance, nil
}

// GetLastClaim returns the unix time of the last claim in bucket, 0 when unknown
func (r *AccountRepository) GetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket) (int64, error) {
	column, err := lastClaimColumn(bucket)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, column)

	var last int64
	err = r.q.QueryRow(ctx, query, id).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get %s claim for account %d: %w", bucket, id, err)
	}
	return last, nil
}

// SetLastClaim records the unix time of a claim in bucket
func (r *AccountRepository) SetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket, unix int64) error {
	column, err := lastClaimColumn(bucket)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO accounts (id, %[1]s)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET %[1]s = EXCLUDED.%[1]s
	`, column)

	if _, err := r.q.Exec(ctx, query, id, unix); err != nil {
		return fmt.Errorf("failed to set %s claim for account %d: %w", bucket, id, err)
	}
	return nil
}

// lastClaimColumn maps a bucket to its column. Only whitelisted names reach SQL.
func lastClaimColumn(bucket entities.ClaimBucket) (string, error) {
	switch bucket {
	case entities.ClaimBucketHourly:
		return "last_hourly", nil
	case entities.ClaimBucketDaily:
		return "last_daily", nil
	case entities.ClaimBucketMonthly:
		return "last_monthly", nil
	default:
		return "", fmt.Errorf("unknown claim bucket %q", bucket)
	}
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/h4j4x/expenses/internal/core/domain"
)

const accountColumns = `id, user_id, name, account_type, currency, balance, balance_updated_at, created_at`

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO user_accounts (user_id, name, account_type, currency, balance, balance_updated_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		account.UserID, account.Name, account.AccountType, account.Currency,
		account.Balance, account.BalanceUpdatedAt, account.CreatedAt,
	).Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *AccountRepository) FindByUserAndID(ctx context.Context, userID, id int64) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE user_id = $1 AND id = $2`, userID, id)
}

func (r *AccountRepository) findOne(ctx context.Context, where string, args ...any) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM user_accounts ` + where
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	account, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[domain.Account])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) FindAllByUser(ctx context.Context, userID int64) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM user_accounts WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	accounts, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Account])
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) CountByUserAndName(ctx context.Context, userID int64, name string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_accounts WHERE user_id = $1 AND name = $2`, userID, name,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

func (r *AccountRepository) CountByUserAndNameExcluding(ctx context.Context, userID int64, name string, id int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_accounts WHERE user_id = $1 AND name = $2 AND id <> $3`,
		userID, name, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// UpdateDetails writes name, type and currency. Balance and watermark are out
// of reach here: they only move through UpdateBalance.
func (r *AccountRepository) UpdateDetails(ctx context.Context, account *domain.Account) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_accounts SET name = $2, account_type = $3, currency = $4 WHERE id = $1`,
		account.ID, account.Name, account.AccountType, account.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateBalance moves balance and watermark together, conditioned on the
// watermark still holding the value the fold started from. A false return
// means a concurrent fold won; the caller re-reads and retries.
func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal, watermark, expected time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_accounts
		SET balance = $2, balance_updated_at = $3
		WHERE id = $1 AND balance_updated_at = $4`,
		id, balance, watermark, expected,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update balance: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

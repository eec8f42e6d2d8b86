package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/h4j4x/expenses/internal/core/domain"
)

const transactionColumns = `id, user_id, account_id, category_id, amount, notes, creation_way, status, confirmed_at, created_at`

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create persists the entry and its reconciliation signal in one database
// transaction, so a committed entry always has its event on the outbox.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO user_transactions (user_id, account_id, category_id, amount, notes, creation_way, status, confirmed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		transaction.UserID, transaction.AccountID, transaction.CategoryID,
		transaction.Amount, transaction.Notes, transaction.CreationWay,
		transaction.Status, transaction.ConfirmedAt, transaction.CreatedAt,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	if err := insertAccountEvent(ctx, tx, transaction.AccountID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *TransactionRepository) FindByAccountAndID(ctx context.Context, accountID, id int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM user_transactions WHERE account_id = $1 AND id = $2`
	rows, err := r.db.Query(ctx, query, accountID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	transaction, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[domain.Transaction])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	return &transaction, nil
}

func (r *TransactionRepository) FindAllByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM user_transactions WHERE account_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	transactions, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// FindConfirmedInWindow returns CONFIRMED entries with from <= confirmed_at < to.
func (r *TransactionRepository) FindConfirmedInWindow(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM user_transactions
		WHERE account_id = $1 AND status = $2 AND confirmed_at >= $3 AND confirmed_at < $4
	`
	rows, err := r.db.Query(ctx, query, accountID, domain.TransactionConfirmed, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch confirmed transactions: %w", err)
	}
	transactions, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to fetch confirmed transactions: %w", err)
	}
	return transactions, nil
}

// Confirm moves a pending entry forward, stamping its confirmation time, and
// enqueues the reconciliation signal in the same database transaction. The
// status predicate keeps the transition forward-only; an already confirmed
// entry changes nothing and enqueues nothing.
func (r *TransactionRepository) Confirm(ctx context.Context, accountID, id int64, confirmedAt time.Time) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to confirm transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE user_transactions
		SET status = $3, confirmed_at = $4
		WHERE account_id = $1 AND id = $2 AND status IN ($5, $6)`,
		accountID, id, domain.TransactionConfirmed, confirmedAt,
		domain.TransactionPending, domain.TransactionAdjustPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to confirm transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, tx.Commit(ctx)
	}
	if err := insertAccountEvent(ctx, tx, accountID); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

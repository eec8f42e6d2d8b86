package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReconcileEvent is one queued reconciliation signal: "account accountID has
// new ledger activity, refold its balance".
type ReconcileEvent struct {
	ID        uuid.UUID
	AccountID int64
	Attempts  int
}

// OutboxRepository is the at-least-once delivery channel between ledger
// writes and the reconcile worker, backed by the account_events table.
// Producers never insert through it directly: events are written by
// insertAccountEvent inside the same transaction as the ledger row they
// signal.
type OutboxRepository struct {
	db *pgxpool.Pool
}

func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// insertAccountEvent records a reconciliation signal for the account on the
// caller's transaction.
func insertAccountEvent(ctx context.Context, tx pgx.Tx, accountID int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO account_events (id, account_id, status, attempts, next_run_at, created_at)
		VALUES ($1, $2, 'PENDING', 0, NOW(), NOW())`,
		uuid.New(), accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue account event: %w", err)
	}
	return nil
}

// Next claims the oldest due event. SKIP LOCKED lets multiple consumers work
// distinct events without blocking each other; the row stays locked until the
// caller's Complete or Retry releases it.
func (r *OutboxRepository) Next(ctx context.Context) (*ReconcileEvent, pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin event claim: %w", err)
	}
	var event ReconcileEvent
	err = tx.QueryRow(ctx, `
		SELECT id, account_id, attempts
		FROM account_events
		WHERE status = 'PENDING' AND next_run_at <= NOW()
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`).Scan(&event.ID, &event.AccountID, &event.Attempts)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = tx.Rollback(ctx)
		return nil, nil, nil
	}
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, nil, fmt.Errorf("failed to claim account event: %w", err)
	}
	return &event, tx, nil
}

// Complete marks the claimed event done.
func (r *OutboxRepository) Complete(ctx context.Context, tx pgx.Tx, event *ReconcileEvent) error {
	if _, err := tx.Exec(ctx,
		`UPDATE account_events SET status = 'COMPLETED' WHERE id = $1`, event.ID,
	); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to complete account event: %w", err)
	}
	return tx.Commit(ctx)
}

// Retry reschedules the claimed event, or parks it as FAILED once attempts
// are exhausted.
func (r *OutboxRepository) Retry(ctx context.Context, tx pgx.Tx, event *ReconcileEvent, maxAttempts int, delay time.Duration) error {
	var err error
	if event.Attempts+1 >= maxAttempts {
		_, err = tx.Exec(ctx,
			`UPDATE account_events SET status = 'FAILED', attempts = attempts + 1 WHERE id = $1`, event.ID)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE account_events SET attempts = attempts + 1, next_run_at = $2 WHERE id = $1`,
			event.ID, time.Now().Add(delay))
	}
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to reschedule account event: %w", err)
	}
	return tx.Commit(ctx)
}

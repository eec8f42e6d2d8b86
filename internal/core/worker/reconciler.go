package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/h4j4x/expenses/internal/adapter/storage"
	"github.com/h4j4x/expenses/internal/core/service"
)

// Reconciler consumes account events from the outbox and refolds balances.
// One event at a time per consumer; delivery is at-least-once, so a crash
// between recompute and Complete only means a harmless extra fold.
type Reconciler struct {
	outbox       *storage.OutboxRepository
	reconciler   *service.Reconciler
	pollInterval time.Duration
	maxAttempts  int
}

func NewReconciler(outbox *storage.OutboxRepository, reconciler *service.Reconciler, pollInterval time.Duration, maxAttempts int) *Reconciler {
	return &Reconciler{
		outbox:       outbox,
		reconciler:   reconciler,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
	}
}

// Run polls until the context is cancelled.
func (w *Reconciler) Run(ctx context.Context) {
	slog.Info("Reconcile worker started", "poll_interval", w.pollInterval)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Reconcile worker stopped")
			return
		case <-ticker.C:
			// Drain everything due before sleeping again.
			for w.processNext(ctx) {
			}
		}
	}
}

func (w *Reconciler) processNext(ctx context.Context) bool {
	event, tx, err := w.outbox.Next(ctx)
	if err != nil {
		slog.Error("Worker: failed to claim event", "error", err)
		return false
	}
	if event == nil {
		return false
	}

	account, err := w.reconciler.Recompute(ctx, event.AccountID)
	if err != nil {
		slog.Error("Worker: recompute failed", "error", err, "account_id", event.AccountID, "attempts", event.Attempts)
		delay := time.Duration(event.Attempts*10+10) * time.Second
		if err := w.outbox.Retry(ctx, tx, event, w.maxAttempts, delay); err != nil {
			slog.Error("Worker: failed to reschedule event", "error", err, "event_id", event.ID)
		}
		return true
	}

	slog.Info("Worker: account balance reconciled",
		"account_id", account.ID, "balance", account.Balance, "watermark", account.BalanceUpdatedAt)
	if err := w.outbox.Complete(ctx, tx, event); err != nil {
		slog.Error("Worker: failed to complete event", "error", err, "event_id", event.ID)
	}
	return true
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/h4j4x/expenses/internal/core/domain"
)

// ErrReconcileConflict is returned when the conditional balance update kept
// losing to concurrent folds. The signal's redelivery retries the recompute.
var ErrReconcileConflict = errors.New("balance update conflict")

const reconcileAttempts = 3

// Reconciler folds confirmed transactions into account balances. Each fold
// covers the half-open window [watermark, now) on confirmation time: windows
// tile exactly across folds, so no entry is counted twice, and an entry
// confirmed after earlier folds still lands in a later window.
type Reconciler struct {
	accounts     AccountStore
	transactions TransactionStore
	now          func() time.Time
}

func NewReconciler(accounts AccountStore, transactions TransactionStore) *Reconciler {
	return &Reconciler{accounts: accounts, transactions: transactions, now: time.Now}
}

// Recompute brings the account's balance up to date with its confirmed
// ledger entries and advances the watermark. Idempotent: with no new
// confirmed entries the balance is unchanged.
//
// The watermark instant is captured before the fetch, and balance and
// watermark are persisted in one conditional update keyed on the watermark
// read at the start. Losing that race re-reads and refolds from scratch; the
// watermark is never advanced without the matching balance.
func (r *Reconciler) Recompute(ctx context.Context, accountID int64) (*domain.Account, error) {
	for attempt := 0; attempt < reconcileAttempts; attempt++ {
		account, err := r.accounts.FindByID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		now := r.now().UTC()
		window, err := r.transactions.FindConfirmedInWindow(ctx, accountID, account.BalanceUpdatedAt, now)
		if err != nil {
			return nil, fmt.Errorf("fetch confirmed transactions: %w", err)
		}
		sum := decimal.Zero
		for _, transaction := range window {
			sum = sum.Add(transaction.Amount)
		}
		balance := account.Balance.Add(sum)
		updated, err := r.accounts.UpdateBalance(ctx, accountID, balance, now, account.BalanceUpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("update balance: %w", err)
		}
		if updated {
			account.Balance = balance
			account.BalanceUpdatedAt = now
			return account, nil
		}
		slog.Warn("Lost balance update race, refolding", "account_id", accountID, "attempt", attempt+1)
	}
	return nil, fmt.Errorf("%w: account %d", ErrReconcileConflict, accountID)
}

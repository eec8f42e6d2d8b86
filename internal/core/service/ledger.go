package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/h4j4x/expenses/internal/core/domain"
	"github.com/h4j4x/expenses/internal/core/keys"
)

// AmountScale is the fixed-point precision of ledger amounts: two decimal
// digits, exact.
const AmountScale = 2

// LedgerDefaults fill transaction fields the caller left unset.
type LedgerDefaults struct {
	CreationWay domain.CreationWay
	Status      domain.TransactionStatus
}

// TransactionInput carries the data for a new ledger entry. Nil optional
// fields fall back to the configured defaults.
type TransactionInput struct {
	Notes       string
	Amount      decimal.Decimal
	CategoryID  *int64
	CreationWay *domain.CreationWay
	Status      *domain.TransactionStatus
}

// Ledger owns the transaction lifecycle. The store persists each entry and
// its reconciliation signal atomically, so a durable append always reaches
// the reconcile worker.
type Ledger struct {
	transactions TransactionStore
	accounts     AccountStore
	categories   CategoryStore
	defaults     LedgerDefaults
	now          func() time.Time
}

func NewLedger(transactions TransactionStore, accounts AccountStore, categories CategoryStore, defaults LedgerDefaults) *Ledger {
	return &Ledger{
		transactions: transactions,
		accounts:     accounts,
		categories:   categories,
		defaults:     defaults,
		now:          time.Now,
	}
}

// Append validates and persists a new ledger entry on the given account. A
// category, when given, must exist and belong to the account's owner. Entries
// born CONFIRMED carry their creation instant as confirmation time.
func (l *Ledger) Append(ctx context.Context, account *domain.Account, input TransactionInput) (*domain.Transaction, error) {
	if strings.TrimSpace(input.Notes) == "" {
		return nil, fmt.Errorf("%w: transaction notes are required", domain.ErrValidation)
	}
	if !input.Amount.Equal(input.Amount.Round(AmountScale)) {
		return nil, fmt.Errorf("%w: amount must have at most %d decimal digits", domain.ErrValidation, AmountScale)
	}
	if input.CategoryID != nil {
		if _, err := l.categories.FindByUserAndID(ctx, account.UserID, *input.CategoryID); err != nil {
			return nil, err
		}
	}
	createdAt := l.now().UTC()
	transaction := &domain.Transaction{
		UserID:      account.UserID,
		AccountID:   account.ID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Notes:       input.Notes,
		CreationWay: mergeCreationWay(input.CreationWay, l.defaults.CreationWay),
		Status:      mergeStatus(input.Status, l.defaults.Status),
		CreatedAt:   createdAt,
	}
	if transaction.Status == domain.TransactionConfirmed {
		transaction.ConfirmedAt = &createdAt
	}
	if err := l.transactions.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}
	return transaction, nil
}

// Confirm moves a pending entry to CONFIRMED, stamping the confirmation
// instant the next fold windows over. The key encodes (accountID,
// transactionID); the account must belong to the caller. Confirming an
// already confirmed entry is a no-op.
func (l *Ledger) Confirm(ctx context.Context, user *domain.User, key string) (*domain.Transaction, error) {
	accountID, ok := keys.Transaction.DecodePrefix(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	transactionID, ok := keys.Transaction.DecodeSuffix(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if _, err := l.accounts.FindByUserAndID(ctx, user.ID, accountID); err != nil {
		return nil, err
	}
	if _, err := l.transactions.Confirm(ctx, accountID, transactionID, l.now().UTC()); err != nil {
		return nil, fmt.Errorf("confirm transaction: %w", err)
	}
	return l.transactions.FindByAccountAndID(ctx, accountID, transactionID)
}

// ListByAccount returns the account's ledger history. The key must decode to
// an account owned by the caller.
func (l *Ledger) ListByAccount(ctx context.Context, user *domain.User, accountKey string) ([]domain.Transaction, error) {
	account, err := resolveAccount(ctx, l.accounts, user, accountKey)
	if err != nil {
		return nil, err
	}
	return l.transactions.FindAllByAccount(ctx, account.ID)
}

// resolveAccount decodes an account key and loads the row, folding owner
// mismatches and malformed keys into ErrNotFound.
func resolveAccount(ctx context.Context, accounts AccountStore, user *domain.User, key string) (*domain.Account, error) {
	userID, ok := keys.Account.DecodePrefix(key)
	if !ok || userID != user.ID {
		return nil, domain.ErrNotFound
	}
	accountID, ok := keys.Account.DecodeSuffix(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return accounts.FindByUserAndID(ctx, user.ID, accountID)
}

func mergeCreationWay(value *domain.CreationWay, fallback domain.CreationWay) domain.CreationWay {
	if value != nil {
		return *value
	}
	return fallback
}

func mergeStatus(value *domain.TransactionStatus, fallback domain.TransactionStatus) domain.TransactionStatus {
	if value != nil {
		return *value
	}
	return fallback
}

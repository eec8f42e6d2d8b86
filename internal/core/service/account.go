package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/h4j4x/expenses/internal/core/domain"
)

const (
	initialBalanceNotes  = "Initial balance"
	adjustedBalanceNotes = "Adjusted balance"
)

// AccountDefaults fill account fields the caller left unset.
type AccountDefaults struct {
	AccountType domain.AccountType
	Currency    string
}

// AccountInput carries account create/edit data. Nil optional fields keep the
// default (on create) or the current value (on edit); each field is merged
// explicitly.
type AccountInput struct {
	Name        string
	AccountType *domain.AccountType
	Currency    *string
	Balance     *decimal.Decimal
}

// Accounts orchestrates the account lifecycle. Balance-affecting creates and
// edits never touch the balance column themselves: they append ledger entries
// whose reconciliation moves the balance asynchronously.
type Accounts struct {
	accounts AccountStore
	ledger   *Ledger
	defaults AccountDefaults
}

func NewAccounts(accounts AccountStore, ledger *Ledger, defaults AccountDefaults) *Accounts {
	return &Accounts{accounts: accounts, ledger: ledger, defaults: defaults}
}

// Create adds an account for the user. The stored balance starts at zero and
// the watermark at creation time; a non-zero initial balance becomes a
// CONFIRMED SYSTEM ledger entry that reconciliation folds in afterwards.
func (s *Accounts) Create(ctx context.Context, user *domain.User, input AccountInput) (*domain.Account, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: account name is required", domain.ErrValidation)
	}
	count, err := s.accounts.CountByUserAndName(ctx, user.ID, input.Name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrDuplicateName
	}
	now := time.Now().UTC()
	account := &domain.Account{
		UserID:           user.ID,
		Name:             input.Name,
		AccountType:      mergeAccountType(input.AccountType, s.defaults.AccountType),
		Currency:         mergeString(input.Currency, s.defaults.Currency),
		Balance:          decimal.Zero,
		BalanceUpdatedAt: now,
		CreatedAt:        now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	if input.Balance != nil && !input.Balance.IsZero() {
		s.appendSystem(ctx, account, initialBalanceNotes, *input.Balance, domain.TransactionConfirmed)
	}
	return account, nil
}

// Edit updates an account addressed by its opaque key. A changed balance is
// recorded as an ADJUST_PENDING SYSTEM entry carrying the delta from the
// current balance; the stored balance only moves once that entry is confirmed
// and reconciled.
func (s *Accounts) Edit(ctx context.Context, user *domain.User, key string, input AccountInput) (*domain.Account, error) {
	account, err := resolveAccount(ctx, s.accounts, user, key)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: account name is required", domain.ErrValidation)
	}
	count, err := s.accounts.CountByUserAndNameExcluding(ctx, user.ID, input.Name, account.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrDuplicateName
	}
	account.Name = input.Name
	account.AccountType = mergeAccountType(input.AccountType, account.AccountType)
	account.Currency = mergeString(input.Currency, account.Currency)
	if err := s.accounts.UpdateDetails(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	if input.Balance != nil && !input.Balance.Equal(account.Balance) {
		delta := input.Balance.Sub(account.Balance)
		s.appendSystem(ctx, account, adjustedBalanceNotes, delta, domain.TransactionAdjustPending)
	}
	return account, nil
}

// Get loads one account by its opaque key.
func (s *Accounts) Get(ctx context.Context, user *domain.User, key string) (*domain.Account, error) {
	return resolveAccount(ctx, s.accounts, user, key)
}

// List returns all the user's accounts.
func (s *Accounts) List(ctx context.Context, user *domain.User) ([]domain.Account, error) {
	return s.accounts.FindAllByUser(ctx, user.ID)
}

// appendSystem records a lifecycle ledger entry. The account itself is
// already persisted; a failed append is logged and left to the user to retry
// through an explicit adjustment.
func (s *Accounts) appendSystem(ctx context.Context, account *domain.Account, notes string, amount decimal.Decimal, status domain.TransactionStatus) {
	way := domain.CreationSystem
	if _, err := s.ledger.Append(ctx, account, TransactionInput{
		Notes:       notes,
		Amount:      amount,
		CreationWay: &way,
		Status:      &status,
	}); err != nil {
		slog.Error("Failed to append lifecycle transaction", "error", err, "account_id", account.ID, "notes", notes)
	}
}

func mergeAccountType(value *domain.AccountType, fallback domain.AccountType) domain.AccountType {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}

func mergeString(value *string, fallback string) string {
	if value != nil && strings.TrimSpace(*value) != "" {
		return *value
	}
	return fallback
}
